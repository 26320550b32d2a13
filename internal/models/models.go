package models

import "time"

// User is created at registration and read at login; rows are never
// mutated after creation.
type User struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Password    string  `json:"-"`
	DisplayName *string `json:"display_name,omitempty"`
}

// ChatTurn is one user message and its answer within a chat session.
// Rows are append-only and ordered by timestamp; ChatID is unique only
// within a user's namespace.
type ChatTurn struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	ChatID      int       `json:"chat_id"`
	Timestamp   time.Time `json:"timestamp"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	FileSources []string  `json:"file_sources,omitempty"`
}

// ActivityRecord is an append-only audit entry.
type ActivityRecord struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	ActivityType string    `json:"activity_type"`
	Details      string    `json:"details,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// FileProcessingRecord logs one processed upload.
type FileProcessingRecord struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	FileStatusSuccess = "success"
	FileStatusEmpty   = "empty"
	FileStatusFailed  = "failed"
)

const (
	ActivityLogin      = "login"
	ActivityRegister   = "register"
	ActivityFileUpload = "file_upload"
	ActivityNewChat    = "new_chat"
	ActivityLoadChat   = "load_chat"
	ActivityDeleteChat = "delete_chat"
	ActivityExportChat = "export_chat"
	ActivityQuery      = "successful_query"
)
