package session

// State tracks where a user's conversation sits: no context yet, files
// indexed but no question asked, or an ongoing exchange.
type State string

const (
	StateNoContext   State = "no_context"
	StateFilesLoaded State = "files_loaded"
	StateConversing  State = "conversing"
)

// Session is one user's conversational state. It lives in Redis between
// requests; the vector index and chat history are the durable parts.
type Session struct {
	ChatID       int      `json:"chat_id"`
	State        State    `json:"state"`
	CurrentFiles []string `json:"current_files,omitempty"`
	LoadedChat   bool     `json:"loaded_chat"`
}

// New returns a fresh session with nothing loaded.
func New() *Session {
	return &Session{State: StateNoContext}
}

// SetFiles records a new upload batch. Uploading replaces the previous
// file-set and drops any loaded-chat context.
func (s *Session) SetFiles(chatID int, files []string) {
	s.ChatID = chatID
	s.CurrentFiles = files
	s.LoadedChat = false
	s.State = StateFilesLoaded
}

// LoadChat resumes a stored conversation. The recorded source files
// stand in for a live index, so chatting is allowed immediately.
func (s *Session) LoadChat(chatID int, sources []string) {
	s.ChatID = chatID
	s.CurrentFiles = sources
	s.LoadedChat = true
	s.State = StateConversing
}

// MarkConversing advances the state after a successful exchange.
func (s *Session) MarkConversing() {
	if s.State == StateFilesLoaded {
		s.State = StateConversing
	}
}

// Reset starts a new empty chat under the given ID.
func (s *Session) Reset(chatID int) {
	s.ChatID = chatID
	s.CurrentFiles = nil
	s.LoadedChat = false
	s.State = StateNoContext
}

// CanChat reports whether answering is allowed: either an uploaded
// file-set backs the index or a previous chat was loaded.
func (s *Session) CanChat() bool {
	return s.State != StateNoContext || s.LoadedChat
}

// FilesActive reports whether the live index holds this session's
// uploads (as opposed to loaded-chat context).
func (s *Session) FilesActive() bool {
	return !s.LoadedChat && s.State != StateNoContext
}
