package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shreya728/pdfbot/internal/models"
)

// Service persists chat transcripts. Turns are append-only; a chat
// session exists exactly as long as it has rows.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) SaveTurn(ctx context.Context, turn models.ChatTurn) error {
	var sources []byte
	if len(turn.FileSources) > 0 {
		var err error
		sources, err = json.Marshal(turn.FileSources)
		if err != nil {
			return fmt.Errorf("marshal file sources: %w", err)
		}
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO chat_history (username, chat_id, timestamp, user_message, bot_response, file_sources)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		turn.Username, turn.ChatID, turn.Timestamp, turn.UserMessage, turn.BotResponse, sources,
	)
	if err != nil {
		return fmt.Errorf("insert chat turn: %w", err)
	}
	return nil
}

func (s *Service) History(ctx context.Context, username string, chatID int) ([]models.ChatTurn, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, username, chat_id, timestamp, user_message, bot_response, file_sources
		 FROM chat_history
		 WHERE username = $1 AND chat_id = $2
		 ORDER BY timestamp`,
		username, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer rows.Close()

	var turns []models.ChatTurn
	for rows.Next() {
		var t models.ChatTurn
		var sources []byte
		if err := rows.Scan(&t.ID, &t.Username, &t.ChatID, &t.Timestamp, &t.UserMessage, &t.BotResponse, &sources); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		if len(sources) > 0 {
			if err := json.Unmarshal(sources, &t.FileSources); err != nil {
				return nil, fmt.Errorf("unmarshal file sources: %w", err)
			}
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ListChats returns the user's chat ids, newest first. Ids are unique
// only within the user's namespace.
func (s *Service) ListChats(ctx context.Context, username string) ([]int, error) {
	rows, err := s.db.Query(ctx,
		"SELECT DISTINCT chat_id FROM chat_history WHERE username = $1 ORDER BY chat_id DESC",
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan chat id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// NextChatID allocates the next per-user chat id (max existing + 1,
// starting at 1).
func (s *Service) NextChatID(ctx context.Context, username string) (int, error) {
	var next int
	err := s.db.QueryRow(ctx,
		"SELECT COALESCE(MAX(chat_id), 0) + 1 FROM chat_history WHERE username = $1",
		username,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next chat id: %w", err)
	}
	return next, nil
}

// Delete removes every turn of one (username, chat_id) pair and nothing
// else.
func (s *Service) Delete(ctx context.Context, username string, chatID int) error {
	_, err := s.db.Exec(ctx,
		"DELETE FROM chat_history WHERE username = $1 AND chat_id = $2",
		username, chatID,
	)
	if err != nil {
		return fmt.Errorf("delete chat %d: %w", chatID, err)
	}
	return nil
}

type Analytics struct {
	TotalActivities int `json:"total_activities"`
	TotalChats      int `json:"total_chats"`
}

func (s *Service) Analytics(ctx context.Context, username string) (Analytics, error) {
	var a Analytics
	err := s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM user_activity WHERE username = $1", username,
	).Scan(&a.TotalActivities)
	if err != nil {
		return Analytics{}, fmt.Errorf("count activities: %w", err)
	}
	err = s.db.QueryRow(ctx,
		"SELECT COUNT(DISTINCT chat_id) FROM chat_history WHERE username = $1", username,
	).Scan(&a.TotalChats)
	if err != nil {
		return Analytics{}, fmt.Errorf("count chats: %w", err)
	}
	return a, nil
}
