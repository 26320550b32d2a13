package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shreya728/pdfbot/internal/models"
)

// Service appends to the activity and file-processing logs. Both tables
// are insert-only; ordering is by insertion timestamp.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) LogActivity(ctx context.Context, username, activityType, details string) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO user_activity (username, activity_type, details) VALUES ($1, $2, $3)",
		username, activityType, details,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (s *Service) LogFileProcessing(ctx context.Context, username, filename string, size int64, status string) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO file_processing (username, filename, size, status) VALUES ($1, $2, $3, $4)",
		username, filename, size, status,
	)
	if err != nil {
		return fmt.Errorf("insert file processing log: %w", err)
	}
	return nil
}

func (s *Service) RecentActivity(ctx context.Context, username string, limit int) ([]models.ActivityRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, username, activity_type, COALESCE(details, ''), timestamp
		 FROM user_activity WHERE username = $1
		 ORDER BY timestamp DESC LIMIT $2`,
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query activity log: %w", err)
	}
	defer rows.Close()

	var records []models.ActivityRecord
	for rows.Next() {
		var r models.ActivityRecord
		if err := rows.Scan(&r.ID, &r.Username, &r.ActivityType, &r.Details, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
