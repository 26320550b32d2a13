package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shreya728/pdfbot/internal/auth"
	"github.com/Shreya728/pdfbot/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Register creates a new user. It returns false when the username is
// already taken; the existing credential is left untouched.
func (s *Service) Register(ctx context.Context, username, password string, displayName *string) (bool, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	_, err = s.db.Exec(ctx,
		"INSERT INTO users (username, password, display_name) VALUES ($1, $2, $3)",
		username, hashed, displayName,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, nil
		}
		return false, fmt.Errorf("insert user: %w", err)
	}
	return true, nil
}

// Authenticate verifies the credentials. An unknown username and a wrong
// password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	var stored string
	err := s.db.QueryRow(ctx,
		"SELECT password FROM users WHERE username = $1", username,
	).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup user: %w", err)
	}
	return auth.CheckPassword(password, stored), nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		"SELECT id, username, password, display_name FROM users WHERE username = $1", username,
	).Scan(&u.ID, &u.Username, &u.Password, &u.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return &u, nil
}
