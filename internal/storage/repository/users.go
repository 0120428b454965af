package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/course-hub/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его с присвоенным UID.
// Повтор email возвращает ErrAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO users (email, name, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING uid, created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash).Scan(&user.UUID, &user.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT uid, email, name, password_hash, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	if err := s.DB.QueryRowContext(ctx, query, email).
		Scan(&u.UUID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return u, nil
}

// GetUserByID возвращает пользователя по его UID.
func (s *Storage) GetUserByID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT uid, email, name, password_hash, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	if err := s.DB.QueryRowContext(ctx, query, userUID).
		Scan(&u.UUID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return u, nil
}
