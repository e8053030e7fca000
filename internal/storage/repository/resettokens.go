package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/retail-auth/internal/models"
)

// CreateResetToken сохраняет токен восстановления пароля.
func (s *Storage) CreateResetToken(ctx context.Context, token models.ResetToken) error {
	const op = "repository.CreateResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reset_tokens (email, token, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query,
		token.Email, token.Token, token.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetResetToken возвращает токен по паре (email, token) или ErrNotFound.
func (s *Storage) GetResetToken(ctx context.Context, email, token string) (*models.ResetToken, error) {
	const op = "repository.GetResetToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, token, expires_at FROM reset_tokens
			  WHERE email = $1 AND token = $2`
	rt := &models.ResetToken{}
	err := s.DB.QueryRowContext(ctx, query, email, token).
		Scan(&rt.Email, &rt.Token, &rt.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rt, nil
}

// DeleteResetToken удаляет конкретный токен восстановления.
func (s *Storage) DeleteResetToken(ctx context.Context, email, token string) error {
	const op = "repository.DeleteResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM reset_tokens WHERE email = $1 AND token = $2`
	if _, err := s.DB.ExecContext(ctx, query, email, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteResetTokensByEmail удаляет все токены восстановления для данной почты.
// Вызывается при успешном сбросе пароля, чтобы погасить прочие выпущенные токены.
func (s *Storage) DeleteResetTokensByEmail(ctx context.Context, email string) error {
	const op = "repository.DeleteResetTokensByEmail"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM reset_tokens WHERE email = $1`
	if _, err := s.DB.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
