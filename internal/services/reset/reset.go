// Package services содержит логику бизнес-уровня восстановления пароля:
// выпуск одноразового токена с отправкой письма и сброс пароля по токену.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/retail-auth/internal/lib/password"
	"github.com/magabrotheeeer/retail-auth/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/retail-auth/internal/lib/sl"
	"github.com/magabrotheeeer/retail-auth/internal/models"
	"github.com/magabrotheeeer/retail-auth/internal/storage/repository"
)

// Ошибки сброса пароля, видимые вызывающему.
var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenExpired = errors.New("token expired")
)

// ResetMessage — единый ответ на запрос восстановления: он не зависит от того,
// существует ли учётная запись, чтобы нельзя было перебирать адреса.
const ResetMessage = "If this email is registered, a reset link has been sent."

// ResetRepository описывает контракт хранилища для восстановления пароля.
type ResetRepository interface {
	FindActiveOOSUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateResetToken(ctx context.Context, token models.ResetToken) error
	GetResetToken(ctx context.Context, email, token string) (*models.ResetToken, error)
	DeleteResetToken(ctx context.Context, email, token string) error
	DeleteResetTokensByEmail(ctx context.Context, email string) error
	UpdatePasswordForOOSUser(ctx context.Context, email, passwordHash string) error
}

// ResetService реализует двухшаговый протокол восстановления пароля.
type ResetService struct {
	repo          ResetRepository
	publisher     rabbitmq.Publisher
	log           *slog.Logger
	tokenTTL      time.Duration
	resetLinkBase string
}

// NewResetService создает новый экземпляр ResetService.
func NewResetService(repo ResetRepository, publisher rabbitmq.Publisher, log *slog.Logger,
	tokenTTL time.Duration, resetLinkBase string) *ResetService {
	return &ResetService{
		repo:          repo,
		publisher:     publisher,
		log:           log,
		tokenTTL:      tokenTTL,
		resetLinkBase: resetLinkBase,
	}
}

// RequestReset выпускает токен восстановления для активного пользователя OOS
// с ролью "user" и ставит письмо со ссылкой в очередь отправки.
//
// Ответ одинаков для существующей и несуществующей почты. Публикация письма
// не блокирует запрос: ошибка публикации логируется и не видна вызывающему.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	const op = "reset.RequestReset"

	_, err := s.repo.FindActiveOOSUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	token := models.ResetToken{
		Email:     email,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().UTC().Add(s.tokenTTL),
	}
	if err := s.repo.CreateResetToken(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resetLink := fmt.Sprintf("%s?token=%s&email=%s", s.resetLinkBase, token.Token, email)
	go func() {
		message := models.ResetEmail{Email: email, ResetLink: resetLink}
		if err := s.publisher.Publish(rabbitmq.PasswordResetRoutingKey, message); err != nil {
			s.log.Error("failed to publish reset email", sl.Err(err))
		}
	}()

	return nil
}

// ResetPassword проверяет пару (email, token) и устанавливает новый пароль.
//
// Отсутствующий токен — ErrInvalidToken. Просроченный токен удаляется и
// возвращается ErrTokenExpired. При успехе удаляются все токены для этой
// почты, так что прочие выпущенные токены тоже гаснут.
func (s *ResetService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	const op = "reset.ResetPassword"

	rt, err := s.repo.GetResetToken(ctx, email, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if time.Now().UTC().After(rt.ExpiresAt) {
		if err := s.repo.DeleteResetToken(ctx, email, token); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return ErrTokenExpired
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdatePasswordForOOSUser(ctx, email, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteResetTokensByEmail(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
