// Package services содержит логику бизнес-уровня для аутентификации
// пользователей и проверки токенов доступа.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/retail-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/retail-auth/internal/lib/password"
	"github.com/magabrotheeeer/retail-auth/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// ErrInvalidToken возвращается, когда токен не прошёл проверку либо
// его владелец больше не существует или отключён.
var ErrInvalidToken = jwt.ErrInvalidToken

// UserRepository описывает контракт для чтения пользователей из базы данных.
type UserRepository interface {
	// ListActiveUsersByUsername возвращает все активные записи с данным именем.
	ListActiveUsersByUsername(ctx context.Context, username string) ([]*models.User, error)
}

// AuthService отвечает за проверку учётных данных, выпуск и проверку JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Authenticate проверяет пару логин/пароль и возвращает найденную запись.
//
// Имя пользователя может встречаться в нескольких подсистемах, поэтому
// выбираются все активные записи и пароль сверяется с каждой по порядку:
// побеждает первый совпавший хэш. Отключённые записи не участвуют в выборке.
func (s *AuthService) Authenticate(ctx context.Context, username, rawPassword string) (*models.User, error) {
	const op = "auth.Authenticate"
	users, err := s.users.ListActiveUsersByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if err := password.CompareHash(u.PasswordHash, rawPassword); err == nil {
			return u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Login проверяет учётные данные и выпускает токен доступа.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "auth.Login"
	user, err := s.Authenticate(ctx, username, rawPassword)
	if err != nil {
		return "", err
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.System)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ResolveToken проверяет токен и перечитывает его владельца из базы.
//
// Роль и признак отключения берутся из базы, а не из claims: они могли
// измениться после выпуска токена. Если владелец не найден среди активных
// записей, возвращается ErrInvalidToken.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ResolveToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	users, err := s.users.ListActiveUsersByUsername(ctx, claims.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(users) == 0 {
		return nil, ErrInvalidToken
	}
	return users[0], nil
}
