package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/retail-auth/internal/models"
)

// Resolver описывает сервис, который проверяет токен доступа и возвращает
// актуальную запись его владельца.
type Resolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}
