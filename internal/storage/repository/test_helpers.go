package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB поднимает контейнер PostgreSQL и создает схему для тестов.
func setupTestDB(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed storage test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS reset_tokens CASCADE;
        DROP TABLE IF EXISTS users CASCADE;

        CREATE TABLE users (
            user_id BIGSERIAL PRIMARY KEY,
            username TEXT NOT NULL,
            email TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            system TEXT NOT NULL,
            is_disabled BOOLEAN NOT NULL DEFAULT FALSE,
            first_name TEXT,
            middle_name TEXT,
            last_name TEXT,
            suffix TEXT,
            phone_number TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE reset_tokens (
            email TEXT NOT NULL,
            token TEXT NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (email, token)
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}

// insertTestUser добавляет запись пользователя напрямую, минуя слой сервисов.
func insertTestUser(t *testing.T, s *Storage, username, email, role, system string, disabled bool) int64 {
	t.Helper()

	var id int64
	err := s.DB.QueryRow(`INSERT INTO users
			(username, email, password_hash, role, system, is_disabled, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6, 'Test', 'User')
		RETURNING user_id`,
		username, email, "hashedpassword", role, system, disabled).Scan(&id)
	require.NoError(t, err)
	return id
}
