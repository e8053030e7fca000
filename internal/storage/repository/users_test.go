package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/retail-auth/internal/models"
)

func TestStorage_CreateUser(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	id, err := storage.CreateUser(ctx, models.User{
		Username:     "juan",
		Email:        "juan@example.com",
		PasswordHash: "hashedpassword",
		Role:         "cashier",
		System:       "POS",
		FirstName:    "Juan",
		LastName:     "Dela Cruz",
		PhoneNumber:  "09170000000",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := storage.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "juan", got.Username)
	assert.Equal(t, "cashier", got.Role)
	assert.Equal(t, "POS", got.System)
	assert.False(t, got.IsDisabled)
	require.NotNil(t, got.CreatedAt)
}

func TestStorage_ListActiveUsersByUsername(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Одно имя в двух подсистемах плюс отключённая запись.
	insertTestUser(t, storage, "juan", "juan@pos.example.com", "cashier", "POS", false)
	insertTestUser(t, storage, "juan", "juan@oos.example.com", "user", "OOS", false)
	insertTestUser(t, storage, "juan", "juan@ims.example.com", "staff", "IMS", true)

	users, err := storage.ListActiveUsersByUsername(ctx, "juan")
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.False(t, u.IsDisabled)
	}

	users, err = storage.ListActiveUsersByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestStorage_GetUserByID_NotFound(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := storage.GetUserByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	insertTestUser(t, storage, "alice", "alice@example.com", "manager", "IMS", false)
	insertTestUser(t, storage, "bob", "bob@example.com", "cashier", "POS", true)

	users, err := storage.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Выдача упорядочена по user_id и включает отключённые записи.
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.True(t, users[1].IsDisabled)
}

func TestStorage_ExistsActiveEmail(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	aliceID := insertTestUser(t, storage, "alice", "alice@example.com", "manager", "IMS", false)
	insertTestUser(t, storage, "bob", "bob@example.com", "cashier", "POS", true)

	exists, err := storage.ExistsActiveEmail(ctx, "alice@example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// Отключённая запись не участвует в проверке уникальности.
	exists, err = storage.ExistsActiveEmail(ctx, "bob@example.com", 0)
	require.NoError(t, err)
	assert.False(t, exists)

	// Собственная запись исключается по ID.
	exists, err = storage.ExistsActiveEmail(ctx, "alice@example.com", aliceID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_ExistsActiveUsernameInSystem(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	insertTestUser(t, storage, "juan", "juan@pos.example.com", "cashier", "POS", false)

	exists, err := storage.ExistsActiveUsernameInSystem(ctx, "juan", "POS")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = storage.ExistsActiveUsernameInSystem(ctx, "juan", "OOS")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_UpdateUser(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id := insertTestUser(t, storage, "juan", "juan@example.com", "cashier", "POS", false)

	newEmail := "juan.new@example.com"
	newPhone := "09179999999"
	affected, err := storage.UpdateUser(ctx, id, models.UserPatch{
		Email:       &newEmail,
		PhoneNumber: &newPhone,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	got, err := storage.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "juan.new@example.com", got.Email)
	assert.Equal(t, "09179999999", got.PhoneNumber)
	// Непереданные поля не тронуты.
	assert.Equal(t, "juan", got.Username)

	// Пустой патч — no-op без обращения к базе.
	affected, err = storage.UpdateUser(ctx, id, models.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, 0, affected)
}

func TestStorage_DisableUser(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id := insertTestUser(t, storage, "juan", "juan@example.com", "cashier", "POS", false)

	affected, err := storage.DisableUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	// Повторное отключение не затрагивает строк.
	affected, err = storage.DisableUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)

	got, err := storage.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsDisabled)
}

func TestStorage_FindActiveOOSUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	insertTestUser(t, storage, "juan", "juan@example.com", "user", "OOS", false)
	insertTestUser(t, storage, "maria", "maria@example.com", "cashier", "POS", false)

	got, err := storage.FindActiveOOSUserByEmail(ctx, "juan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "juan", got.Username)

	// Запись вне OOS или с другой ролью не находится.
	_, err = storage.FindActiveOOSUserByEmail(ctx, "maria@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_UpdatePasswordForOOSUser(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id := insertTestUser(t, storage, "juan", "juan@example.com", "user", "OOS", false)

	require.NoError(t, storage.UpdatePasswordForOOSUser(ctx, "juan@example.com", "newhash"))

	got, err := storage.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)
}
