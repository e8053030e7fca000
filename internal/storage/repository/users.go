package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/retail-auth/internal/models"
)

const userColumns = `user_id, username, email, password_hash, role, system,
			      is_disabled, first_name, middle_name, last_name, suffix,
			      phone_number, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var firstName, middleName, lastName, suffix, phoneNumber sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.System, &u.IsDisabled, &firstName, &middleName, &lastName, &suffix,
		&phoneNumber, &createdAt); err != nil {
		return nil, err
	}
	u.FirstName = firstName.String
	u.MiddleName = middleName.String
	u.LastName = lastName.String
	u.Suffix = suffix.String
	u.PhoneNumber = phoneNumber.String
	if createdAt.Valid {
		u.CreatedAt = &createdAt.Time
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя в базу данных и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "repository.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO users (username, email, password_hash, role, system,
			      is_disabled, first_name, middle_name, last_name, suffix,
			      phone_number, created_at)
			  VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7, $8, $9, $10, NOW())
			  RETURNING user_id`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.System,
		user.FirstName, user.MiddleName, user.LastName, user.Suffix,
		user.PhoneNumber).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListActiveUsersByUsername возвращает все активные записи с данным username.
// Дубликаты имени между подсистемами допустимы, поэтому результат — срез.
func (s *Storage) ListActiveUsersByUsername(ctx context.Context, username string) ([]*models.User, error) {
	const op = "repository.ListActiveUsersByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1 AND is_disabled = FALSE`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetUserByID возвращает пользователя по числовому ID или ErrNotFound.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "repository.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE user_id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает все записи пользователей, включая отключённые.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "repository.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY user_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ExistsActiveEmail проверяет наличие активной записи с данной почтой.
// Если exceptID > 0, запись с этим ID исключается из проверки.
func (s *Storage) ExistsActiveEmail(ctx context.Context, email string, exceptID int64) (bool, error) {
	const op = "repository.ExistsActiveEmail"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM users
			      WHERE email = $1 AND is_disabled = FALSE AND user_id != $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email, exceptID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsActiveUsername проверяет наличие активной записи с данным именем пользователя.
func (s *Storage) ExistsActiveUsername(ctx context.Context, username string) (bool, error) {
	const op = "repository.ExistsActiveUsername"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM users
			      WHERE username = $1 AND is_disabled = FALSE
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsActiveUsernameInSystem проверяет занятость имени в рамках одной подсистемы.
func (s *Storage) ExistsActiveUsernameInSystem(ctx context.Context, username, system string) (bool, error) {
	const op = "repository.ExistsActiveUsernameInSystem"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM users
			      WHERE username = $1 AND system = $2 AND is_disabled = FALSE
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, username, system).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsActiveEmailInSystem проверяет занятость почты в рамках одной подсистемы.
func (s *Storage) ExistsActiveEmailInSystem(ctx context.Context, email, system string) (bool, error) {
	const op = "repository.ExistsActiveEmailInSystem"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM users
			      WHERE email = $1 AND system = $2 AND is_disabled = FALSE
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email, system).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateUser применяет частичное обновление к записи пользователя.
// Запрос строится только из присутствующих полей патча; значения передаются
// исключительно плейсхолдерами. Пустой патч — успешная no-op операция.
func (s *Storage) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (int, error) {
	const op = "repository.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sets := make([]string, 0, 8)
	values := make([]any, 0, 9)
	add := func(column string, value any) {
		values = append(values, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(values)))
	}

	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PhoneNumber != nil {
		add("phone_number", *patch.PhoneNumber)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.MiddleName != nil {
		add("middle_name", *patch.MiddleName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Suffix != nil {
		add("suffix", *patch.Suffix)
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}

	if len(sets) == 0 {
		return 0, nil
	}

	values = append(values, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d",
		strings.Join(sets, ", "), len(values))
	result, err := s.DB.ExecContext(ctx, query, values...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DisableUser отключает активную запись пользователя. Возвращает количество
// затронутых строк: 0 означает, что записи нет либо она уже отключена.
func (s *Storage) DisableUser(ctx context.Context, id int64) (int, error) {
	const op = "repository.DisableUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_disabled = TRUE
			  WHERE user_id = $1 AND is_disabled = FALSE`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindActiveOOSUserByEmail возвращает активного пользователя OOS с ролью "user"
// по его почте или ErrNotFound.
func (s *Storage) FindActiveOOSUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repository.FindActiveOOSUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1 AND role = 'user' AND system = 'OOS'
			      AND is_disabled = FALSE`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdatePasswordForOOSUser обновляет хэш пароля активного пользователя OOS
// с ролью "user" по его почте.
func (s *Storage) UpdatePasswordForOOSUser(ctx context.Context, email, passwordHash string) error {
	const op = "repository.UpdatePasswordForOOSUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET password_hash = $1
			  WHERE email = $2 AND role = 'user' AND system = 'OOS'
			      AND is_disabled = FALSE`
	if _, err := s.DB.ExecContext(ctx, query, passwordHash, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
