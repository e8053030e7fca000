// Package services содержит логику бизнес-уровня для администрирования
// пользователей: создание, список, частичное обновление, отключение и
// публичную регистрацию в подсистеме OOS.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/retail-auth/internal/lib/password"
	"github.com/magabrotheeeer/retail-auth/internal/models"
	"github.com/magabrotheeeer/retail-auth/internal/storage/repository"
)

// Ошибки бизнес-правил администрирования пользователей.
var (
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidSystem = errors.New("invalid system")
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrEmailTaken    = errors.New("email is already used")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrUserNotFound  = errors.New("user not found")
)

var validRoles = map[string]struct{}{
	"admin":       {},
	"manager":     {},
	"staff":       {},
	"cashier":     {},
	"rider":       {},
	"super admin": {},
}

var validSystems = map[string]struct{}{
	"IMS":  {},
	"POS":  {},
	"OOS":  {},
	"AUTH": {},
}

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListActiveUsersByUsername(ctx context.Context, username string) ([]*models.User, error)
	ExistsActiveEmail(ctx context.Context, email string, exceptID int64) (bool, error)
	ExistsActiveUsername(ctx context.Context, username string) (bool, error)
	ExistsActiveUsernameInSystem(ctx context.Context, username, system string) (bool, error)
	ExistsActiveEmailInSystem(ctx context.Context, email, system string) (bool, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (int, error)
	DisableUser(ctx context.Context, id int64) (int, error)
}

// CreateUserParams входные данные создания пользователя.
type CreateUserParams struct {
	FirstName   string
	MiddleName  string
	LastName    string
	Suffix      string
	Username    string
	Password    string
	Email       string
	PhoneNumber string
	Role        string
	System      string
}

// UpdateUserParams частичное обновление: поле применяется только если не nil.
type UpdateUserParams struct {
	FirstName   *string
	MiddleName  *string
	LastName    *string
	Suffix      *string
	Username    *string
	Password    *string
	Email       *string
	PhoneNumber *string
}

// UserSummary строка списка пользователей для административного интерфейса.
type UserSummary struct {
	UserID      int64  `json:"userID"`
	FullName    string `json:"fullName"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	UserRole    string `json:"userRole"`
	CreatedAt   string `json:"createdAt"`
	System      string `json:"system"`
	PhoneNumber string `json:"phoneNumber"`
	IsDisabled  bool   `json:"isDisabled"`
}

// UserService реализует сценарии администрирования пользователей.
type UserService struct {
	users UserRepository
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserRepository, log *slog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// Create создает пользователя с валидацией роли, подсистемы и уникальности
// почты и имени среди активных записей. Возвращает роль созданной записи.
func (s *UserService) Create(ctx context.Context, params CreateUserParams) (string, error) {
	const op = "user.Create"

	if _, ok := validRoles[params.Role]; !ok {
		return "", ErrInvalidRole
	}
	if _, ok := validSystems[params.System]; !ok {
		return "", ErrInvalidSystem
	}
	if strings.TrimSpace(params.Password) == "" {
		return "", ErrEmptyPassword
	}
	if strings.TrimSpace(params.Username) == "" {
		return "", ErrEmptyUsername
	}

	emailTaken, err := s.users.ExistsActiveEmail(ctx, params.Email, 0)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if emailTaken {
		return "", ErrEmailTaken
	}
	usernameTaken, err := s.users.ExistsActiveUsername(ctx, params.Username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if usernameTaken {
		return "", ErrUsernameTaken
	}

	hashed, err := password.GetHash(params.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hashed,
		Role:         params.Role,
		System:       params.System,
		FirstName:    params.FirstName,
		MiddleName:   params.MiddleName,
		LastName:     params.LastName,
		Suffix:       params.Suffix,
		PhoneNumber:  params.PhoneNumber,
	}
	if _, err := s.users.CreateUser(ctx, user); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return params.Role, nil
}

// List возвращает все записи пользователей, включая отключённые,
// с собранным полным именем.
func (s *UserService) List(ctx context.Context) ([]UserSummary, error) {
	const op = "user.List"
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]UserSummary, 0, len(users))
	for _, u := range users {
		createdAt := ""
		if u.CreatedAt != nil {
			createdAt = u.CreatedAt.Format(time.RFC3339)
		}
		result = append(result, UserSummary{
			UserID:      u.ID,
			FullName:    u.FullName(),
			Username:    u.Username,
			Email:       u.Email,
			UserRole:    u.Role,
			CreatedAt:   createdAt,
			System:      u.System,
			PhoneNumber: u.PhoneNumber,
			IsDisabled:  u.IsDisabled,
		})
	}
	return result, nil
}

// Update применяет частичное обновление к записи пользователя.
// Почта проверяется на уникальность среди активных записей, исключая
// саму обновляемую запись. Пустой набор полей — успешная no-op операция.
func (s *UserService) Update(ctx context.Context, id int64, params UpdateUserParams) error {
	const op = "user.Update"

	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	patch := models.UserPatch{
		FirstName:   params.FirstName,
		MiddleName:  params.MiddleName,
		LastName:    params.LastName,
		Suffix:      params.Suffix,
		Username:    params.Username,
		PhoneNumber: params.PhoneNumber,
	}

	if params.Email != nil && *params.Email != "" {
		taken, err := s.users.ExistsActiveEmail(ctx, *params.Email, id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			return ErrEmailTaken
		}
		patch.Email = params.Email
	}

	if params.Password != nil && *params.Password != "" {
		hashed, err := password.GetHash(*params.Password)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		patch.PasswordHash = &hashed
	}

	if patch.IsEmpty() {
		return nil
	}

	if _, err := s.users.UpdateUser(ctx, id, patch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Disable отключает активную запись пользователя. Операция одностороння;
// отсутствующая или уже отключённая запись — ErrUserNotFound.
func (s *UserService) Disable(ctx context.Context, id int64) error {
	const op = "user.Disable"
	affected, err := s.users.DisableUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SignupOOS регистрирует пользователя подсистемы OOS с фиксированной ролью
// "user". Уникальность имени и почты проверяется в рамках подсистемы.
func (s *UserService) SignupOOS(ctx context.Context, params CreateUserParams) error {
	const op = "user.SignupOOS"
	const role, system = "user", "OOS"

	if strings.TrimSpace(params.Password) == "" {
		return ErrEmptyPassword
	}
	if strings.TrimSpace(params.Username) == "" {
		return ErrEmptyUsername
	}

	usernameTaken, err := s.users.ExistsActiveUsernameInSystem(ctx, params.Username, system)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if usernameTaken {
		return ErrUsernameTaken
	}
	emailTaken, err := s.users.ExistsActiveEmailInSystem(ctx, params.Email, system)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if emailTaken {
		return ErrEmailTaken
	}

	hashed, err := password.GetHash(params.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hashed,
		Role:         role,
		System:       system,
		FirstName:    params.FirstName,
		MiddleName:   params.MiddleName,
		LastName:     params.LastName,
		Suffix:       params.Suffix,
		PhoneNumber:  params.PhoneNumber,
	}
	if _, err := s.users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// EnsureSuperadmin создает стартовую учётную запись superadmin,
// если ни одной активной записи с таким именем ещё нет.
func (s *UserService) EnsureSuperadmin(ctx context.Context) error {
	const op = "user.EnsureSuperadmin"
	existing, err := s.users.ListActiveUsersByUsername(ctx, "superadmin")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(existing) > 0 {
		s.log.Info("superadmin already exists")
		return nil
	}

	hashed, err := password.GetHash("superadmin123")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     "superadmin",
		Email:        "superadmin@example.com",
		PasswordHash: hashed,
		Role:         "superadmin",
		System:       "AUTH",
		FirstName:    "Super",
		LastName:     "Admin",
	}
	if _, err := s.users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("superadmin created")
	return nil
}
