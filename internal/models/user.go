// Package models содержит доменные модели сервиса аутентификации:
// учётную запись пользователя, токен восстановления пароля и
// сообщение для очереди отправки писем.
package models

import (
	"strings"
	"time"
)

// User представляет учётную запись пользователя одной из подсистем.
type User struct {
	ID           int64      // Числовой идентификатор, назначается базой при создании
	Username     string     // Имя пользователя, уникальное среди активных записей
	Email        string     // Электронная почта
	PasswordHash string     // bcrypt-хэш пароля
	Role         string     // Роль пользователя
	System       string     // Подсистема, к которой относится запись (IMS, POS, OOS, AUTH)
	IsDisabled   bool       // Признак отключённой записи, меняется только false -> true
	FirstName    string     // Имя
	MiddleName   string     // Отчество / второе имя
	LastName     string     // Фамилия
	Suffix       string     // Суффикс имени (Jr., Sr. и т.п.)
	PhoneNumber  string     // Номер телефона
	CreatedAt    *time.Time // Дата создания записи
}

// FullName собирает полное имя из непустых частей имени,
// разделяя их одним пробелом, в порядке имя/отчество/фамилия/суффикс.
func (u *User) FullName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName, u.Suffix} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ResetToken представляет одноразовый токен восстановления пароля.
type ResetToken struct {
	Email     string    // Почта, для которой выпущен токен
	Token     string    // Случайное значение токена
	ExpiresAt time.Time // Момент истечения срока действия
}

// ResetEmail сообщение для очереди отправки писем восстановления пароля.
type ResetEmail struct {
	Email     string `json:"email"`
	ResetLink string `json:"reset_link"`
}
