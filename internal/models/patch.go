package models

// UserPatch описывает частичное обновление записи пользователя.
// Каждое поле применяется только если оно задано (не nil).
type UserPatch struct {
	FirstName    *string
	MiddleName   *string
	LastName     *string
	Suffix       *string
	Username     *string
	PasswordHash *string
	Email        *string
	PhoneNumber  *string
}

// IsEmpty сообщает, что патч не содержит ни одного поля.
func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil && p.MiddleName == nil && p.LastName == nil &&
		p.Suffix == nil && p.Username == nil && p.PasswordHash == nil &&
		p.Email == nil && p.PhoneNumber == nil
}
