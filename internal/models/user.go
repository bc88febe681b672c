package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // Необхідний для pq.StringArray
	"gorm.io/gorm"
)

// Ролі користувачів платформи.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User представляє зареєстрованого учасника платформи.
// Містить облікові дані та роль для авторизації.
type User struct {
	ID           string         `gorm:"primaryKey" json:"id"` // UUID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"not null" json:"name"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"not null;default:member" json:"role"`
	Interests    pq.StringArray `gorm:"type:text[]" json:"interests"` // Теги для підбору навчальних груп
}

// BeforeCreate — це хук GORM, який викликається перед створенням запису.
// Він генерує новий UUID для користувача, якщо ID ще не встановлено.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
