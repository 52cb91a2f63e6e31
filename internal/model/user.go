package model

import "time"

// User is returned verbatim by signup, so PasswordHash is serialized as "password".
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:128;not null" json:"name"`
	Email          string     `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash   string     `gorm:"size:255;not null" json:"password"`
	Token          *string    `gorm:"type:text" json:"token"`
	TokenExpiresAt *time.Time `json:"token_expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasLiveToken reports whether the persisted token is still inside its validity window at now.
func (u *User) HasLiveToken(now time.Time) bool {
	return u.Token != nil && u.TokenExpiresAt != nil && u.TokenExpiresAt.After(now)
}
