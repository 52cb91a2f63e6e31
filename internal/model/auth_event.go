package model

import "time"

type AuthEventKind string

const (
	AuthEventSignup      AuthEventKind = "signup"
	AuthEventTokenIssued AuthEventKind = "token_issued"
	AuthEventTokenReused AuthEventKind = "token_reused"
)

type AuthEvent struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	UserID     uint          `gorm:"not null;index" json:"user_id"`
	Kind       AuthEventKind `gorm:"size:32;not null;index" json:"kind"`
	OccurredAt time.Time     `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time     `json:"created_at"`
}
