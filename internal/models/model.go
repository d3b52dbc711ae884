package models

import (
	"time"
)

// Registration statuses. The registration lifecycle is
// pending -> payment -> accepted, with declined/cancelled/rejected as
// terminal side states reachable through admin decisions.
const (
	StatusPending   = "pending"
	StatusPayment   = "payment"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
)

// IsValidStatus reports whether s is one of the known registration statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPayment, StatusAccepted, StatusDeclined, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TelegramID       int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	TelegramUsername string    `gorm:"index" json:"telegram_username"`
	FirstName        *string   `json:"first_name"`
	LastName         *string   `json:"last_name"`
	Phone            *string   `gorm:"type:varchar(50)" json:"phone"`
	ISU              *int      `json:"isu"`
	Address          *string   `gorm:"type:varchar(500)" json:"address"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Event struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	Description     *string   `gorm:"type:text" json:"description"`
	EventDate       time.Time `gorm:"not null" json:"event_date"`
	Location        *string   `json:"location"`
	MaxParticipants *int      `json:"max_participants"`
	Deadline        time.Time `gorm:"not null" json:"deadline"`
	IsActive        bool      `gorm:"default:false" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Registrations []Registration `gorm:"foreignKey:EventID" json:"registrations,omitempty"`
}

type Registration struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:uq_registrations_user_event" json:"user_id"`
	EventID      uint       `gorm:"not null;uniqueIndex:uq_registrations_user_event" json:"event_id"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CheckInToken string     `gorm:"uniqueIndex;not null" json:"check_in_token"`
	CheckedInAt  *time.Time `json:"checked_in_at"`
	ReceiptPath  string     `json:"-"`
	Comment      *string    `gorm:"type:text" json:"comment"`
	RegisteredAt time.Time  `gorm:"autoCreateTime" json:"registered_at"`

	// Relations. Pointers so responses without a Preload omit them instead
	// of embedding zero-valued objects.
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}
