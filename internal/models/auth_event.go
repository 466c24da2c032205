package models

import "time"

// Session event kinds recorded in auth_events
const (
	EventSignedIn       = "signed_in"
	EventSignedOut      = "signed_out"
	EventProfileCreated = "profile_created"
)

// AuthEvent is one row of the 'auth_events' audit table.
type AuthEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Role      string    `gorm:"size:16;index" json:"role"`
	UID       string    `gorm:"column:uid;size:128;index" json:"uid"`
	Email     string    `gorm:"size:255" json:"email"`
	Kind      string    `gorm:"size:32" json:"kind"`
	Reason    string    `gorm:"size:64" json:"reason,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
