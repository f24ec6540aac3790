package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                         // Primary key
	Username     string    `gorm:"uniqueIndex;size:80;not null" json:"username"` // Unique username
	Email        string    `gorm:"uniqueIndex;size:120;not null" json:"email"`   // Unique email
	FirstName    string    `gorm:"size:80" json:"first_name"`                    // First name
	LastName     string    `gorm:"size:80" json:"last_name"`                     // Last name
	PasswordHash string    `gorm:"not null" json:"-"`                            // Bcrypt hash
	CreatedAt    time.Time `json:"created_at"`                                   // Signup time
}

// AuthClaim is the identity carried by a verified token. It is never persisted.
type AuthClaim struct {
	UserID    uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	ExpiresAt time.Time `json:"exp"`
}

// ClaimFor builds the claim describing u. ExpiresAt is filled in by the token service.
func ClaimFor(u *User) AuthClaim {
	return AuthClaim{UserID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}
