package auth

import (
	"errors"
	"time"
)

var ErrStaffNotFound = errors.New("staff member not found")

// Staff is a back-office account. Role is "gerant" or "serveur".
type Staff struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
