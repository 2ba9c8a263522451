package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/myrjola/specter/internal/errors"
)

// User is an investigator account. The ID is an opaque random byte sequence
// with a maximum size of 64 bytes and is not meant to be displayed to the
// user. All authentication and authorization decisions are made on the basis
// of this handle.
type User struct {
	ID          []byte `db:"id"`
	DisplayName string `db:"display_name"`
	// Email is optional and only used for milestone notifications.
	Email string `db:"email"`
}

// NewUser creates an anonymous user with a random 64-byte handle.
func NewUser() (*User, error) {
	id := make([]byte, 64)
	if _, err := rand.Read(id); err != nil {
		return nil, errors.Wrap(err, "generate user ID")
	}
	user := User{
		ID:          id,
		DisplayName: fmt.Sprintf("Anonymous investigator created at %s", time.Now().Format(time.RFC3339)),
	}

	return &user, nil
}
