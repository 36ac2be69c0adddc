package domain

import "ledger/internal/util"

// User identifies an account owner. Immutable after creation; the email is the
// recipient key for notifications.
type User struct {
	ID    string
	Name  string
	Email string
}

func NewUser(name, email string) *User {
	return &User{
		ID:    util.GenerateUUID(),
		Name:  name,
		Email: email,
	}
}
