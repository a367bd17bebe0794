// Package auth checks operator credentials. It identifies the person at
// the keyboard; it is not an account system.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const defaultPassword = "admin"

var ErrInvalidCredentials = errors.New("invalid operator credentials")

type Authenticator struct {
	User         string
	PasswordHash []byte
}

// New returns an Authenticator for user. With an empty hash the password
// is the historical default "admin".
func New(user, passwordHash string) (*Authenticator, error) {
	hash := []byte(passwordHash)
	if passwordHash == "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("operator password hash is not a bcrypt hash: %w", err)
	}
	return &Authenticator{User: user, PasswordHash: hash}, nil
}

func (a *Authenticator) Check(user, password string) error {
	if user != a.User {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns the bcrypt hash to store as the operator password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type operatorContextKey struct{}

func WithOperator(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, operatorContextKey{}, user)
}

// Operator returns the operator name stored by WithOperator.
func Operator(ctx context.Context) string {
	user, _ := ctx.Value(operatorContextKey{}).(string)
	return user
}
