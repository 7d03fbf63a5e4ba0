// Package account implements registration and credential verification.
package account

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mlakar/zaloga/internal/apperror"
	"github.com/mlakar/zaloga/internal/model"
	"github.com/mlakar/zaloga/internal/store"
)

// bcryptCost is the hashing cost for new passwords.
const bcryptCost = 10

// Register creates a new account with a hashed password. No session is
// issued; the caller must log in separately.
func Register(ctx context.Context, db *sql.DB, username, email, password string) (*model.Account, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperror.New(apperror.Validation, "all fields are required")
	}

	// Pre-check for a friendlier error; the unique index still backstops races.
	if _, err := store.GetAccountByEmail(ctx, db, email); err == nil {
		return nil, apperror.New(apperror.Conflict, "user already exists")
	} else if !apperror.Is(err, apperror.NotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	return store.CreateAccount(ctx, db, username, email, string(hash))
}

// Authenticate verifies an email/password pair. Unknown emails and
// wrong passwords yield the same InvalidCredentials error.
func Authenticate(ctx context.Context, db *sql.DB, email, password string) (*model.Account, error) {
	if email == "" || password == "" {
		return nil, apperror.New(apperror.Validation, "email and password are required")
	}

	acc, err := store.GetAccountByEmail(ctx, db, email)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return nil, apperror.New(apperror.InvalidCredentials, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.New(apperror.InvalidCredentials, "invalid credentials")
	}

	return acc, nil
}
