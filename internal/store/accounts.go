package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mlakar/zaloga/internal/apperror"
	"github.com/mlakar/zaloga/internal/model"
)

// CreateAccount creates a new account. A unique-constraint violation on
// email or username is reported as a Conflict error.
func CreateAccount(ctx context.Context, db *sql.DB, username, email, passwordHash string) (*model.Account, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO accounts (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, apperror.Wrap(apperror.Conflict, "account already exists", err)
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting account id: %w", err)
	}

	return GetAccount(ctx, db, id)
}

// GetAccount returns an account by ID.
func GetAccount(ctx context.Context, db *sql.DB, id int64) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperror.New(apperror.NotFound, "account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByEmail returns an account by email.
func GetAccountByEmail(ctx context.Context, db *sql.DB, email string) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM accounts WHERE email = ?`, email,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperror.New(apperror.NotFound, "account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by email: %w", err)
	}
	return a, nil
}
