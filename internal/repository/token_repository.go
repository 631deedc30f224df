package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/utils"
)

// TokenRepo persists opaque session tokens (single live token per
// user). Login reuses an existing token rather than rotating it, so
// logging in twice returns the same credential; logout deletes the row.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// GetOrCreate returns the user's live token, minting one only when
// none exists.
func (r *TokenRepo) GetOrCreate(ctx context.Context, userID uint64) (string, error) {
	var token string
	err := r.DB.QueryRowContext(ctx,
		"SELECT token FROM auth_tokens WHERE user_id=? LIMIT 1", userID).Scan(&token)
	if err == nil {
		return token, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	token, err = utils.NewSessionToken()
	if err != nil {
		return "", err
	}
	if _, err := r.DB.ExecContext(ctx,
		"INSERT INTO auth_tokens (token, user_id) VALUES (?,?)", token, userID); err != nil {
		// Concurrent login may have inserted first; fall back to the
		// stored token so both callers end up with the same value.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			var existing string
			if err2 := r.DB.QueryRowContext(ctx,
				"SELECT token FROM auth_tokens WHERE user_id=? LIMIT 1", userID).Scan(&existing); err2 == nil {
				return existing, nil
			}
		}
		return "", err
	}
	return token, nil
}

// UserByToken resolves a bearer token to its owning user. Returns
// sql.ErrNoRows for unknown tokens and for inactive accounts.
func (r *TokenRepo) UserByToken(ctx context.Context, token string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT u.id,u.username,u.email,u.password_hash,u.is_superuser,u.is_active,u.date_joined
		 FROM auth_tokens t JOIN users u ON u.id=t.user_id
		 WHERE t.token=? LIMIT 1`,
		token).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsSuperuser, &u.IsActive, &u.DateJoined)
	if err != nil {
		return model.User{}, err
	}
	if !u.IsActive {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

// DeleteForUser removes the user's token if present and reports
// whether a row was deleted. Absence is not an error: logout is
// idempotent.
func (r *TokenRepo) DeleteForUser(ctx context.Context, userID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM auth_tokens WHERE user_id=?", userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
