package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planpal/planpal-services/models"
)

const userColumns = `id, name, email, password_hash, location, mood, favorite_category, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Location,
		&u.Preferences.Mood,
		&u.Preferences.FavoriteCategory,
		&u.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// CreateUser inserts a new user. Emails are unique regardless of case.
func (p *PlanDB) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	user.ID = uuid.New().String()
	user.Email = strings.TrimSpace(user.Email)
	user.CreatedAt = time.Now().UTC()

	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, location, mood, favorite_category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Location,
		user.Preferences.Mood, user.Preferences.FavoriteCategory, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting user: %w", mapErr(err))
	}

	return &user, nil
}

// GetUser retrieves a user by id.
func (p *PlanDB) GetUser(ctx context.Context, userID string) (*models.User, error) {
	row := p.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (p *PlanDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := p.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email))
	return scanUser(row)
}

// UpdateUser replaces the editable profile fields. Availability is replaced
// in the same transaction when it is not nil.
func (p *PlanDB) UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE users
		SET name = $1, email = $2, location = $3, mood = $4, favorite_category = $5
		WHERE id = $6
		RETURNING `+userColumns,
		upd.Name, strings.TrimSpace(upd.Email), upd.Location, upd.Preferences.Mood, upd.Preferences.FavoriteCategory, userID)

	user, err := scanUser(row)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	if upd.Availability != nil {
		if err := p.replaceAvailability(ctx, tx, userID, upd.Availability); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := p.CommitTransaction(tx); err != nil {
		return nil, err
	}

	p.Log.Info().Str("user_id", userID).Msg("User updated successfully")
	return user, nil
}

// UpdatePassword stores a new password hash.
func (p *PlanDB) UpdatePassword(ctx context.Context, userID, hash string) error {
	res, err := p.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userID)
	if err != nil {
		return fmt.Errorf("error updating password: %w", mapErr(err))
	}
	return requireAffected(res)
}
