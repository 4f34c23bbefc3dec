package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevokeToken records a signed-out token id until the token would expire.
func (p *PlanDB) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING`, jti, expiresAt)
	if err != nil {
		return fmt.Errorf("error revoking token: %w", mapErr(err))
	}
	return nil
}

// IsTokenRevoked reports whether the token id was signed out.
func (p *PlanDB) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := p.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking revoked token: %w", err)
	}
	return exists, nil
}

// PurgeRevokedTokens deletes revocations for tokens that expired before t.
func (p *PlanDB) PurgeRevokedTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := p.DB.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("error purging revoked tokens: %w", err)
	}
	return res.RowsAffected()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
