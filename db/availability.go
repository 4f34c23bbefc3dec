package db

import (
	"context"
	"database/sql"
	"fmt"
)

// GetAvailability returns the availability slots of a user in order.
func (p *PlanDB) GetAvailability(ctx context.Context, userID string) ([]string, error) {
	rows, err := p.DB.QueryContext(ctx, `SELECT slot FROM availability WHERE user_id = $1 ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving availability: %w", mapErr(err))
	}
	defer rows.Close()

	slots := []string{}
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("error scanning availability: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// SetAvailability replaces the availability slots of a user.
func (p *PlanDB) SetAvailability(ctx context.Context, userID string, slots []string) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	if err := p.replaceAvailability(ctx, tx, userID, slots); err != nil {
		tx.Rollback()
		return err
	}

	return p.CommitTransaction(tx)
}

func (p *PlanDB) replaceAvailability(ctx context.Context, tx *sql.Tx, userID string, slots []string) error {
	if err := p.execQuery(ctx, tx, `DELETE FROM availability WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error clearing availability: %w", err)
	}

	for i, slot := range slots {
		err := p.execQuery(ctx, tx, `INSERT INTO availability (user_id, position, slot) VALUES ($1, $2, $3)`,
			userID, i, slot)
		if err != nil {
			return fmt.Errorf("error inserting availability: %w", err)
		}
	}
	return nil
}
