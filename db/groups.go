package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/planpal/planpal-services/models"
)

const groupColumns = `id, name, slug, description, owner, created_at`

func scanGroup(row rowScanner) (*models.Group, error) {
	var g models.Group
	if err := row.Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.Owner, &g.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

// groupSlug derives a readable, unique slug from the group name.
func groupSlug(name, id string) string {
	s := slug.Make(name)
	if s == "" {
		return id[:8]
	}
	return s + "-" + id[:8]
}

// CreateGroup inserts a group and its members in one transaction.
func (p *PlanDB) CreateGroup(ctx context.Context, group models.Group) (*models.Group, error) {

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	group.ID = uuid.New().String()
	group.Slug = groupSlug(group.Name, group.ID)
	group.CreatedAt = time.Now().UTC()

	err = p.execQuery(ctx, tx, `
		INSERT INTO groups (id, name, slug, description, owner, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		group.ID, group.Name, group.Slug, group.Description, group.Owner, group.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error inserting group: %w", err)
	}

	for _, m := range group.Members {
		err = p.execQuery(ctx, tx, `
			INSERT INTO group_members (group_id, user_id, role) VALUES ($1, $2, $3)`,
			group.ID, m.User, m.Role)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("error inserting group member: %w", err)
		}
	}

	if err := p.CommitTransaction(tx); err != nil {
		return nil, err
	}

	if group.Members == nil {
		group.Members = []models.Member{}
	}

	p.Log.Info().Str("group_id", group.ID).Msg("Group created successfully")
	return &group, nil
}

// GetGroup retrieves a group with its members.
func (p *PlanDB) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	row := p.DB.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, groupID)
	group, err := scanGroup(row)
	if err != nil {
		return nil, err
	}

	group.Members, err = p.getGroupMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// GetUserGroups retrieves every group the user owns or belongs to, oldest first.
func (p *PlanDB) GetUserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT `+groupColumns+` FROM groups
		WHERE owner = $1 OR id IN (SELECT group_id FROM group_members WHERE user_id = $1)
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving groups: %w", mapErr(err))
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning groups: %w", err)
		}
		groups = append(groups, *group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Retrieve associated members for each group
	for i := range groups {
		groups[i].Members, err = p.getGroupMembers(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup changes the name and description of a group.
func (p *PlanDB) UpdateGroup(ctx context.Context, groupID, name, description string) (*models.Group, error) {
	res, err := p.DB.ExecContext(ctx, `UPDATE groups SET name = $1, description = $2 WHERE id = $3`,
		name, description, groupID)
	if err != nil {
		return nil, fmt.Errorf("error updating group: %w", mapErr(err))
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return p.GetGroup(ctx, groupID)
}

// DeleteGroup deletes a group; members and events cascade.
func (p *PlanDB) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := p.DB.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("error executing delete query: %w", mapErr(err))
	}
	return requireAffected(res)
}

func (p *PlanDB) getGroupMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := p.DB.QueryContext(ctx, `SELECT user_id, role FROM group_members WHERE group_id = $1 ORDER BY user_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving group members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.User, &m.Role); err != nil {
			return nil, fmt.Errorf("error scanning group members: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
