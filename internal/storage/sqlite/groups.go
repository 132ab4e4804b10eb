package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/oremus/internal/models"
)

const groupColumns = "id, name, description, created_by, created_at, member_count, image_url"

// CreateGroup inserts a new group with a generated ID and MemberCount 1.
func (s *SQLiteStore) CreateGroup(ctx context.Context, in models.NewGroup) (*models.PrayerGroup, error) {
	group := &models.PrayerGroup{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   time.Now().UTC(),
		MemberCount: 1,
		ImageURL:    in.ImageURL,
	}

	var imageURL any
	if group.ImageURL != "" {
		imageURL = group.ImageURL
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO groups ("+groupColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Description, group.CreatedBy,
		toUnixNano(group.CreatedAt), group.MemberCount, imageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert group: %w", err)
	}

	return group, nil
}

// GetGroup retrieves a group by ID. Returns nil, nil if it does not exist.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.PrayerGroup, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE id = ?",
		id,
	)

	group, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroups retrieves all groups in insertion order.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.PrayerGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+groupColumns+" FROM groups ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*models.PrayerGroup, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGroup(row scanner) (*models.PrayerGroup, error) {
	group := &models.PrayerGroup{}
	var createdAt int64
	var imageURL sql.NullString

	if err := row.Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy,
		&createdAt, &group.MemberCount, &imageURL); err != nil {
		return nil, err
	}

	group.CreatedAt = fromUnixNano(createdAt)
	if imageURL.Valid {
		group.ImageURL = imageURL.String
	}
	return group, nil
}
