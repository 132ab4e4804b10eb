package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
)

const requestColumns = "id, group_id, title, description, created_by, created_at, type, reminder_time, end_date"

// CreatePrayerRequest inserts a new prayer request. GroupID is not checked.
func (s *SQLiteStore) CreatePrayerRequest(ctx context.Context, in models.NewPrayerRequest) (*models.PrayerRequest, error) {
	req := (&models.PrayerRequest{
		ID:           uuid.NewString(),
		GroupID:      in.GroupID,
		Title:        in.Title,
		Description:  in.Description,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    time.Now().UTC(),
		Type:         in.Type,
		ReminderTime: in.ReminderTime,
		EndDate:      in.EndDate,
		PrayedToday:  []string{},
	}).Clone()

	var reminder, endDate any
	if req.ReminderTime != nil {
		reminder = *req.ReminderTime
	}
	if req.EndDate != nil {
		endDate = toUnixNano(*req.EndDate)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO prayer_requests ("+requestColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		req.ID, req.GroupID, req.Title, req.Description, req.CreatedBy,
		toUnixNano(req.CreatedAt), string(req.Type), reminder, endDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert prayer request: %w", err)
	}

	return req, nil
}

// GetPrayerRequest retrieves a request by ID, including who prayed today.
// Returns nil, nil if it does not exist.
func (s *SQLiteStore) GetPrayerRequest(ctx context.Context, id string) (*models.PrayerRequest, error) {
	return getPrayerRequest(ctx, s.db, id)
}

// ListPrayerRequests retrieves the requests of a group in insertion order.
func (s *SQLiteStore) ListPrayerRequests(ctx context.Context, groupID string) ([]*models.PrayerRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM prayer_requests WHERE group_id = ? ORDER BY rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list prayer requests: %w", err)
	}

	requests := make([]*models.PrayerRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan prayer request: %w", err)
		}
		requests = append(requests, req)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prayer requests: %w", err)
	}

	// Rows must be closed before issuing more queries on the single connection.
	for _, req := range requests {
		if req.PrayedToday, err = loadPrayedToday(ctx, s.db, req.ID); err != nil {
			return nil, err
		}
	}

	return requests, nil
}

// TogglePrayedToday adds or removes userID from the request's PrayedToday set.
func (s *SQLiteStore) TogglePrayedToday(ctx context.Context, requestID, userID string) (*models.PrayerRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireRequest(ctx, tx, requestID); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM prayed_today WHERE request_id = ? AND user_id = ?",
		requestID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to remove prayed mark: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if removed == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO prayed_today (request_id, user_id) VALUES (?, ?)",
			requestID, userID,
		); err != nil {
			return nil, fmt.Errorf("failed to add prayed mark: %w", err)
		}
	}

	req, err := getPrayerRequest(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return req, nil
}

// UpdateReminder sets the reminder time of a request, or clears it when
// reminder is nil.
func (s *SQLiteStore) UpdateReminder(ctx context.Context, requestID string, reminder *string) (*models.PrayerRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireRequest(ctx, tx, requestID); err != nil {
		return nil, err
	}

	var value any
	if reminder != nil {
		value = *reminder
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE prayer_requests SET reminder_time = ? WHERE id = ?",
		value, requestID,
	); err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}

	req, err := getPrayerRequest(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return req, nil
}

func requireRequest(ctx context.Context, tx *sql.Tx, requestID string) error {
	var exists int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM prayer_requests WHERE id = ?", requestID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("prayer request %s: %w", requestID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check prayer request existence: %w", err)
	}
	return nil
}

func getPrayerRequest(ctx context.Context, q querier, id string) (*models.PrayerRequest, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM prayer_requests WHERE id = ?",
		id,
	)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil // Prayer request not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prayer request: %w", err)
	}

	if req.PrayedToday, err = loadPrayedToday(ctx, q, id); err != nil {
		return nil, err
	}
	return req, nil
}

func loadPrayedToday(ctx context.Context, q querier, requestID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT user_id FROM prayed_today WHERE request_id = ? ORDER BY rowid",
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get prayed marks: %w", err)
	}
	defer rows.Close()

	users := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan prayed mark: %w", err)
		}
		users = append(users, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prayed marks: %w", err)
	}
	return users, nil
}

func scanRequest(row scanner) (*models.PrayerRequest, error) {
	req := &models.PrayerRequest{}
	var createdAt int64
	var reqType string
	var reminder sql.NullString
	var endDate sql.NullInt64

	if err := row.Scan(&req.ID, &req.GroupID, &req.Title, &req.Description, &req.CreatedBy,
		&createdAt, &reqType, &reminder, &endDate); err != nil {
		return nil, err
	}

	req.CreatedAt = fromUnixNano(createdAt)
	req.Type = models.RequestType(reqType)
	if reminder.Valid {
		rt := reminder.String
		req.ReminderTime = &rt
	}
	if endDate.Valid {
		ed := fromUnixNano(endDate.Int64)
		req.EndDate = &ed
	}
	return req, nil
}
