package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mediarating/backend/internal/models"
)

// activityLogRepository implements ActivityLogRepository
type activityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *sql.DB) *activityLogRepository {
	return &activityLogRepository{
		db: db,
	}
}

func nullableString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// Create inserts an activity log entry
func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (admin_username, user_email, action, entity_type, entity_id, details, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var details any
	if len(entry.Details) > 0 {
		details = string(entry.Details)
	}

	_, err := r.db.ExecContext(ctx, query,
		nullableString(entry.AdminUsername),
		nullableString(entry.UserEmail),
		entry.Action,
		nullableString(entry.EntityType),
		entry.EntityID,
		details,
		nullableString(entry.IPAddress),
		nullableString(entry.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}

	return nil
}

// activityLogConditions turns the optional filters into predicate/value pairs.
// Values are always bound as parameters.
func activityLogConditions(filter models.ActivityLogFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	add := func(predicate string, value any) {
		conditions = append(conditions, predicate)
		args = append(args, value)
	}

	if filter.Admin != "" {
		add("admin_username = ?", filter.Admin)
	}
	if filter.UserEmail != "" {
		add("user_email = ?", filter.UserEmail)
	}
	if filter.Action != "" {
		add("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		add("entity_type = ?", filter.EntityType)
	}
	if filter.FromDate != nil {
		add("timestamp >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		add("timestamp <= ?", *filter.ToDate)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List retrieves one page of activity log entries matching the filter, newest first,
// together with the total number of matching entries
func (r *activityLogRepository) List(ctx context.Context, filter models.ActivityLogFilter) ([]models.ActivityLog, int, error) {
	where, args := activityLogConditions(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	query := `
		SELECT id, admin_username, user_email, action, entity_type, entity_id, details, ip_address, user_agent, timestamp
		FROM activity_logs` + where + `
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.ActivityLog, 0)
	for rows.Next() {
		var (
			l                                   models.ActivityLog
			admin, email, entityType, ip, agent sql.NullString
			entityID                            sql.NullInt64
			details                             []byte
		)
		if err := rows.Scan(&l.ID, &admin, &email, &l.Action, &entityType, &entityID, &details, &ip, &agent, &l.Timestamp); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity log: %w", err)
		}
		l.AdminUsername = stringPtr(admin)
		l.UserEmail = stringPtr(email)
		l.EntityType = stringPtr(entityType)
		l.IPAddress = stringPtr(ip)
		l.UserAgent = stringPtr(agent)
		if entityID.Valid {
			id := int(entityID.Int64)
			l.EntityID = &id
		}
		if len(details) > 0 {
			l.Details = append([]byte(nil), details...)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activity logs: %w", err)
	}

	return logs, total, nil
}

// DeleteOlderThan deletes entries with a timestamp before cutoff and returns how many were removed
func (r *activityLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activity_logs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old activity logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
