package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greenroom/internal/roles"
)

// AddUser inserts a staff member and returns the stored record.
func (s *Store) AddUser(ctx context.Context, displayName string, role roles.Role, active bool) (*User, error) {
	now := time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO users (display_name, role, active, created_at) VALUES (?, ?, ?, ?)`,
		displayName,
		string(role),
		boolToInt(active),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &User{ID: id, DisplayName: displayName, Role: role, Active: active, CreatedAt: now}, nil
}

// GetUser fetches a user by identifier.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, display_name, role, active, created_at FROM users WHERE id = ?`,
		id,
	)
	var (
		userID     int64
		name       string
		role       string
		active     int
		createdRaw sql.NullString
	)
	if err := row.Scan(&userID, &name, &role, &active, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user := &User{ID: userID, DisplayName: name, Role: roles.Role(role), Active: active != 0}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		user.CreatedAt = created
	}
	return user, nil
}

// AddTeamMember assigns a user to a program's production team under a role.
func (s *Store) AddTeamMember(ctx context.Context, programID string, userID int64, role roles.Role) error {
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO team_members (program_id, user_id, role) VALUES (?, ?, ?)
         ON CONFLICT (program_id, user_id, role) DO NOTHING`,
		programID,
		userID,
		string(role),
	)
	if err != nil {
		return fmt.Errorf("add team member: %w", err)
	}
	return nil
}

// FindTeamMember returns an active member of the episode's production team
// holding the role, or 0 when none exists. Implements roles.Directory.
func (s *Store) FindTeamMember(ctx context.Context, episodeID int64, role roles.Role) (int64, error) {
	row := s.q.QueryRowContext(
		ctx,
		`SELECT u.id FROM team_members tm
         JOIN users u ON u.id = tm.user_id
         JOIN episodes e ON e.program_id = tm.program_id
         WHERE e.id = ? AND tm.role = ? AND u.active = 1
         ORDER BY u.id LIMIT 1`,
		episodeID,
		string(role),
	)
	var userID int64
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("find team member: %w", err)
	}
	return userID, nil
}

// FindAnyUserWithRole returns any active user holding the role system-wide,
// or 0 when none exists. Implements roles.Directory.
func (s *Store) FindAnyUserWithRole(ctx context.Context, role roles.Role) (int64, error) {
	row := s.q.QueryRowContext(
		ctx,
		`SELECT id FROM users WHERE role = ? AND active = 1 ORDER BY id LIMIT 1`,
		string(role),
	)
	var userID int64
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("find user with role: %w", err)
	}
	return userID, nil
}
