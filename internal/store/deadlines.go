package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greenroom/internal/roles"
)

const deadlineColumns = "id, episode_id, role, deadline_date, is_completed, completed_at, completed_by, notes"

// InsertDeadlineIfAbsent creates a deadline row for its (episode, role) key
// unless one already exists. The returned bool reports whether a new row was
// created.
func (s *Store) InsertDeadlineIfAbsent(ctx context.Context, episodeID int64, role roles.Role, deadlineDate time.Time) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO deadlines (episode_id, role, deadline_date)
         VALUES (?, ?, ?)
         ON CONFLICT (episode_id, role) DO NOTHING`,
		episodeID,
		string(role),
		deadlineDate.Format(airDateFormat),
	)
	if err != nil {
		return false, fmt.Errorf("insert deadline: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeadlinesByEpisode returns an episode's deadlines ordered by due date.
func (s *Store) DeadlinesByEpisode(ctx context.Context, episodeID int64) ([]*Deadline, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT `+deadlineColumns+` FROM deadlines WHERE episode_id = ? ORDER BY deadline_date, role`,
		episodeID,
	)
	if err != nil {
		return nil, fmt.Errorf("deadlines by episode: %w", err)
	}
	defer rows.Close()

	var deadlines []*Deadline
	for rows.Next() {
		deadline, err := scanDeadline(rows)
		if err != nil {
			return nil, err
		}
		deadlines = append(deadlines, deadline)
	}
	return deadlines, rows.Err()
}

// GetDeadline fetches the deadline for an (episode, role) pair.
func (s *Store) GetDeadline(ctx context.Context, episodeID int64, role roles.Role) (*Deadline, error) {
	row := s.q.QueryRowContext(
		ctx,
		`SELECT `+deadlineColumns+` FROM deadlines WHERE episode_id = ? AND role = ?`,
		episodeID,
		string(role),
	)
	deadline, err := scanDeadline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deadline: %w", err)
	}
	return deadline, nil
}

// CompleteDeadline marks a deadline complete. First writer wins: only a row
// still pending is updated, and the returned bool reports whether this call
// was the one that completed it.
func (s *Store) CompleteDeadline(ctx context.Context, episodeID int64, role roles.Role, completedBy int64, notes string) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE deadlines
         SET is_completed = 1, completed_at = ?, completed_by = ?, notes = ?
         WHERE episode_id = ? AND role = ? AND is_completed = 0`,
		time.Now().UTC().Format(time.RFC3339Nano),
		nullableInt64(completedBy),
		nullableString(notes),
		episodeID,
		string(role),
	)
	if err != nil {
		return false, fmt.Errorf("complete deadline: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ResetDeadline returns a completed deadline to pending. Explicit admin
// action only; the engine never calls this.
func (s *Store) ResetDeadline(ctx context.Context, episodeID int64, role roles.Role) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE deadlines
         SET is_completed = 0, completed_at = NULL, completed_by = NULL, notes = NULL
         WHERE episode_id = ? AND role = ? AND is_completed = 1`,
		episodeID,
		string(role),
	)
	if err != nil {
		return false, fmt.Errorf("reset deadline: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanDeadline(scanner interface{ Scan(dest ...any) error }) (*Deadline, error) {
	var (
		id           int64
		episodeID    int64
		role         string
		dateRaw      string
		isCompleted  int
		completedRaw sql.NullString
		completedBy  sql.NullInt64
		notes        sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&episodeID,
		&role,
		&dateRaw,
		&isCompleted,
		&completedRaw,
		&completedBy,
		&notes,
	); err != nil {
		return nil, err
	}

	deadline := &Deadline{
		ID:          id,
		EpisodeID:   episodeID,
		Role:        roles.Role(role),
		IsCompleted: isCompleted != 0,
		CompletedAt: timePtrFromNull(completedRaw),
		CompletedBy: completedBy.Int64,
		Notes:       notes.String,
	}
	if date, err := parseDateString(dateRaw); err == nil {
		deadline.DeadlineDate = date
	}
	return deadline, nil
}
