package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greenroom/internal/roles"
	"greenroom/internal/stages"
)

const taskColumns = "id, episode_id, kind, work_type, status, payload_json, created_by, submitted_at, reviewed_by, reviewed_at, review_notes, rejection_reason, helper_role, helper_user, help_notes, created_at, updated_at"

// InsertTaskIfAbsent creates a stage task for its (episode, kind, work type)
// key unless a row with that key already exists. The returned bool reports
// whether a new row was created; either way the row now present is returned.
// This is the compare-and-create discipline that makes duplicate triggers safe.
func (s *Store) InsertTaskIfAbsent(ctx context.Context, task *StageTask) (*StageTask, bool, error) {
	if task == nil {
		return nil, false, errors.New("task is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO stage_tasks (
            episode_id, kind, work_type, status, payload_json, created_by, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (episode_id, kind, work_type) DO NOTHING`,
		task.EpisodeID,
		string(task.Kind),
		string(task.WorkType),
		string(task.Status),
		nullableString(task.PayloadJSON),
		nullableInt64(task.CreatedBy),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert stage task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	existing, err := s.GetTaskByKey(ctx, task.EpisodeID, task.Kind, task.WorkType)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("stage task for episode %d kind %s missing after insert", task.EpisodeID, task.Kind)
	}
	return existing, affected > 0, nil
}

// GetTask fetches a stage task by identifier.
func (s *Store) GetTask(ctx context.Context, id int64) (*StageTask, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM stage_tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stage task: %w", err)
	}
	return task, nil
}

// GetTaskByKey fetches the stage task for an (episode, kind, work type) key.
func (s *Store) GetTaskByKey(ctx context.Context, episodeID int64, kind stages.Kind, workType stages.WorkType) (*StageTask, error) {
	row := s.q.QueryRowContext(
		ctx,
		`SELECT `+taskColumns+` FROM stage_tasks WHERE episode_id = ? AND kind = ? AND work_type = ?`,
		episodeID,
		string(kind),
		string(workType),
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stage task by key: %w", err)
	}
	return task, nil
}

// TasksByEpisode returns all stage tasks for an episode in pipeline order.
func (s *Store) TasksByEpisode(ctx context.Context, episodeID int64) ([]*StageTask, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT `+taskColumns+` FROM stage_tasks WHERE episode_id = ? ORDER BY id`,
		episodeID,
	)
	if err != nil {
		return nil, fmt.Errorf("tasks by episode: %w", err)
	}
	defer rows.Close()

	var tasks []*StageTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// TasksByKind returns an episode's tasks of one kind, fan-out siblings included.
func (s *Store) TasksByKind(ctx context.Context, episodeID int64, kind stages.Kind) ([]*StageTask, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT `+taskColumns+` FROM stage_tasks WHERE episode_id = ? AND kind = ? ORDER BY work_type`,
		episodeID,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("tasks by kind: %w", err)
	}
	defer rows.Close()

	var tasks []*StageTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTask persists changes to an existing stage task.
func (s *Store) UpdateTask(ctx context.Context, task *StageTask) error {
	if task == nil {
		return errors.New("task is nil")
	}
	task.UpdatedAt = time.Now().UTC()
	_, err := s.execWithRetry(
		ctx,
		`UPDATE stage_tasks
         SET status = ?, payload_json = ?, created_by = ?, submitted_at = ?,
             reviewed_by = ?, reviewed_at = ?, review_notes = ?, rejection_reason = ?,
             helper_role = ?, helper_user = ?, help_notes = ?, updated_at = ?
         WHERE id = ?`,
		string(task.Status),
		nullableString(task.PayloadJSON),
		nullableInt64(task.CreatedBy),
		nullableTime(task.SubmittedAt),
		nullableInt64(task.ReviewedBy),
		nullableTime(task.ReviewedAt),
		nullableString(task.ReviewNotes),
		nullableString(task.RejectionReason),
		nullableString(string(task.HelperRole)),
		nullableInt64(task.HelperUser),
		nullableString(task.HelpNotes),
		task.UpdatedAt.Format(time.RFC3339Nano),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update stage task: %w", err)
	}
	return nil
}

// TaskStatsByEpisode returns a count of an episode's tasks grouped by status.
func (s *Store) TaskStatsByEpisode(ctx context.Context, episodeID int64) (TaskStats, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT status, COUNT(1) FROM stage_tasks WHERE episode_id = ? GROUP BY status`,
		episodeID,
	)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	defer rows.Close()

	stats := make(TaskStats)
	for rows.Next() {
		var status stages.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

func scanTask(scanner interface{ Scan(dest ...any) error }) (*StageTask, error) {
	var (
		id              int64
		episodeID       int64
		kind            string
		workType        string
		status          string
		payload         sql.NullString
		createdBy       sql.NullInt64
		submittedRaw    sql.NullString
		reviewedBy      sql.NullInt64
		reviewedRaw     sql.NullString
		reviewNotes     sql.NullString
		rejectionReason sql.NullString
		helperRole      sql.NullString
		helperUser      sql.NullInt64
		helpNotes       sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&episodeID,
		&kind,
		&workType,
		&status,
		&payload,
		&createdBy,
		&submittedRaw,
		&reviewedBy,
		&reviewedRaw,
		&reviewNotes,
		&rejectionReason,
		&helperRole,
		&helperUser,
		&helpNotes,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	task := &StageTask{
		ID:              id,
		EpisodeID:       episodeID,
		Kind:            stages.Kind(kind),
		WorkType:        stages.WorkType(workType),
		Status:          stages.Status(status),
		PayloadJSON:     payload.String,
		CreatedBy:       createdBy.Int64,
		SubmittedAt:     timePtrFromNull(submittedRaw),
		ReviewedBy:      reviewedBy.Int64,
		ReviewedAt:      timePtrFromNull(reviewedRaw),
		ReviewNotes:     reviewNotes.String,
		RejectionReason: rejectionReason.String,
		HelperRole:      roles.Role(helperRole.String),
		HelperUser:      helperUser.Int64,
		HelpNotes:       helpNotes.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		task.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		task.UpdatedAt = updated
	}
	return task, nil
}
