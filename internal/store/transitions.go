package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"greenroom/internal/stages"
)

const transitionColumns = "id, episode_id, from_stage, to_stage, triggered_by_task_id, request_id, created_at"

// AppendTransition writes one audit row for a successful workflow transition.
func (s *Store) AppendTransition(ctx context.Context, entry *TransitionEntry) error {
	if entry == nil {
		return fmt.Errorf("transition entry is nil")
	}
	entry.CreatedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO transition_log (
            episode_id, from_stage, to_stage, triggered_by_task_id, request_id, created_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.EpisodeID,
		nullableString(string(entry.FromStage)),
		string(entry.ToStage),
		nullableInt64(entry.TriggeredByTaskID),
		nullableString(entry.RequestID),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append transition: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// TransitionsByEpisode returns the episode's audit trail in write order.
func (s *Store) TransitionsByEpisode(ctx context.Context, episodeID int64) ([]*TransitionEntry, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT `+transitionColumns+` FROM transition_log WHERE episode_id = ? ORDER BY id`,
		episodeID,
	)
	if err != nil {
		return nil, fmt.Errorf("transitions by episode: %w", err)
	}
	defer rows.Close()

	var entries []*TransitionEntry
	for rows.Next() {
		var (
			id         int64
			epID       int64
			fromStage  sql.NullString
			toStage    string
			taskID     sql.NullInt64
			requestID  sql.NullString
			createdRaw sql.NullString
		)
		if err := rows.Scan(&id, &epID, &fromStage, &toStage, &taskID, &requestID, &createdRaw); err != nil {
			return nil, err
		}
		entry := &TransitionEntry{
			ID:                id,
			EpisodeID:         epID,
			FromStage:         stages.Kind(fromStage.String),
			ToStage:           stages.Kind(toStage),
			TriggeredByTaskID: taskID.Int64,
			RequestID:         requestID.String,
		}
		if created, err := parseTimeString(createdRaw.String); err == nil {
			entry.CreatedAt = created
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
