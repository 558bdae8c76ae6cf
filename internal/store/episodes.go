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

const episodeColumns = "id, program_id, episode_number, title, air_date, current_stage, current_assignee_role, current_assignee_user, created_at, updated_at"

// CreateEpisode inserts a new episode with no current stage.
func (s *Store) CreateEpisode(ctx context.Context, programID string, episodeNumber int, title string, airDate time.Time) (*Episode, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO episodes (
            program_id, episode_number, title, air_date, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		programID,
		episodeNumber,
		nullableString(title),
		airDate.Format(airDateFormat),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert episode: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetEpisode(ctx, id)
}

// GetEpisode fetches an episode by identifier.
func (s *Store) GetEpisode(ctx context.Context, id int64) (*Episode, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE id = ?`, id)
	episode, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return episode, nil
}

// ListEpisodes returns episodes ordered by program and episode number.
func (s *Store) ListEpisodes(ctx context.Context) ([]*Episode, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+episodeColumns+` FROM episodes ORDER BY program_id, episode_number`)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

// AdvanceEpisodeStage moves the episode's workflow pointer. Only the
// transition engine calls this; the stage never moves backwards because the
// engine compares pipeline positions before writing.
func (s *Store) AdvanceEpisodeStage(ctx context.Context, id int64, stage stages.Kind, role roles.Role, userID int64) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE episodes
         SET current_stage = ?, current_assignee_role = ?, current_assignee_user = ?, updated_at = ?
         WHERE id = ?`,
		string(stage),
		nullableString(string(role)),
		nullableInt64(userID),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("advance episode stage: %w", err)
	}
	return nil
}

func scanEpisode(scanner interface{ Scan(dest ...any) error }) (*Episode, error) {
	var (
		id           int64
		programID    string
		episodeNum   int
		title        sql.NullString
		airDateRaw   string
		currentStage sql.NullString
		assigneeRole sql.NullString
		assigneeUser sql.NullInt64
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&programID,
		&episodeNum,
		&title,
		&airDateRaw,
		&currentStage,
		&assigneeRole,
		&assigneeUser,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	episode := &Episode{
		ID:                  id,
		ProgramID:           programID,
		EpisodeNumber:       episodeNum,
		Title:               title.String,
		CurrentStage:        stages.Kind(currentStage.String),
		CurrentAssigneeRole: roles.Role(assigneeRole.String),
		CurrentAssigneeUser: assigneeUser.Int64,
	}
	if airDate, err := parseDateString(airDateRaw); err == nil {
		episode.AirDate = airDate
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		episode.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		episode.UpdatedAt = updated
	}
	return episode, nil
}
