package deadline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/roles"
	"greenroom/internal/store"
)

// remindWindow is how far ahead of the due date reminders fire.
const remindWindow = 24 * time.Hour

// Scheduler derives per-role deadlines from an episode's air date using the
// configured offset table and marks them complete as stages are approved.
type Scheduler struct {
	store   *store.Store
	offsets map[roles.Role]int
	logger  *slog.Logger
}

// NewScheduler builds a scheduler from the configured offset table.
func NewScheduler(st *store.Store, cfg *config.Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	offsets := make(map[roles.Role]int)
	if cfg != nil {
		for key, days := range cfg.Deadlines.Offsets {
			offsets[roles.Normalize(key)] = days
		}
	}
	if len(offsets) == 0 {
		for key, days := range config.DefaultDeadlineOffsets() {
			offsets[roles.Normalize(key)] = days
		}
	}
	return &Scheduler{store: st, offsets: offsets, logger: logger.With(logging.String(logging.FieldComponent, "deadline"))}
}

// WithStore returns a copy of the scheduler bound to a different store,
// used to run deadline writes inside an engine transaction.
func (s *Scheduler) WithStore(st *store.Store) *Scheduler {
	return &Scheduler{store: st, offsets: s.offsets, logger: s.logger}
}

// Generate creates one deadline per configured role from the episode's air
// date. Rows that already exist are left untouched, so calling Generate
// twice for the same episode is a no-op.
func (s *Scheduler) Generate(ctx context.Context, episode *store.Episode) ([]*store.Deadline, error) {
	if episode == nil {
		return nil, fmt.Errorf("episode is nil")
	}
	for role, days := range s.offsets {
		dueDate := episode.AirDate.AddDate(0, 0, -days)
		created, err := s.store.InsertDeadlineIfAbsent(ctx, episode.ID, role, dueDate)
		if err != nil {
			return nil, fmt.Errorf("generate deadline for %s: %w", role, err)
		}
		if !created {
			s.logger.Info("deadline already exists, skipping",
				logging.Int64(logging.FieldEpisodeID, episode.ID),
				logging.String(logging.FieldRole, string(role)),
			)
		}
	}
	return s.store.DeadlinesByEpisode(ctx, episode.ID)
}

// MarkComplete records that a role's work for the episode is done. Only the
// first call has effect; later calls are logged and succeed without change.
func (s *Scheduler) MarkComplete(ctx context.Context, episodeID int64, role roles.Role, completedBy int64, notes string) error {
	changed, err := s.store.CompleteDeadline(ctx, episodeID, role, completedBy, notes)
	if err != nil {
		return err
	}
	if !changed {
		s.logger.Info("deadline already completed",
			logging.Int64(logging.FieldEpisodeID, episodeID),
			logging.String(logging.FieldRole, string(role)),
		)
	}
	return nil
}

// IsOverdue reports whether a pending deadline's due date has passed.
func IsOverdue(d *store.Deadline, now time.Time) bool {
	if d == nil || d.IsCompleted {
		return false
	}
	return d.DeadlineDate.Before(now)
}

// ShouldRemind reports whether a pending deadline is inside the reminder
// window [due-24h, due).
func ShouldRemind(d *store.Deadline, now time.Time) bool {
	if d == nil || d.IsCompleted {
		return false
	}
	if !now.Before(d.DeadlineDate) {
		return false
	}
	return d.DeadlineDate.Sub(now) <= remindWindow
}
