package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/deadline"
	"greenroom/internal/logging"
	"greenroom/internal/roles"
	"greenroom/internal/stages"
	"greenroom/internal/store"
)

// Engine owns every workflow mutation: stage task lifecycle actions, the
// declarative transition table, episode stage advancement, deadline
// completion, and outbox writes. All of it runs inside one store
// transaction per action, so concurrent duplicate triggers resolve through
// the store's unique keys instead of failing.
type Engine struct {
	store     *store.Store
	scheduler *deadline.Scheduler
	cfg       *config.Config
	logger    *slog.Logger
	rules     map[ruleKey][]Target
}

// NewEngine constructs an engine over the default transition table.
func NewEngine(st *store.Store, scheduler *deadline.Scheduler, cfg *config.Config, logger *slog.Logger) *Engine {
	return NewEngineWithRules(st, scheduler, cfg, logger, DefaultRules())
}

// NewEngineWithRules constructs an engine with a custom transition table
// (used in tests).
func NewEngineWithRules(st *store.Store, scheduler *deadline.Scheduler, cfg *config.Config, logger *slog.Logger, rules []Rule) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		store:     st,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger.With(logging.String(logging.FieldComponent, "workflow")),
		rules:     indexRules(rules),
	}
}

// CreateEpisode inserts a new episode and generates its role deadlines in
// one transaction. Deadline generation is idempotent, so re-running it for
// an existing episode never duplicates rows.
func (e *Engine) CreateEpisode(ctx context.Context, programID string, episodeNumber int, title string, airDate time.Time) (*store.Episode, error) {
	if programID == "" {
		return nil, Wrap(ErrValidation, "create episode", "program id is required", nil)
	}
	if episodeNumber <= 0 {
		return nil, Wrap(ErrValidation, "create episode", fmt.Sprintf("episode number must be positive, got %d", episodeNumber), nil)
	}
	if airDate.IsZero() {
		return nil, Wrap(ErrValidation, "create episode", "air date is required", nil)
	}

	var episode *store.Episode
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		created, err := tx.CreateEpisode(ctx, programID, episodeNumber, title, airDate)
		if err != nil {
			return err
		}
		if _, err := e.scheduler.WithStore(tx).Generate(ctx, created); err != nil {
			return err
		}
		episode = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("episode created",
		logging.Int64(logging.FieldEpisodeID, episode.ID),
		logging.String("program_id", programID),
		logging.Int("episode_number", episodeNumber),
	)
	return episode, nil
}

// CreateTask provisions the user-initiated first stage task for an episode.
// System-initiated downstream tasks come from the transition table instead.
func (e *Engine) CreateTask(ctx context.Context, episodeID int64, kind stages.Kind, workType stages.WorkType, createdBy int64, payloadJSON string) (*store.StageTask, error) {
	if kind.Order() < 0 {
		return nil, Wrap(ErrValidation, "create task", fmt.Sprintf("unknown stage kind %q", kind), nil)
	}

	var task *store.StageTask
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		episode, err := tx.GetEpisode(ctx, episodeID)
		if err != nil {
			return err
		}
		if episode == nil {
			return Wrap(ErrNotFound, "create task", fmt.Sprintf("episode %d", episodeID), nil)
		}
		created, _, err := tx.InsertTaskIfAbsent(ctx, &store.StageTask{
			EpisodeID:   episodeID,
			Kind:        kind,
			WorkType:    workType,
			Status:      stages.StatusDraft,
			CreatedBy:   createdBy,
			PayloadJSON: payloadJSON,
		})
		if err != nil {
			return err
		}
		task = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// reviewerRole loads the reviewer and normalizes their role. A missing
// reviewer fails authorization, not lookup: the caller must be a known user.
func reviewerRole(ctx context.Context, tx *store.Store, reviewerID int64) (roles.Role, error) {
	user, err := tx.GetUser(ctx, reviewerID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", Wrap(ErrAuthorization, "review", fmt.Sprintf("unknown reviewer %d", reviewerID), nil)
	}
	return roles.Normalize(string(user.Role)), nil
}
