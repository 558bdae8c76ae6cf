package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/roles"
	"greenroom/internal/stages"
	"greenroom/internal/store"
)

// runTransitions applies the rule table after a status change, inside the
// caller's transaction. It provisions every missing target task, completes
// the owning role's deadline on approval, advances the episode's stage
// pointer monotonically, and appends one audit row per firing. Targets that
// already exist are skipped, so replayed triggers are no-ops.
func (e *Engine) runTransitions(ctx context.Context, tx *store.Store, episode *store.Episode, task *store.StageTask, actorID int64) error {
	if task.Status == stages.StatusApproved {
		owner := roles.Owner(task.Kind)
		if owner != "" {
			if err := e.scheduler.WithStore(tx).MarkComplete(ctx, episode.ID, owner, actorID, string(task.Kind)); err != nil {
				return err
			}
		}
	}

	targets := e.rules[ruleKey{source: task.Kind, trigger: task.Status}]
	if len(targets) == 0 {
		return nil
	}

	requestID := uuid.NewString()
	var next *Target
	for i := range targets {
		created, err := e.provisionTarget(ctx, tx, episode, task, targets[i])
		if err != nil {
			return err
		}
		if !created {
			continue
		}
		// The episode pointer follows the nearest downstream stage; fan-out
		// siblings further along the pipeline are side work.
		if next == nil || next.Kind.Later(targets[i].Kind) {
			next = &targets[i]
		}
	}
	if next == nil {
		return nil
	}

	entry := &store.TransitionEntry{
		EpisodeID:         episode.ID,
		FromStage:         task.Kind,
		ToStage:           next.Kind,
		TriggeredByTaskID: task.ID,
		RequestID:         requestID,
	}
	if err := tx.AppendTransition(ctx, entry); err != nil {
		return err
	}

	// The pointer only moves on approved hand-offs and never backwards.
	// Submission-triggered fan-out leaves the episode in its current stage.
	if task.Status == stages.StatusApproved && next.Kind.Later(episode.CurrentStage) {
		assignee, err := roles.ResolveAssignee(ctx, tx, episode.ID, next.Role)
		if err != nil {
			return err
		}
		if err := tx.AdvanceEpisodeStage(ctx, episode.ID, next.Kind, next.Role, assignee); err != nil {
			return err
		}
		episode.CurrentStage = next.Kind
		episode.CurrentAssigneeRole = next.Role
		episode.CurrentAssigneeUser = assignee
	}

	e.logger.Info("transition applied",
		logging.Int64(logging.FieldEpisodeID, episode.ID),
		logging.String(logging.FieldStage, string(task.Kind)),
		logging.String("trigger", string(task.Status)),
		logging.String("to_stage", string(next.Kind)),
		logging.String(logging.FieldRequestID, requestID),
	)
	return nil
}

// provisionTarget creates one downstream task if it does not already exist.
// The source task's payload travels with it so file links survive fan-out.
func (e *Engine) provisionTarget(ctx context.Context, tx *store.Store, episode *store.Episode, source *store.StageTask, target Target) (bool, error) {
	assignee, err := roles.ResolveAssignee(ctx, tx, episode.ID, target.Role)
	if err != nil {
		return false, err
	}

	task, created, err := tx.InsertTaskIfAbsent(ctx, &store.StageTask{
		EpisodeID:   episode.ID,
		Kind:        target.Kind,
		WorkType:    target.WorkType,
		Status:      stages.StatusDraft,
		CreatedBy:   assignee,
		PayloadJSON: source.PayloadJSON,
	})
	if err != nil {
		return false, err
	}
	if !created {
		e.logger.Info("target task already exists, skipping",
			logging.Int64(logging.FieldEpisodeID, episode.ID),
			logging.String(logging.FieldStage, string(target.Kind)),
			logging.String(logging.FieldWorkType, string(target.WorkType)),
			logging.Int64(logging.FieldTaskID, task.ID),
		)
		return false, nil
	}

	if assignee == 0 {
		e.logger.Warn("no active user for role, task left unassigned",
			logging.Int64(logging.FieldEpisodeID, episode.ID),
			logging.String(logging.FieldRole, string(target.Role)),
			logging.String(logging.FieldStage, string(target.Kind)),
		)
	} else if e.taskNotificationsEnabled() {
		notification := notifications.NewTaskCreated(assignee, episode, task)
		if err := tx.EnqueueNotification(ctx, notification); err != nil {
			e.logger.Warn("failed to enqueue task notification",
				logging.Int64(logging.FieldTaskID, task.ID),
				logging.Error(err),
			)
		}
	}

	e.logger.Info("task provisioned",
		logging.Int64(logging.FieldEpisodeID, episode.ID),
		logging.Int64(logging.FieldTaskID, task.ID),
		logging.String(logging.FieldStage, string(target.Kind)),
		logging.String(logging.FieldWorkType, string(target.WorkType)),
		logging.Int64("assignee", assignee),
	)
	return true, nil
}

// WorkflowSnapshot is the read-side projection of an episode's progress.
type WorkflowSnapshot struct {
	Episode     *store.Episode
	Tasks       []*store.StageTask
	Deadlines   []*store.Deadline
	Transitions []*store.TransitionEntry
	Stats       store.TaskStats
}

// Snapshot assembles the full workflow state for one episode.
func (e *Engine) Snapshot(ctx context.Context, episodeID int64) (*WorkflowSnapshot, error) {
	episode, err := e.store.GetEpisode(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	if episode == nil {
		return nil, Wrap(ErrNotFound, "snapshot", fmt.Sprintf("episode %d", episodeID), nil)
	}
	tasks, err := e.store.TasksByEpisode(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	deadlines, err := e.store.DeadlinesByEpisode(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	transitions, err := e.store.TransitionsByEpisode(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	stats, err := e.store.TaskStatsByEpisode(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	return &WorkflowSnapshot{
		Episode:     episode,
		Tasks:       tasks,
		Deadlines:   deadlines,
		Transitions: transitions,
		Stats:       stats,
	}, nil
}
