package workflow

import (
	"context"
	"fmt"
	"time"

	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/roles"
	"greenroom/internal/stages"
	"greenroom/internal/store"
)

// Submit moves a draft task to submitted and runs any transitions keyed on
// submission (the editing stage fans out promotion work here).
func (e *Engine) Submit(ctx context.Context, taskID, actorID int64) (*store.StageTask, error) {
	var result *store.StageTask
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		task, episode, err := e.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Status != stages.StatusDraft {
			return Wrap(ErrInvalidState, "submit", fmt.Sprintf("task %d is %s, not draft", taskID, task.Status), nil)
		}

		now := time.Now().UTC()
		task.Status = stages.StatusSubmitted
		task.SubmittedAt = &now
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		if err := e.runTransitions(ctx, tx, episode, task, actorID); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StartReview moves a submitted task to in_review. Optional; approval and
// rejection accept both submitted and in_review.
func (e *Engine) StartReview(ctx context.Context, taskID, reviewerID int64) (*store.StageTask, error) {
	var result *store.StageTask
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		task, _, err := e.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		role, err := reviewerRole(ctx, tx, reviewerID)
		if err != nil {
			return err
		}
		if !roles.CanAct(role, task.Kind, roles.ActionApprove) {
			return Wrap(ErrAuthorization, "start review", fmt.Sprintf("role %s may not review %s", role, task.Kind), nil)
		}
		if task.Status != stages.StatusSubmitted {
			return Wrap(ErrInvalidState, "start review", fmt.Sprintf("task %d is %s, not submitted", taskID, task.Status), nil)
		}
		task.Status = stages.StatusInReview
		task.ReviewedBy = reviewerID
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Approve marks a submitted or in-review task approved and synchronously
// runs the transition table before returning. Authorization and state are
// validated before any mutation.
func (e *Engine) Approve(ctx context.Context, taskID, reviewerID int64, notes string) (*store.StageTask, error) {
	var result *store.StageTask
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		task, episode, err := e.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		role, err := reviewerRole(ctx, tx, reviewerID)
		if err != nil {
			return err
		}
		if !roles.CanAct(role, task.Kind, roles.ActionApprove) {
			return Wrap(ErrAuthorization, "approve", fmt.Sprintf("role %s may not approve %s", role, task.Kind), nil)
		}
		if !task.Status.Reviewable() {
			return Wrap(ErrInvalidState, "approve", fmt.Sprintf("task %d is %s, not submitted or in review", taskID, task.Status), nil)
		}

		now := time.Now().UTC()
		task.Status = stages.StatusApproved
		task.ReviewedBy = reviewerID
		task.ReviewedAt = &now
		task.ReviewNotes = notes
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		if err := e.runTransitions(ctx, tx, episode, task, reviewerID); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject marks a submitted or in-review task rejected with a reason.
// Rejection never provisions downstream work.
func (e *Engine) Reject(ctx context.Context, taskID, reviewerID int64, reason string) (*store.StageTask, error) {
	if reason == "" {
		return nil, Wrap(ErrValidation, "reject", "rejection reason is required", nil)
	}
	var result *store.StageTask
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		task, _, err := e.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		role, err := reviewerRole(ctx, tx, reviewerID)
		if err != nil {
			return err
		}
		if !roles.CanAct(role, task.Kind, roles.ActionReject) {
			return Wrap(ErrAuthorization, "reject", fmt.Sprintf("role %s may not reject %s", role, task.Kind), nil)
		}
		if !task.Status.Reviewable() {
			return Wrap(ErrInvalidState, "reject", fmt.Sprintf("task %d is %s, not submitted or in review", taskID, task.Status), nil)
		}

		now := time.Now().UTC()
		task.Status = stages.StatusRejected
		task.ReviewedBy = reviewerID
		task.ReviewedAt = &now
		task.RejectionReason = reason
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RequestHelp assigns a helper to a rejected task. The rejection itself is
// preserved; the task moves to needs_help so a second role can fix the work
// before re-submission.
func (e *Engine) RequestHelp(ctx context.Context, taskID int64, helperRole roles.Role, notes string) (*store.StageTask, error) {
	helperRole = roles.Normalize(string(helperRole))
	if helperRole == "" {
		return nil, Wrap(ErrValidation, "request help", "helper role is required", nil)
	}
	var result *store.StageTask
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		task, episode, err := e.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Status != stages.StatusRejected {
			return Wrap(ErrInvalidState, "request help", fmt.Sprintf("task %d is %s, not rejected", taskID, task.Status), nil)
		}

		helperUser, err := roles.ResolveAssignee(ctx, tx, episode.ID, helperRole)
		if err != nil {
			return err
		}
		task.Status = stages.StatusNeedsHelp
		task.HelperRole = helperRole
		task.HelperUser = helperUser
		task.HelpNotes = notes
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}

		if helperUser != 0 && e.helpNotificationsEnabled() {
			notification := notifications.NewHelpRequested(helperUser, episode, task, notes)
			if err := tx.EnqueueNotification(ctx, notification); err != nil {
				e.logger.Warn("failed to enqueue help notification",
					logging.Int64(logging.FieldTaskID, task.ID),
					logging.Error(err),
				)
			}
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkHelpDone re-submits a task whose helper has finished the fix. This is
// an explicit actor action: the rejection reason clears only here.
func (e *Engine) MarkHelpDone(ctx context.Context, taskID, actorID int64, notes string) (*store.StageTask, error) {
	var result *store.StageTask
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		task, episode, err := e.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Status != stages.StatusNeedsHelp {
			return Wrap(ErrInvalidState, "mark help done", fmt.Sprintf("task %d is %s, not needs_help", taskID, task.Status), nil)
		}

		now := time.Now().UTC()
		task.Status = stages.StatusSubmitted
		task.SubmittedAt = &now
		task.RejectionReason = ""
		if notes != "" {
			task.HelpNotes = notes
		}
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		if err := e.runTransitions(ctx, tx, episode, task, actorID); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) loadTask(ctx context.Context, tx *store.Store, taskID int64) (*store.StageTask, *store.Episode, error) {
	task, err := tx.GetTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if task == nil {
		return nil, nil, Wrap(ErrNotFound, "load task", fmt.Sprintf("task %d", taskID), nil)
	}
	episode, err := tx.GetEpisode(ctx, task.EpisodeID)
	if err != nil {
		return nil, nil, err
	}
	if episode == nil {
		return nil, nil, Wrap(ErrNotFound, "load task", fmt.Sprintf("episode %d", task.EpisodeID), nil)
	}
	return task, episode, nil
}

func (e *Engine) helpNotificationsEnabled() bool {
	return e.cfg == nil || e.cfg.Notifications.HelpRequested
}

func (e *Engine) taskNotificationsEnabled() bool {
	return e.cfg == nil || e.cfg.Notifications.TaskCreated
}
