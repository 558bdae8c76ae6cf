package api

import (
	"time"

	"greenroom/internal/deadline"
	"greenroom/internal/store"
	"greenroom/internal/workflow"
)

// FromEpisode converts a store episode into its API representation.
func FromEpisode(e *store.Episode) Episode {
	out := Episode{
		ID:                  e.ID,
		ProgramID:           e.ProgramID,
		EpisodeNumber:       e.EpisodeNumber,
		Title:               e.Title,
		AirDate:             e.AirDate.Format(dateFormat),
		CurrentStage:        string(e.CurrentStage),
		CurrentAssigneeRole: string(e.CurrentAssigneeRole),
		CurrentAssigneeUser: e.CurrentAssigneeUser,
	}
	if !e.CreatedAt.IsZero() {
		out.CreatedAt = e.CreatedAt.Format(dateTimeFormat)
	}
	if !e.UpdatedAt.IsZero() {
		out.UpdatedAt = e.UpdatedAt.Format(dateTimeFormat)
	}
	return out
}

// FromStageTask converts a store stage task into its API representation.
func FromStageTask(t *store.StageTask) StageTask {
	out := StageTask{
		ID:              t.ID,
		EpisodeID:       t.EpisodeID,
		Kind:            string(t.Kind),
		WorkType:        string(t.WorkType),
		Status:          string(t.Status),
		Payload:         t.PayloadJSON,
		CreatedBy:       t.CreatedBy,
		ReviewedBy:      t.ReviewedBy,
		ReviewNotes:     t.ReviewNotes,
		RejectionReason: t.RejectionReason,
		HelperRole:      string(t.HelperRole),
		HelperUser:      t.HelperUser,
		HelpNotes:       t.HelpNotes,
	}
	if t.SubmittedAt != nil {
		out.SubmittedAt = t.SubmittedAt.Format(dateTimeFormat)
	}
	if t.ReviewedAt != nil {
		out.ReviewedAt = t.ReviewedAt.Format(dateTimeFormat)
	}
	return out
}

// FromDeadline converts a store deadline, computing overdue against now.
func FromDeadline(d *store.Deadline, now time.Time) Deadline {
	out := Deadline{
		EpisodeID:    d.EpisodeID,
		Role:         string(d.Role),
		DeadlineDate: d.DeadlineDate.Format(dateFormat),
		IsCompleted:  d.IsCompleted,
		CompletedBy:  d.CompletedBy,
		Overdue:      deadline.IsOverdue(d, now),
	}
	if d.CompletedAt != nil {
		out.CompletedAt = d.CompletedAt.Format(dateTimeFormat)
	}
	return out
}

// FromTransition converts a store audit row into its API representation.
func FromTransition(t *store.TransitionEntry) Transition {
	out := Transition{
		ID:        t.ID,
		EpisodeID: t.EpisodeID,
		FromStage: string(t.FromStage),
		ToStage:   string(t.ToStage),
		TaskID:    t.TriggeredByTaskID,
		RequestID: t.RequestID,
	}
	if !t.CreatedAt.IsZero() {
		out.CreatedAt = t.CreatedAt.Format(dateTimeFormat)
	}
	return out
}

// FromSnapshot converts an engine snapshot into the aggregate API state.
func FromSnapshot(s *workflow.WorkflowSnapshot, now time.Time) WorkflowState {
	state := WorkflowState{
		Episode:     FromEpisode(s.Episode),
		Tasks:       make([]StageTask, 0, len(s.Tasks)),
		Deadlines:   make([]Deadline, 0, len(s.Deadlines)),
		Transitions: make([]Transition, 0, len(s.Transitions)),
		TaskStats:   make(map[string]int, len(s.Stats)),
	}
	for _, task := range s.Tasks {
		state.Tasks = append(state.Tasks, FromStageTask(task))
	}
	for _, d := range s.Deadlines {
		state.Deadlines = append(state.Deadlines, FromDeadline(d, now))
	}
	for _, tr := range s.Transitions {
		state.Transitions = append(state.Transitions, FromTransition(tr))
	}
	for status, count := range s.Stats {
		state.TaskStats[string(status)] = count
	}
	return state
}
