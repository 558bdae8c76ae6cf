package notifications

import (
	"encoding/json"
	"fmt"

	"greenroom/internal/store"
)

// Notification types written to the outbox.
const (
	TypeTaskCreated      = "task_created"
	TypeHelpRequested    = "help_requested"
	TypeDeadlineReminder = "deadline_reminder"
)

type taskData struct {
	EpisodeID int64  `json:"episode_id"`
	TaskID    int64  `json:"task_id"`
	Kind      string `json:"kind"`
	WorkType  string `json:"work_type,omitempty"`
}

// NewTaskCreated composes the outbox row for a freshly provisioned stage task.
func NewTaskCreated(userID int64, episode *store.Episode, task *store.StageTask) *store.Notification {
	label := task.Kind.Label()
	if task.WorkType != "" {
		label = fmt.Sprintf("%s (%s)", label, task.WorkType)
	}
	data, _ := json.Marshal(taskData{
		EpisodeID: episode.ID,
		TaskID:    task.ID,
		Kind:      string(task.Kind),
		WorkType:  string(task.WorkType),
	})
	return &store.Notification{
		UserID:   userID,
		Type:     TypeTaskCreated,
		Title:    fmt.Sprintf("New %s task", label),
		Message:  fmt.Sprintf("%s work is ready for %s episode %d", label, episode.ProgramID, episode.EpisodeNumber),
		DataJSON: string(data),
	}
}

// NewHelpRequested composes the outbox row sent to a helper on a rejected task.
func NewHelpRequested(userID int64, episode *store.Episode, task *store.StageTask, notes string) *store.Notification {
	data, _ := json.Marshal(taskData{
		EpisodeID: episode.ID,
		TaskID:    task.ID,
		Kind:      string(task.Kind),
		WorkType:  string(task.WorkType),
	})
	message := fmt.Sprintf("Help requested on %s for %s episode %d", task.Kind.Label(), episode.ProgramID, episode.EpisodeNumber)
	if notes != "" {
		message = fmt.Sprintf("%s: %s", message, notes)
	}
	return &store.Notification{
		UserID:   userID,
		Type:     TypeHelpRequested,
		Title:    fmt.Sprintf("Help needed: %s", task.Kind.Label()),
		Message:  message,
		DataJSON: string(data),
	}
}

// NewDeadlineReminder composes the outbox row for an approaching deadline.
func NewDeadlineReminder(userID int64, episode *store.Episode, deadline *store.Deadline) *store.Notification {
	data, _ := json.Marshal(map[string]any{
		"episode_id":    episode.ID,
		"role":          string(deadline.Role),
		"deadline_date": deadline.DeadlineDate.Format("2006-01-02"),
	})
	return &store.Notification{
		UserID:   userID,
		Type:     TypeDeadlineReminder,
		Title:    fmt.Sprintf("Deadline approaching: %s", deadline.Role.Label()),
		Message:  fmt.Sprintf("%s work for %s episode %d is due %s", deadline.Role.Label(), episode.ProgramID, episode.EpisodeNumber, deadline.DeadlineDate.Format("2006-01-02")),
		DataJSON: string(data),
	}
}
