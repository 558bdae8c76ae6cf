package store

import (
	"time"

	"greenroom/internal/roles"
	"greenroom/internal/stages"
)

// Episode is the workflow pointer for one episode of a program. Its current
// stage and assignment are mutated only by the transition engine.
type Episode struct {
	ID                  int64
	ProgramID           string
	EpisodeNumber       int
	Title               string
	AirDate             time.Time
	CurrentStage        stages.Kind
	CurrentAssigneeRole roles.Role
	CurrentAssigneeUser int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// StageTask is one unit of work bound to an episode and a stage kind,
// parameterized by a work type for fan-out siblings.
type StageTask struct {
	ID              int64
	EpisodeID       int64
	Kind            stages.Kind
	WorkType        stages.WorkType
	Status          stages.Status
	PayloadJSON     string
	CreatedBy       int64
	SubmittedAt     *time.Time
	ReviewedBy      int64
	ReviewedAt      *time.Time
	ReviewNotes     string
	RejectionReason string
	HelperRole      roles.Role
	HelperUser      int64
	HelpNotes       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Deadline is one per-role due date derived from the episode's air date.
type Deadline struct {
	ID           int64
	EpisodeID    int64
	Role         roles.Role
	DeadlineDate time.Time
	IsCompleted  bool
	CompletedAt  *time.Time
	CompletedBy  int64
	Notes        string
}

// TransitionEntry is one append-only audit row written per successful
// workflow transition.
type TransitionEntry struct {
	ID                int64
	EpisodeID         int64
	FromStage         stages.Kind
	ToStage           stages.Kind
	TriggeredByTaskID int64
	RequestID         string
	CreatedAt         time.Time
}

// Notification is one outbox row awaiting best-effort delivery.
type Notification struct {
	ID        int64
	UserID    int64
	Type      string
	Title     string
	Message   string
	DataJSON  string
	CreatedAt time.Time
	SentAt    *time.Time
}

// User is an active or former staff member who can hold stage tasks.
type User struct {
	ID          int64
	DisplayName string
	Role        roles.Role
	Active      bool
	CreatedAt   time.Time
}

// TaskStats counts stage tasks grouped by status.
type TaskStats map[stages.Status]int

// airDateFormat stores calendar dates without a time component.
const airDateFormat = "2006-01-02"
