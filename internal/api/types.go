package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// dateFormat is used for calendar dates (air dates, deadlines).
const dateFormat = "2006-01-02"

// Episode describes an episode in a transport-friendly format.
type Episode struct {
	ID                  int64  `json:"id"`
	ProgramID           string `json:"programId"`
	EpisodeNumber       int    `json:"episodeNumber"`
	Title               string `json:"title,omitempty"`
	AirDate             string `json:"airDate"`
	CurrentStage        string `json:"currentStage"`
	CurrentAssigneeRole string `json:"currentAssigneeRole,omitempty"`
	CurrentAssigneeUser int64  `json:"currentAssigneeUser,omitempty"`
	CreatedAt           string `json:"createdAt,omitempty"`
	UpdatedAt           string `json:"updatedAt,omitempty"`
}

// StageTask describes a stage task in a transport-friendly format.
type StageTask struct {
	ID              int64  `json:"id"`
	EpisodeID       int64  `json:"episodeId"`
	Kind            string `json:"kind"`
	WorkType        string `json:"workType,omitempty"`
	Status          string `json:"status"`
	Payload         string `json:"payload,omitempty"`
	CreatedBy       int64  `json:"createdBy,omitempty"`
	SubmittedAt     string `json:"submittedAt,omitempty"`
	ReviewedBy      int64  `json:"reviewedBy,omitempty"`
	ReviewedAt      string `json:"reviewedAt,omitempty"`
	ReviewNotes     string `json:"reviewNotes,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	HelperRole      string `json:"helperRole,omitempty"`
	HelperUser      int64  `json:"helperUser,omitempty"`
	HelpNotes       string `json:"helpNotes,omitempty"`
}

// Deadline describes a per-role due date in a transport-friendly format.
type Deadline struct {
	EpisodeID    int64  `json:"episodeId"`
	Role         string `json:"role"`
	DeadlineDate string `json:"deadlineDate"`
	IsCompleted  bool   `json:"isCompleted"`
	CompletedAt  string `json:"completedAt,omitempty"`
	CompletedBy  int64  `json:"completedBy,omitempty"`
	Overdue      bool   `json:"overdue"`
}

// Transition describes one audit row in a transport-friendly format.
type Transition struct {
	ID        int64  `json:"id"`
	EpisodeID int64  `json:"episodeId"`
	FromStage string `json:"fromStage"`
	ToStage   string `json:"toStage"`
	TaskID    int64  `json:"taskId,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// WorkflowState aggregates an episode's progress for status consumers.
type WorkflowState struct {
	Episode     Episode        `json:"episode"`
	Tasks       []StageTask    `json:"tasks"`
	Deadlines   []Deadline     `json:"deadlines"`
	Transitions []Transition   `json:"transitions"`
	TaskStats   map[string]int `json:"taskStats"`
}
