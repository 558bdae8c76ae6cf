package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/deadline"
	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/roles"
	"greenroom/internal/stages"
	"greenroom/internal/store"
	"greenroom/internal/workflow"
)

// openEngine opens the store and wires the workflow engine over it. The
// caller owns the returned store and must close it.
func openEngine(cfg *config.Config, logger *slog.Logger) (*store.Store, *workflow.Engine, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	scheduler := deadline.NewScheduler(st, cfg, logger)
	engine := workflow.NewEngine(st, scheduler, cfg, logger)
	return st, engine, nil
}

type CreateEpisodeRequest struct {
	Config        *config.Config
	Logger        *slog.Logger
	ProgramID     string
	EpisodeNumber int
	Title         string
	AirDate       string
}

// CreateEpisode registers an episode and generates its role deadlines.
func CreateEpisode(ctx context.Context, req CreateEpisodeRequest) (Episode, error) {
	airDate, err := time.Parse(dateFormat, req.AirDate)
	if err != nil {
		return Episode{}, fmt.Errorf("parse air date %q: %w", req.AirDate, err)
	}
	st, engine, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return Episode{}, err
	}
	defer st.Close()

	episode, err := engine.CreateEpisode(ctx, req.ProgramID, req.EpisodeNumber, req.Title, airDate)
	if err != nil {
		return Episode{}, err
	}
	return FromEpisode(episode), nil
}

type CreateTaskRequest struct {
	Config    *config.Config
	Logger    *slog.Logger
	EpisodeID int64
	Kind      string
	WorkType  string
	CreatedBy int64
	Payload   string
}

// CreateTask provisions a stage task directly, used for the pipeline's
// first stage where no upstream rule fires.
func CreateTask(ctx context.Context, req CreateTaskRequest) (StageTask, error) {
	kind, ok := stages.ParseKind(req.Kind)
	if !ok {
		return StageTask{}, fmt.Errorf("unknown stage kind %q", req.Kind)
	}
	st, engine, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return StageTask{}, err
	}
	defer st.Close()

	task, err := engine.CreateTask(ctx, req.EpisodeID, kind, stages.WorkType(req.WorkType), req.CreatedBy, req.Payload)
	if err != nil {
		return StageTask{}, err
	}
	return FromStageTask(task), nil
}

type TaskActionRequest struct {
	Config  *config.Config
	Logger  *slog.Logger
	TaskID  int64
	ActorID int64
	Notes   string
}

// SubmitTask moves a draft task to submitted.
func SubmitTask(ctx context.Context, req TaskActionRequest) (StageTask, error) {
	st, engine, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return StageTask{}, err
	}
	defer st.Close()

	task, err := engine.Submit(ctx, req.TaskID, req.ActorID)
	if err != nil {
		return StageTask{}, err
	}
	return FromStageTask(task), nil
}

// StartReview moves a submitted task to in_review.
func StartReview(ctx context.Context, req TaskActionRequest) (StageTask, error) {
	st, engine, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return StageTask{}, err
	}
	defer st.Close()

	task, err := engine.StartReview(ctx, req.TaskID, req.ActorID)
	if err != nil {
		return StageTask{}, err
	}
	return FromStageTask(task), nil
}

// ApproveTask approves a task and applies the transition table.
func ApproveTask(ctx context.Context, req TaskActionRequest) (StageTask, error) {
	st, engine, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return StageTask{}, err
	}
	defer st.Close()

	task, err := engine.Approve(ctx, req.TaskID, req.ActorID, req.Notes)
	if err != nil {
		return StageTask{}, err
	}
	return FromStageTask(task), nil
}

// RejectTask rejects a task with a reason.
func RejectTask(ctx context.Context, req TaskActionRequest) (StageTask, error) {
	st, engine, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return StageTask{}, err
	}
	defer st.Close()

	task, err := engine.Reject(ctx, req.TaskID, req.ActorID, req.Notes)
	if err != nil {
		return StageTask{}, err
	}
	return FromStageTask(task), nil
}

type RequestHelpRequest struct {
	Config     *config.Config
	Logger     *slog.Logger
	TaskID     int64
	HelperRole string
	Notes      string
}

// RequestHelp assigns a helper role to a rejected task.
func RequestHelp(ctx context.Context, req RequestHelpRequest) (StageTask, error) {
	st, engine, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return StageTask{}, err
	}
	defer st.Close()

	task, err := engine.RequestHelp(ctx, req.TaskID, roles.Role(req.HelperRole), req.Notes)
	if err != nil {
		return StageTask{}, err
	}
	return FromStageTask(task), nil
}

// MarkHelpDone re-submits a task after helper work finishes.
func MarkHelpDone(ctx context.Context, req TaskActionRequest) (StageTask, error) {
	st, engine, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return StageTask{}, err
	}
	defer st.Close()

	task, err := engine.MarkHelpDone(ctx, req.TaskID, req.ActorID, req.Notes)
	if err != nil {
		return StageTask{}, err
	}
	return FromStageTask(task), nil
}

type WorkflowStateRequest struct {
	Config    *config.Config
	Logger    *slog.Logger
	EpisodeID int64
}

// GetWorkflowState assembles the full workflow state for one episode.
func GetWorkflowState(ctx context.Context, req WorkflowStateRequest) (WorkflowState, error) {
	st, engine, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return WorkflowState{}, err
	}
	defer st.Close()

	snapshot, err := engine.Snapshot(ctx, req.EpisodeID)
	if err != nil {
		return WorkflowState{}, err
	}
	return FromSnapshot(snapshot, time.Now().UTC()), nil
}

type ListEpisodesRequest struct {
	Config *config.Config
	Logger *slog.Logger
}

// ListEpisodes returns every registered episode.
func ListEpisodes(ctx context.Context, req ListEpisodesRequest) ([]Episode, error) {
	st, _, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	episodes, err := st.ListEpisodes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Episode, 0, len(episodes))
	for _, episode := range episodes {
		out = append(out, FromEpisode(episode))
	}
	return out, nil
}

type AddUserRequest struct {
	Config      *config.Config
	Logger      *slog.Logger
	DisplayName string
	Role        string
	Active      bool
}

// AddUser registers a staff member who can hold stage tasks.
func AddUser(ctx context.Context, req AddUserRequest) (int64, error) {
	role := roles.Normalize(req.Role)
	if !role.Canonical() {
		return 0, fmt.Errorf("unknown role %q", req.Role)
	}
	st, _, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	user, err := st.AddUser(ctx, req.DisplayName, role, req.Active)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

type AddTeamMemberRequest struct {
	Config    *config.Config
	Logger    *slog.Logger
	ProgramID string
	UserID    int64
	Role      string
}

// AddTeamMember binds a user to a program's team for a role.
func AddTeamMember(ctx context.Context, req AddTeamMemberRequest) error {
	role := roles.Normalize(req.Role)
	if !role.Canonical() {
		return fmt.Errorf("unknown role %q", req.Role)
	}
	st, _, err := openEngine(req.Config, req.Logger)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.AddTeamMember(ctx, req.ProgramID, req.UserID, role)
}

type DrainOutboxRequest struct {
	Config *config.Config
	Logger *slog.Logger
	Limit  int
}

// DrainOutbox delivers pending notifications best-effort and returns the
// number delivered.
func DrainOutbox(ctx context.Context, req DrainOutboxRequest) (int, error) {
	if req.Config == nil {
		return 0, fmt.Errorf("configuration is required")
	}
	logger := req.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	st, err := store.Open(req.Config)
	if err != nil {
		return 0, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	service := notifications.NewService(req.Config)
	dispatcher := notifications.NewDispatcher(st, service, logger)
	return dispatcher.Drain(ctx, req.Limit)
}
