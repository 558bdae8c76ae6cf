package api_test

import (
	"context"
	"testing"

	"greenroom/internal/api"
	"greenroom/internal/testsupport"
)

func TestCreateEpisodeAndWorkflowState(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	producerID, err := api.AddUser(ctx, api.AddUserRequest{
		Config:      cfg,
		DisplayName: "Producer",
		Role:        "Produser",
		Active:      true,
	})
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	arrangerID, err := api.AddUser(ctx, api.AddUserRequest{
		Config:      cfg,
		DisplayName: "Arranger",
		Role:        "Music Arranger",
		Active:      true,
	})
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	if err := api.AddTeamMember(ctx, api.AddTeamMemberRequest{
		Config:    cfg,
		ProgramID: "morning-show",
		UserID:    arrangerID,
		Role:      "music_arranger",
	}); err != nil {
		t.Fatalf("AddTeamMember failed: %v", err)
	}

	episode, err := api.CreateEpisode(ctx, api.CreateEpisodeRequest{
		Config:        cfg,
		ProgramID:     "morning-show",
		EpisodeNumber: 1,
		Title:         "Pilot",
		AirDate:       "2025-06-01",
	})
	if err != nil {
		t.Fatalf("CreateEpisode failed: %v", err)
	}
	if episode.AirDate != "2025-06-01" {
		t.Fatalf("air date round-trip mismatch: %q", episode.AirDate)
	}

	task, err := api.CreateTask(ctx, api.CreateTaskRequest{
		Config:    cfg,
		EpisodeID: episode.ID,
		Kind:      "music_arrangement",
		CreatedBy: arrangerID,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := api.SubmitTask(ctx, api.TaskActionRequest{
		Config:  cfg,
		TaskID:  task.ID,
		ActorID: arrangerID,
	}); err != nil {
		t.Fatalf("SubmitTask failed: %v", err)
	}
	if _, err := api.ApproveTask(ctx, api.TaskActionRequest{
		Config:  cfg,
		TaskID:  task.ID,
		ActorID: producerID,
		Notes:   "solid arrangement",
	}); err != nil {
		t.Fatalf("ApproveTask failed: %v", err)
	}

	state, err := api.GetWorkflowState(ctx, api.WorkflowStateRequest{
		Config:    cfg,
		EpisodeID: episode.ID,
	})
	if err != nil {
		t.Fatalf("GetWorkflowState failed: %v", err)
	}
	if state.Episode.CurrentStage != "creative_work" {
		t.Fatalf("expected creative_work stage, got %q", state.Episode.CurrentStage)
	}
	if len(state.Tasks) != 2 {
		t.Fatalf("expected approved task plus provisioned creative task, got %d", len(state.Tasks))
	}
	if len(state.Deadlines) != 6 {
		t.Fatalf("expected 6 deadlines, got %d", len(state.Deadlines))
	}
	if len(state.Transitions) != 1 {
		t.Fatalf("expected one transition, got %d", len(state.Transitions))
	}
	if state.TaskStats["approved"] != 1 || state.TaskStats["draft"] != 1 {
		t.Fatalf("unexpected task stats: %v", state.TaskStats)
	}

	episodes, err := api.ListEpisodes(ctx, api.ListEpisodesRequest{Config: cfg})
	if err != nil {
		t.Fatalf("ListEpisodes failed: %v", err)
	}
	if len(episodes) != 1 || episodes[0].ID != episode.ID {
		t.Fatalf("unexpected episode list: %#v", episodes)
	}
}

func TestCreateEpisodeRejectsBadAirDate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := api.CreateEpisode(context.Background(), api.CreateEpisodeRequest{
		Config:        cfg,
		ProgramID:     "morning-show",
		EpisodeNumber: 1,
		AirDate:       "June 1st",
	}); err == nil {
		t.Fatal("expected parse error for bad air date")
	}
}

func TestAddUserRejectsUnknownRole(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := api.AddUser(context.Background(), api.AddUserRequest{
		Config:      cfg,
		DisplayName: "Nobody",
		Role:        "lighting director",
		Active:      true,
	}); err == nil {
		t.Fatal("expected error for role outside the canonical set")
	}
}
