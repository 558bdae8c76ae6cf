package deadline_test

import (
	"context"
	"testing"
	"time"

	"greenroom/internal/deadline"
	"greenroom/internal/roles"
	"greenroom/internal/store"
	"greenroom/internal/testsupport"
)

func TestGenerateAppliesOffsets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	scheduler := deadline.NewScheduler(st, cfg, nil)

	ctx := context.Background()
	airDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	episode := testsupport.NewEpisode(t, st, "morning-show", 1, airDate)

	deadlines, err := scheduler.Generate(ctx, episode)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(deadlines) != 6 {
		t.Fatalf("expected 6 deadlines from the default offsets, got %d", len(deadlines))
	}

	byRole := make(map[roles.Role]*store.Deadline, len(deadlines))
	for _, d := range deadlines {
		byRole[d.Role] = d
	}
	// Editor is due 7 days before air, everyone else 9.
	if got := byRole[roles.RoleEditor].DeadlineDate; !got.Equal(time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("editor deadline = %v", got)
	}
	if got := byRole[roles.RoleCreative].DeadlineDate; !got.Equal(time.Date(2025, 5, 23, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("creative deadline = %v", got)
	}
	if got := byRole[roles.RoleSoundEngineer].DeadlineDate; !got.Equal(time.Date(2025, 5, 23, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("sound engineer deadline = %v", got)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	scheduler := deadline.NewScheduler(st, cfg, nil)

	ctx := context.Background()
	episode := testsupport.NewEpisode(t, st, "morning-show", 1, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	first, err := scheduler.Generate(ctx, episode)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := scheduler.Generate(ctx, episode)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("regeneration changed deadline count: %d vs %d", len(first), len(second))
	}
}

func TestGenerateHonorsConfiguredOffsets(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDeadlineOffset("editor", 3))
	st := testsupport.MustOpenStore(t, cfg)
	scheduler := deadline.NewScheduler(st, cfg, nil)

	ctx := context.Background()
	airDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	episode := testsupport.NewEpisode(t, st, "morning-show", 1, airDate)

	if _, err := scheduler.Generate(ctx, episode); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	d, err := st.GetDeadline(ctx, episode.ID, roles.RoleEditor)
	if err != nil {
		t.Fatalf("GetDeadline failed: %v", err)
	}
	if !d.DeadlineDate.Equal(time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("configured offset should win, got %v", d.DeadlineDate)
	}
}

func TestMarkCompleteIsFirstWriterWins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	scheduler := deadline.NewScheduler(st, cfg, nil)

	ctx := context.Background()
	episode := testsupport.NewEpisode(t, st, "morning-show", 1, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if _, err := scheduler.Generate(ctx, episode); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := scheduler.MarkComplete(ctx, episode.ID, roles.RoleEditor, 42, "approved"); err != nil {
		t.Fatalf("MarkComplete failed: %v", err)
	}
	// Second completion succeeds without changing the record.
	if err := scheduler.MarkComplete(ctx, episode.ID, roles.RoleEditor, 99, "duplicate"); err != nil {
		t.Fatalf("duplicate MarkComplete should not error: %v", err)
	}
	d, err := st.GetDeadline(ctx, episode.ID, roles.RoleEditor)
	if err != nil {
		t.Fatalf("GetDeadline failed: %v", err)
	}
	if d.CompletedBy != 42 {
		t.Fatalf("first completion should stick, got completed_by=%d", d.CompletedBy)
	}
}

func TestOverdueAndReminderWindows(t *testing.T) {
	due := time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC)
	d := &store.Deadline{DeadlineDate: due}

	if deadline.IsOverdue(d, due.Add(-time.Hour)) {
		t.Fatal("not overdue before the due date")
	}
	if !deadline.IsOverdue(d, due.Add(time.Hour)) {
		t.Fatal("overdue after the due date")
	}
	if deadline.ShouldRemind(d, due.Add(-48*time.Hour)) {
		t.Fatal("no reminder two days out")
	}
	if !deadline.ShouldRemind(d, due.Add(-12*time.Hour)) {
		t.Fatal("reminder inside the 24h window")
	}
	if deadline.ShouldRemind(d, due.Add(time.Hour)) {
		t.Fatal("no reminder after the due date")
	}

	d.IsCompleted = true
	if deadline.IsOverdue(d, due.Add(time.Hour)) || deadline.ShouldRemind(d, due.Add(-time.Hour)) {
		t.Fatal("completed deadlines neither remind nor go overdue")
	}
}
