package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/deadline"
	"greenroom/internal/roles"
	"greenroom/internal/stages"
	"greenroom/internal/store"
	"greenroom/internal/testsupport"
	"greenroom/internal/workflow"
)

type fixture struct {
	cfg      *config.Config
	store    *store.Store
	engine   *workflow.Engine
	episode  *store.Episode
	producer int64
	qc       int64
	users    map[roles.Role]int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	scheduler := deadline.NewScheduler(st, cfg, nil)
	engine := workflow.NewEngine(st, scheduler, cfg, nil)

	users := make(map[roles.Role]int64)
	for _, role := range []roles.Role{
		roles.RoleMusicArranger,
		roles.RoleCreative,
		roles.RoleProduction,
		roles.RoleEditor,
		roles.RoleGraphicDesign,
		roles.RoleBroadcasting,
		roles.RolePromotion,
	} {
		users[role] = testsupport.SeedTeamMember(t, st, "morning-show", string(role), role)
	}
	producer := testsupport.SeedUser(t, st, "Producer", roles.RoleProducer)
	qc := testsupport.SeedUser(t, st, "QC", roles.RoleQualityControl)

	episode, err := engine.CreateEpisode(context.Background(), "morning-show", 1, "Pilot", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CreateEpisode failed: %v", err)
	}

	return &fixture{
		cfg:      cfg,
		store:    st,
		engine:   engine,
		episode:  episode,
		producer: producer,
		qc:       qc,
		users:    users,
	}
}

// runStage creates (unless it already exists), submits, and approves the
// task for the given kind, returning the approved task.
func (f *fixture) runStage(t *testing.T, kind stages.Kind, workType stages.WorkType, reviewer int64) *store.StageTask {
	t.Helper()

	ctx := context.Background()
	task, err := f.store.GetTaskByKey(ctx, f.episode.ID, kind, workType)
	if err != nil {
		t.Fatalf("GetTaskByKey(%s) failed: %v", kind, err)
	}
	if task == nil {
		task, err = f.engine.CreateTask(ctx, f.episode.ID, kind, workType, f.users[roles.Owner(kind)], "")
		if err != nil {
			t.Fatalf("CreateTask(%s) failed: %v", kind, err)
		}
	}
	if task.Status == stages.StatusDraft {
		if task, err = f.engine.Submit(ctx, task.ID, task.CreatedBy); err != nil {
			t.Fatalf("Submit(%s) failed: %v", kind, err)
		}
	}
	task, err = f.engine.Approve(ctx, task.ID, reviewer, "")
	if err != nil {
		t.Fatalf("Approve(%s) failed: %v", kind, err)
	}
	return task
}

func TestCreateEpisodeGeneratesDeadlines(t *testing.T) {
	f := newFixture(t)

	deadlines, err := f.store.DeadlinesByEpisode(context.Background(), f.episode.ID)
	if err != nil {
		t.Fatalf("DeadlinesByEpisode failed: %v", err)
	}
	if len(deadlines) != 6 {
		t.Fatalf("expected 6 deadlines, got %d", len(deadlines))
	}
}

func TestCreateEpisodeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.engine.CreateEpisode(ctx, "", 1, "", time.Now()); !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("missing program should fail validation, got %v", err)
	}
	if _, err := f.engine.CreateEpisode(ctx, "morning-show", 0, "", time.Now()); !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("zero episode number should fail validation, got %v", err)
	}
	if _, err := f.engine.CreateEpisode(ctx, "morning-show", 2, "", time.Time{}); !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("zero air date should fail validation, got %v", err)
	}
}

func TestApprovalChainsThroughThePipeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.runStage(t, stages.KindMusicArrangement, stages.WorkTypeNone, f.producer)

	// Approval of music arrangement provisions creative work.
	creative, err := f.store.GetTaskByKey(ctx, f.episode.ID, stages.KindCreativeWork, stages.WorkTypeNone)
	if err != nil || creative == nil {
		t.Fatalf("creative task not provisioned: %v %v", creative, err)
	}
	if creative.Status != stages.StatusDraft {
		t.Fatalf("provisioned task should start as draft, got %s", creative.Status)
	}
	if creative.CreatedBy != f.users[roles.RoleCreative] {
		t.Fatalf("creative task should be assigned to the team creative, got %d", creative.CreatedBy)
	}

	episode, _ := f.store.GetEpisode(ctx, f.episode.ID)
	if episode.CurrentStage != stages.KindCreativeWork {
		t.Fatalf("episode should advance to creative work, got %s", episode.CurrentStage)
	}

	// Music arranger's deadline closes on approval.
	d, err := f.store.GetDeadline(ctx, f.episode.ID, roles.RoleMusicArranger)
	if err != nil {
		t.Fatalf("GetDeadline failed: %v", err)
	}
	if !d.IsCompleted {
		t.Fatal("music arranger deadline should complete on approval")
	}

	f.runStage(t, stages.KindCreativeWork, stages.WorkTypeNone, f.producer)
	f.runStage(t, stages.KindProduksiWork, stages.WorkTypeNone, f.producer)

	// Production approval fans out editing plus the thumbnail design task.
	editor, _ := f.store.GetTaskByKey(ctx, f.episode.ID, stages.KindEditorWork, stages.WorkTypeNone)
	design, _ := f.store.GetTaskByKey(ctx, f.episode.ID, stages.KindDesignGrafisWork, stages.WorkTypeThumbnailYoutube)
	if editor == nil || design == nil {
		t.Fatal("production approval should provision editing and thumbnail design")
	}
	episode, _ = f.store.GetEpisode(ctx, f.episode.ID)
	if episode.CurrentStage != stages.KindEditorWork {
		t.Fatalf("episode pointer should follow the editing stage, got %s", episode.CurrentStage)
	}

	f.runStage(t, stages.KindEditorWork, stages.WorkTypeNone, f.producer)
	f.runStage(t, stages.KindQualityControl, stages.WorkTypeNone, f.qc)
	f.runStage(t, stages.KindBroadcastingWork, stages.WorkTypeNone, f.producer)

	// Broadcasting approval fans out the post-air promotion set.
	for _, wt := range []stages.WorkType{stages.WorkTypeShareFB, stages.WorkTypeStoryIG, stages.WorkTypeReelsFB} {
		task, err := f.store.GetTaskByKey(ctx, f.episode.ID, stages.KindPromotionWork, wt)
		if err != nil || task == nil {
			t.Fatalf("promotion task %s not provisioned: %v", wt, err)
		}
	}

	episode, _ = f.store.GetEpisode(ctx, f.episode.ID)
	if episode.CurrentStage != stages.KindPromotionWork {
		t.Fatalf("episode should end at promotion, got %s", episode.CurrentStage)
	}

	transitions, err := f.store.TransitionsByEpisode(ctx, f.episode.ID)
	if err != nil {
		t.Fatalf("TransitionsByEpisode failed: %v", err)
	}
	if len(transitions) == 0 {
		t.Fatal("expected audit rows for the approval chain")
	}
	for _, tr := range transitions {
		if tr.RequestID == "" {
			t.Fatal("every transition should carry a request id")
		}
	}
}

func TestEditorSubmissionFansOutPromotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload := `{"file_link":"https://drive.example/edit-v1"}`
	task, err := f.engine.CreateTask(ctx, f.episode.ID, stages.KindEditorWork, stages.WorkTypeNone, f.users[roles.RoleEditor], payload)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := f.engine.Submit(ctx, task.ID, f.users[roles.RoleEditor]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	wanted := []stages.WorkType{
		stages.WorkTypeBTSVideo,
		stages.WorkTypeHighlightIG,
		stages.WorkTypeHighlightTV,
		stages.WorkTypeHighlightFB,
	}
	for _, wt := range wanted {
		promo, err := f.store.GetTaskByKey(ctx, f.episode.ID, stages.KindPromotionWork, wt)
		if err != nil || promo == nil {
			t.Fatalf("promotion task %s not provisioned: %v", wt, err)
		}
		if promo.PayloadJSON != payload {
			t.Fatalf("promotion task should inherit the editor payload, got %q", promo.PayloadJSON)
		}
		if promo.CreatedBy != f.users[roles.RolePromotion] {
			t.Fatalf("promotion task should be assigned to promotion, got %d", promo.CreatedBy)
		}
	}

	// Submission does not move the episode pointer out of editing.
	episode, _ := f.store.GetEpisode(ctx, f.episode.ID)
	if episode.CurrentStage == stages.KindPromotionWork {
		t.Fatal("submission fan-out should not advance the episode to promotion")
	}
}

func TestDuplicateTriggerDoesNotDuplicateTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.engine.CreateTask(ctx, f.episode.ID, stages.KindEditorWork, stages.WorkTypeNone, f.users[roles.RoleEditor], "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := f.engine.Submit(ctx, task.ID, f.users[roles.RoleEditor]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Reject, take the help loop, and re-submit: the submitted trigger fires
	// again but the promotion tasks already exist.
	if _, err := f.engine.Reject(ctx, task.ID, f.producer, "pacing is off"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if _, err := f.engine.RequestHelp(ctx, task.ID, roles.RoleGraphicDesign, "fix the pacing"); err != nil {
		t.Fatalf("RequestHelp failed: %v", err)
	}
	if _, err := f.engine.MarkHelpDone(ctx, task.ID, f.users[roles.RoleEditor], "re-cut"); err != nil {
		t.Fatalf("MarkHelpDone failed: %v", err)
	}

	promos, err := f.store.TasksByKind(ctx, f.episode.ID, stages.KindPromotionWork)
	if err != nil {
		t.Fatalf("TasksByKind failed: %v", err)
	}
	if len(promos) != 4 {
		t.Fatalf("expected exactly 4 promotion tasks after replayed trigger, got %d", len(promos))
	}
}

func TestRejectionBlocksFanOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.engine.CreateTask(ctx, f.episode.ID, stages.KindMusicArrangement, stages.WorkTypeNone, f.users[roles.RoleMusicArranger], "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := f.engine.Submit(ctx, task.ID, f.users[roles.RoleMusicArranger]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	rejected, err := f.engine.Reject(ctx, task.ID, f.producer, "wrong tempo")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != stages.StatusRejected || rejected.RejectionReason != "wrong tempo" {
		t.Fatalf("unexpected rejected task: %#v", rejected)
	}

	creative, err := f.store.GetTaskByKey(ctx, f.episode.ID, stages.KindCreativeWork, stages.WorkTypeNone)
	if err != nil {
		t.Fatalf("GetTaskByKey failed: %v", err)
	}
	if creative != nil {
		t.Fatal("rejection must not provision downstream work")
	}

	// Rejection requires a reason.
	if _, err := f.engine.Reject(ctx, task.ID, f.producer, ""); !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("empty reason should fail validation, got %v", err)
	}
}

func TestHelpLoopPreservesRejectionUntilDone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.engine.CreateTask(ctx, f.episode.ID, stages.KindDesignGrafisWork, stages.WorkTypeThumbnailYoutube, f.users[roles.RoleGraphicDesign], "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := f.engine.Submit(ctx, task.ID, f.users[roles.RoleGraphicDesign]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := f.engine.Reject(ctx, task.ID, f.producer, "wrong aspect ratio"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	// Help can only be requested on rejected tasks.
	helped, err := f.engine.RequestHelp(ctx, task.ID, roles.RoleCreative, "need a new crop")
	if err != nil {
		t.Fatalf("RequestHelp failed: %v", err)
	}
	if helped.Status != stages.StatusNeedsHelp {
		t.Fatalf("expected needs_help, got %s", helped.Status)
	}
	if helped.HelperRole != roles.RoleCreative || helped.HelperUser != f.users[roles.RoleCreative] {
		t.Fatalf("helper not resolved: %q %d", helped.HelperRole, helped.HelperUser)
	}
	if helped.RejectionReason != "wrong aspect ratio" {
		t.Fatal("rejection reason should survive the help request")
	}

	done, err := f.engine.MarkHelpDone(ctx, task.ID, f.users[roles.RoleCreative], "re-cropped")
	if err != nil {
		t.Fatalf("MarkHelpDone failed: %v", err)
	}
	if done.Status != stages.StatusSubmitted {
		t.Fatalf("expected submitted after help done, got %s", done.Status)
	}
	if done.RejectionReason != "" {
		t.Fatal("rejection reason should clear on help done")
	}

	// Help cannot be requested twice in a row.
	if _, err := f.engine.RequestHelp(ctx, task.ID, roles.RoleCreative, ""); !errors.Is(err, workflow.ErrInvalidState) {
		t.Fatalf("help on a submitted task should fail, got %v", err)
	}
}

func TestAuthorizationLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.engine.CreateTask(ctx, f.episode.ID, stages.KindMusicArrangement, stages.WorkTypeNone, f.users[roles.RoleMusicArranger], "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := f.engine.Submit(ctx, task.ID, f.users[roles.RoleMusicArranger]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// The stage owner cannot approve their own stage.
	if _, err := f.engine.Approve(ctx, task.ID, f.users[roles.RoleMusicArranger], ""); !errors.Is(err, workflow.ErrAuthorization) {
		t.Fatalf("owner approval should fail authorization, got %v", err)
	}
	// Unknown reviewers fail authorization too.
	if _, err := f.engine.Approve(ctx, task.ID, 9999, ""); !errors.Is(err, workflow.ErrAuthorization) {
		t.Fatalf("unknown reviewer should fail authorization, got %v", err)
	}

	fetched, err := f.store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if fetched.Status != stages.StatusSubmitted || fetched.ReviewedBy != 0 {
		t.Fatalf("failed authorization must leave the task untouched: %#v", fetched)
	}
}

func TestInvalidStateTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.engine.CreateTask(ctx, f.episode.ID, stages.KindMusicArrangement, stages.WorkTypeNone, f.users[roles.RoleMusicArranger], "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	// A draft cannot be approved, rejected, or helped.
	if _, err := f.engine.Approve(ctx, task.ID, f.producer, ""); !errors.Is(err, workflow.ErrInvalidState) {
		t.Fatalf("approving a draft should fail, got %v", err)
	}
	if _, err := f.engine.Reject(ctx, task.ID, f.producer, "nope"); !errors.Is(err, workflow.ErrInvalidState) {
		t.Fatalf("rejecting a draft should fail, got %v", err)
	}
	if _, err := f.engine.RequestHelp(ctx, task.ID, roles.RoleCreative, ""); !errors.Is(err, workflow.ErrInvalidState) {
		t.Fatalf("help on a draft should fail, got %v", err)
	}

	if _, err := f.engine.Submit(ctx, task.ID, f.users[roles.RoleMusicArranger]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	// A submitted task cannot be submitted again.
	if _, err := f.engine.Submit(ctx, task.ID, f.users[roles.RoleMusicArranger]); !errors.Is(err, workflow.ErrInvalidState) {
		t.Fatalf("double submit should fail, got %v", err)
	}

	// Unknown tasks surface not-found.
	if _, err := f.engine.Submit(ctx, 9999, 1); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("missing task should fail with not found, got %v", err)
	}
}

func TestStartReviewPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.engine.CreateTask(ctx, f.episode.ID, stages.KindCreativeWork, stages.WorkTypeNone, f.users[roles.RoleCreative], "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := f.engine.Submit(ctx, task.ID, f.users[roles.RoleCreative]); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	inReview, err := f.engine.StartReview(ctx, task.ID, f.producer)
	if err != nil {
		t.Fatalf("StartReview failed: %v", err)
	}
	if inReview.Status != stages.StatusInReview || inReview.ReviewedBy != f.producer {
		t.Fatalf("unexpected in-review task: %#v", inReview)
	}

	// Approval works from in_review too.
	approved, err := f.engine.Approve(ctx, task.ID, f.producer, "looks good")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.Status != stages.StatusApproved || approved.ReviewNotes != "looks good" {
		t.Fatalf("unexpected approved task: %#v", approved)
	}
	if approved.ReviewedAt == nil {
		t.Fatal("approval should stamp reviewed_at")
	}
}

func TestUnassignedFanOutStillCreatesTasks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	scheduler := deadline.NewScheduler(st, cfg, nil)
	engine := workflow.NewEngine(st, scheduler, cfg, nil)

	ctx := context.Background()
	producer := testsupport.SeedUser(t, st, "Producer", roles.RoleProducer)
	arranger := testsupport.SeedUser(t, st, "Arranger", roles.RoleMusicArranger)

	episode, err := engine.CreateEpisode(ctx, "morning-show", 1, "", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CreateEpisode failed: %v", err)
	}
	task, err := engine.CreateTask(ctx, episode.ID, stages.KindMusicArrangement, stages.WorkTypeNone, arranger, "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := engine.Submit(ctx, task.ID, arranger); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := engine.Approve(ctx, task.ID, producer, ""); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	// No creative user exists anywhere: the task is still provisioned,
	// just unassigned.
	creative, err := st.GetTaskByKey(ctx, episode.ID, stages.KindCreativeWork, stages.WorkTypeNone)
	if err != nil || creative == nil {
		t.Fatalf("creative task not provisioned: %v %v", creative, err)
	}
	if creative.CreatedBy != 0 {
		t.Fatalf("expected unassigned task, got created_by=%d", creative.CreatedBy)
	}
}

func TestApprovalEnqueuesTaskNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.runStage(t, stages.KindMusicArrangement, stages.WorkTypeNone, f.producer)

	pending, err := f.store.PendingNotifications(ctx, 50)
	if err != nil {
		t.Fatalf("PendingNotifications failed: %v", err)
	}
	found := false
	for _, n := range pending {
		if n.Type == "task_created" && n.UserID == f.users[roles.RoleCreative] {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a task_created notification for the creative assignee")
	}
}
