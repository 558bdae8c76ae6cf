package stages_test

import (
	"testing"

	"greenroom/internal/stages"
)

func TestParseKind(t *testing.T) {
	kind, ok := stages.ParseKind("  Editor_Work ")
	if !ok || kind != stages.KindEditorWork {
		t.Fatalf("ParseKind returned %q, %v", kind, ok)
	}
	if _, ok := stages.ParseKind("mastering"); ok {
		t.Fatal("expected unknown kind to fail parsing")
	}
	if _, ok := stages.ParseKind(""); ok {
		t.Fatal("expected empty kind to fail parsing")
	}
}

func TestKindOrdering(t *testing.T) {
	if stages.KindMusicArrangement.Order() != 0 {
		t.Fatalf("music arrangement should be first, got %d", stages.KindMusicArrangement.Order())
	}
	if !stages.KindQualityControl.Later(stages.KindEditorWork) {
		t.Fatal("quality control should come after editing")
	}
	if stages.KindCreativeWork.Later(stages.KindBroadcastingWork) {
		t.Fatal("creative should not come after broadcasting")
	}
	if stages.Kind("unknown").Later(stages.KindPromotionWork) {
		t.Fatal("unknown kind should never compare later")
	}
	if stages.Kind("unknown").Order() != -1 {
		t.Fatal("unknown kind should have order -1")
	}
}

func TestStatusLifecycle(t *testing.T) {
	status, ok := stages.ParseStatus("In_Review")
	if !ok || status != stages.StatusInReview {
		t.Fatalf("ParseStatus returned %q, %v", status, ok)
	}
	if !stages.StatusSubmitted.Reviewable() || !stages.StatusInReview.Reviewable() {
		t.Fatal("submitted and in_review should be reviewable")
	}
	if stages.StatusDraft.Reviewable() || stages.StatusNeedsHelp.Reviewable() {
		t.Fatal("draft and needs_help should not be reviewable")
	}
	if !stages.StatusApproved.Terminal() || !stages.StatusRejected.Terminal() {
		t.Fatal("approved and rejected should be terminal")
	}
	if stages.StatusNeedsHelp.Terminal() {
		t.Fatal("needs_help keeps the task alive")
	}
}
