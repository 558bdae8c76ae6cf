package stages

import "strings"

// Status represents the lifecycle of a stage task. Every kind follows the
// same contract: draft → submitted → in_review → approved|rejected, with
// rejected optionally detouring through needs_help and back to submitted.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusNeedsHelp Status = "needs_help"
)

var allStatuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusInReview,
	StatusApproved,
	StatusRejected,
	StatusNeedsHelp,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Reviewable reports whether a task in this status can be approved or rejected.
func (s Status) Reviewable() bool {
	return s == StatusSubmitted || s == StatusInReview
}

// Terminal reports whether the status ends the task's lifecycle. A rejected
// task is terminal unless the help path is taken.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// WorkType is the sub-tag distinguishing fan-out siblings of the same kind.
// Single-task kinds use the empty work type.
type WorkType string

const (
	WorkTypeNone             WorkType = ""
	WorkTypeThumbnailYoutube WorkType = "thumbnail_youtube"
	WorkTypeBTSVideo         WorkType = "bts_video"
	WorkTypeHighlightIG      WorkType = "highlight_ig"
	WorkTypeHighlightTV      WorkType = "highlight_tv"
	WorkTypeHighlightFB      WorkType = "highlight_facebook"
	WorkTypeShareFB          WorkType = "share_facebook"
	WorkTypeStoryIG          WorkType = "story_ig"
	WorkTypeReelsFB          WorkType = "reels_facebook"
)
