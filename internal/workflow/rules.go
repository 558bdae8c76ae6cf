package workflow

import (
	"greenroom/internal/roles"
	"greenroom/internal/stages"
)

// Target describes one downstream stage task a rule provisions.
type Target struct {
	Kind     stages.Kind
	WorkType stages.WorkType
	Role     roles.Role
}

// Rule fires when a stage task of Source reaches Trigger status and
// provisions every Target that does not already exist.
type Rule struct {
	Source  stages.Kind
	Trigger stages.Status
	Targets []Target
}

// defaultRules is the declarative transition table for the fixed broadcast
// pipeline. Promotion fan-out for editing fires on submission so promo teams
// start while review is still under way; everything else fires on approval.
var defaultRules = []Rule{
	{
		Source:  stages.KindMusicArrangement,
		Trigger: stages.StatusApproved,
		Targets: []Target{
			{Kind: stages.KindCreativeWork, Role: roles.RoleCreative},
		},
	},
	{
		Source:  stages.KindCreativeWork,
		Trigger: stages.StatusApproved,
		Targets: []Target{
			{Kind: stages.KindProduksiWork, Role: roles.RoleProduction},
		},
	},
	{
		Source:  stages.KindProduksiWork,
		Trigger: stages.StatusApproved,
		Targets: []Target{
			{Kind: stages.KindEditorWork, Role: roles.RoleEditor},
			{Kind: stages.KindDesignGrafisWork, WorkType: stages.WorkTypeThumbnailYoutube, Role: roles.RoleGraphicDesign},
		},
	},
	{
		Source:  stages.KindEditorWork,
		Trigger: stages.StatusSubmitted,
		Targets: []Target{
			{Kind: stages.KindPromotionWork, WorkType: stages.WorkTypeBTSVideo, Role: roles.RolePromotion},
			{Kind: stages.KindPromotionWork, WorkType: stages.WorkTypeHighlightIG, Role: roles.RolePromotion},
			{Kind: stages.KindPromotionWork, WorkType: stages.WorkTypeHighlightTV, Role: roles.RolePromotion},
			{Kind: stages.KindPromotionWork, WorkType: stages.WorkTypeHighlightFB, Role: roles.RolePromotion},
		},
	},
	{
		Source:  stages.KindEditorWork,
		Trigger: stages.StatusApproved,
		Targets: []Target{
			{Kind: stages.KindQualityControl, Role: roles.RoleQualityControl},
		},
	},
	{
		Source:  stages.KindQualityControl,
		Trigger: stages.StatusApproved,
		Targets: []Target{
			{Kind: stages.KindBroadcastingWork, Role: roles.RoleBroadcasting},
		},
	},
	{
		Source:  stages.KindBroadcastingWork,
		Trigger: stages.StatusApproved,
		Targets: []Target{
			{Kind: stages.KindPromotionWork, WorkType: stages.WorkTypeShareFB, Role: roles.RolePromotion},
			{Kind: stages.KindPromotionWork, WorkType: stages.WorkTypeStoryIG, Role: roles.RolePromotion},
			{Kind: stages.KindPromotionWork, WorkType: stages.WorkTypeReelsFB, Role: roles.RolePromotion},
		},
	},
}

// DefaultRules returns the transition table for the fixed pipeline.
func DefaultRules() []Rule {
	cp := make([]Rule, len(defaultRules))
	copy(cp, defaultRules)
	return cp
}

type ruleKey struct {
	source  stages.Kind
	trigger stages.Status
}

func indexRules(rules []Rule) map[ruleKey][]Target {
	idx := make(map[ruleKey][]Target, len(rules))
	for _, rule := range rules {
		key := ruleKey{source: rule.Source, trigger: rule.Trigger}
		idx[key] = append(idx[key], rule.Targets...)
	}
	return idx
}
