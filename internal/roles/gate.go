package roles

import "greenroom/internal/stages"

// Action is a reviewer-side operation gated per stage.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// approverTable is the static per-stage allow-list consulted before any
// review mutation. Producer and Program Manager review most hand-offs;
// Quality Control work is reviewed only by Quality Control.
var approverTable = map[stages.Kind][]Role{
	stages.KindMusicArrangement: {RoleProducer, RoleProgramManager},
	stages.KindCreativeWork:     {RoleProducer, RoleProgramManager},
	stages.KindProduksiWork:     {RoleProducer, RoleProgramManager},
	stages.KindEditorWork:       {RoleProducer, RoleProgramManager},
	stages.KindDesignGrafisWork: {RoleProducer, RoleProgramManager},
	stages.KindQualityControl:   {RoleQualityControl},
	stages.KindBroadcastingWork: {RoleProducer, RoleProgramManager},
	stages.KindPromotionWork:    {RoleProducer, RoleProgramManager, RolePromotion},
}

// CanAct reports whether a role may perform the given review action on the
// stage kind. Unknown role/stage pairs return false rather than erroring;
// callers surface the authorization failure.
func CanAct(role Role, kind stages.Kind, action Action) bool {
	switch action {
	case ActionApprove, ActionReject:
	default:
		return false
	}
	allowed, ok := approverTable[kind]
	if !ok {
		return false
	}
	return IsMember(role, allowed)
}

// Approvers returns the allow-list for a stage kind.
func Approvers(kind stages.Kind) []Role {
	allowed := approverTable[kind]
	cp := make([]Role, len(allowed))
	copy(cp, allowed)
	return cp
}
