package roles

import "greenroom/internal/stages"

// ownerTable maps each stage kind to the role that performs its work.
var ownerTable = map[stages.Kind]Role{
	stages.KindMusicArrangement: RoleMusicArranger,
	stages.KindCreativeWork:     RoleCreative,
	stages.KindProduksiWork:     RoleProduction,
	stages.KindEditorWork:       RoleEditor,
	stages.KindDesignGrafisWork: RoleGraphicDesign,
	stages.KindQualityControl:   RoleQualityControl,
	stages.KindBroadcastingWork: RoleBroadcasting,
	stages.KindPromotionWork:    RolePromotion,
}

// Owner returns the role responsible for a stage kind's work, or the empty
// role for unknown kinds.
func Owner(kind stages.Kind) Role {
	return ownerTable[kind]
}
