package roles

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is a canonical role key. Unrecognized inputs pass through Normalize
// unchanged, so a Role may also carry a custom role outside the closed set.
type Role string

const (
	RoleMusicArranger  Role = "music_arranger"
	RoleSoundEngineer  Role = "sound_engineer"
	RoleCreative       Role = "creative"
	RoleProduction     Role = "production"
	RoleProducer       Role = "producer"
	RoleProgramManager Role = "program_manager"
	RoleEditor         Role = "editor"
	RoleGraphicDesign  Role = "graphic_design"
	RoleArtSetDesign   Role = "art_set_design"
	RoleQualityControl Role = "quality_control"
	RoleBroadcasting   Role = "broadcasting"
	RolePromotion      Role = "promotion"
	RoleVPPresident    Role = "vp_president"
)

var canonicalRoles = []Role{
	RoleMusicArranger,
	RoleSoundEngineer,
	RoleCreative,
	RoleProduction,
	RoleProducer,
	RoleProgramManager,
	RoleEditor,
	RoleGraphicDesign,
	RoleArtSetDesign,
	RoleQualityControl,
	RoleBroadcasting,
	RolePromotion,
	RoleVPPresident,
}

var canonicalSet = func() map[Role]struct{} {
	set := make(map[Role]struct{}, len(canonicalRoles))
	for _, role := range canonicalRoles {
		set[role] = struct{}{}
	}
	return set
}()

// variantTable maps known misspellings and naming variants, lowercased, to
// their canonical role. Entries come from role strings observed in
// production data; extend it as new variants surface.
var variantTable = map[string]Role{
	"music arranger":   RoleMusicArranger,
	"music arrangger":  RoleMusicArranger,
	"arranger":         RoleMusicArranger,
	"sound engineer":   RoleSoundEngineer,
	"sound enginer":    RoleSoundEngineer,
	"creative":         RoleCreative,
	"kreatif":          RoleCreative,
	"creatif":          RoleCreative,
	"production":       RoleProduction,
	"produksi":         RoleProduction,
	"producer":         RoleProducer,
	"produser":         RoleProducer,
	"program manager":  RoleProgramManager,
	"program manajer":  RoleProgramManager,
	"editor":           RoleEditor,
	"editting":         RoleEditor,
	"graphic design":   RoleGraphicDesign,
	"design grafis":    RoleGraphicDesign,
	"desain grafis":    RoleGraphicDesign,
	"art & set design": RoleArtSetDesign,
	"art and set design": RoleArtSetDesign,
	"art & set properti": RoleArtSetDesign,
	"quality control":  RoleQualityControl,
	"qualiti control":  RoleQualityControl,
	"qc":               RoleQualityControl,
	"broadcasting":     RoleBroadcasting,
	"broadcast":        RoleBroadcasting,
	"promotion":        RolePromotion,
	"prmotion":         RolePromotion,
	"promosi":          RolePromotion,
	"vp president":     RoleVPPresident,
	"vice president":   RoleVPPresident,
	"vice presdent":    RoleVPPresident,
}

// Normalize performs case-insensitive lookup against the known variant table
// and returns the canonical role. Unmapped input is returned unchanged with
// only whitespace collapsed, treated as a possibly-custom role rather than an
// error.
func Normalize(value string) Role {
	collapsed := strings.Join(strings.Fields(value), " ")
	if collapsed == "" {
		return ""
	}
	lowered := strings.ToLower(collapsed)
	if role, ok := variantTable[lowered]; ok {
		return role
	}
	// Canonical keys round-trip, with either underscores or spaces.
	keyed := Role(strings.ReplaceAll(lowered, " ", "_"))
	if _, ok := canonicalSet[keyed]; ok {
		return keyed
	}
	return Role(collapsed)
}

// Canonical reports whether the role belongs to the closed canonical set.
func (r Role) Canonical() bool {
	_, ok := canonicalSet[r]
	return ok
}

// IsMember reports whether role is in the given role set.
func IsMember(role Role, set []Role) bool {
	for _, candidate := range set {
		if candidate == role {
			return true
		}
	}
	return false
}

// Label returns a display name for the role.
func (r Role) Label() string {
	switch r {
	case RoleVPPresident:
		return "VP President"
	case RoleQualityControl:
		return "Quality Control"
	case RoleArtSetDesign:
		return "Art & Set Design"
	default:
		return cases.Title(language.Und).String(strings.ReplaceAll(string(r), "_", " "))
	}
}

// AllRoles returns the closed canonical role set.
func AllRoles() []Role {
	cp := make([]Role, len(canonicalRoles))
	copy(cp, canonicalRoles)
	return cp
}
