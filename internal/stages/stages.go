package stages

import "strings"

// Kind identifies one step in the fixed production pipeline. Each kind has
// its own stage task records; ordering follows the broadcast hand-off chain.
type Kind string

const (
	KindMusicArrangement Kind = "music_arrangement"
	KindCreativeWork     Kind = "creative_work"
	KindProduksiWork     Kind = "produksi_work"
	KindEditorWork       Kind = "editor_work"
	KindDesignGrafisWork Kind = "design_grafis_work"
	KindQualityControl   Kind = "quality_control_work"
	KindBroadcastingWork Kind = "broadcasting_work"
	KindPromotionWork    Kind = "promotion_work"
)

// pipelineOrder is the fixed stage ordering used for monotonic episode
// advancement. Lower index means earlier in the pipeline.
var pipelineOrder = []Kind{
	KindMusicArrangement,
	KindCreativeWork,
	KindProduksiWork,
	KindEditorWork,
	KindDesignGrafisWork,
	KindQualityControl,
	KindBroadcastingWork,
	KindPromotionWork,
}

var kindIndex = func() map[Kind]int {
	idx := make(map[Kind]int, len(pipelineOrder))
	for i, kind := range pipelineOrder {
		idx[kind] = i
	}
	return idx
}()

// AllKinds returns the ordered list of pipeline stage kinds.
func AllKinds() []Kind {
	cp := make([]Kind, len(pipelineOrder))
	copy(cp, pipelineOrder)
	return cp
}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := kindIndex[normalized]
	return normalized, ok
}

// Order returns the pipeline position of a kind, or -1 for unknown kinds.
func (k Kind) Order() int {
	idx, ok := kindIndex[k]
	if !ok {
		return -1
	}
	return idx
}

// Later reports whether k comes strictly after other in the pipeline.
// Unknown kinds never compare later than anything.
func (k Kind) Later(other Kind) bool {
	ki, ok := kindIndex[k]
	if !ok {
		return false
	}
	oi, ok := kindIndex[other]
	if !ok {
		return true
	}
	return ki > oi
}

// Label returns a human-readable stage name for CLI and notification output.
func (k Kind) Label() string {
	switch k {
	case KindMusicArrangement:
		return "Music Arrangement"
	case KindCreativeWork:
		return "Creative"
	case KindProduksiWork:
		return "Production"
	case KindEditorWork:
		return "Editing"
	case KindDesignGrafisWork:
		return "Graphic Design"
	case KindQualityControl:
		return "Quality Control"
	case KindBroadcastingWork:
		return "Broadcasting"
	case KindPromotionWork:
		return "Promotion"
	default:
		return string(k)
	}
}
