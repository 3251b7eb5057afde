package cvt

// AspectRatio is the closed set of aspect ratio categories the CVT standard
// assigns dedicated vertical sync widths to. Anything else falls back to
// AspectOther.
type AspectRatio int

const (
	AspectOther AspectRatio = iota
	Aspect4x3
	Aspect16x9
	Aspect16x10
	Aspect5x4
	Aspect15x9
)

func (a AspectRatio) String() string {
	switch a {
	case Aspect4x3:
		return "4:3"
	case Aspect16x9:
		return "16:9"
	case Aspect16x10:
		return "16:10"
	case Aspect5x4:
		return "5:4"
	case Aspect15x9:
		return "15:9"
	default:
		return "other"
	}
}

// vSyncWidth is the per-category vertical sync pulse width in lines from the
// CVT standard. Resolutions outside the recognized categories use the
// custom-aspect width.
var vSyncWidth = map[AspectRatio]int{
	Aspect4x3:   4,
	Aspect16x9:  5,
	Aspect16x10: 6,
	Aspect5x4:   7,
	Aspect15x9:  7,
	AspectOther: 10,
}

// ClassifyAspect maps an active resolution to its CVT aspect ratio category.
// The comparison is exact: 1360x768 is close to 16:9 but classifies as
// AspectOther, matching the standard.
func ClassifyAspect(hActive, vActive int) AspectRatio {
	switch {
	case vActive%3 == 0 && hActive == vActive/3*4:
		return Aspect4x3
	case vActive%9 == 0 && hActive == vActive/9*16:
		return Aspect16x9
	case vActive%10 == 0 && hActive == vActive/10*16:
		return Aspect16x10
	case vActive%4 == 0 && hActive == vActive/4*5:
		return Aspect5x4
	case vActive%9 == 0 && hActive == vActive/9*15:
		return Aspect15x9
	}
	return AspectOther
}

// verticalSyncWidth returns the sync pulse width in lines for a resolution.
func verticalSyncWidth(hActive, vActive int) int {
	return vSyncWidth[ClassifyAspect(hActive, vActive)]
}
