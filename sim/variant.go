package sim

// PlatformVariant selects the footprint and look of a spawned platform.
// Widths are intrinsic to the variant; vertical placement is not.
type PlatformVariant uint8

const (
	PlatformSmall PlatformVariant = iota
	PlatformWide
	PlatformEmberSingle
	PlatformEmberDouble
	PlatformEmberTriple
	// PlatformCrest is reserved for the final placement of a hazard run.
	PlatformCrest
)

func (v PlatformVariant) String() string {
	switch v {
	case PlatformSmall:
		return "small"
	case PlatformWide:
		return "wide"
	case PlatformEmberSingle:
		return "ember1"
	case PlatformEmberDouble:
		return "ember2"
	case PlatformEmberTriple:
		return "ember3"
	case PlatformCrest:
		return "crest"
	}
	return "unknown"
}

func (v PlatformVariant) Width() float64 {
	switch v {
	case PlatformWide:
		return 150
	case PlatformEmberSingle:
		return 110
	case PlatformEmberDouble:
		return 130
	case PlatformEmberTriple:
		return 150
	case PlatformCrest:
		return 120
	}
	return 90
}

// platformCycle is the repeating variant order used while a hazard run
// progresses. PlatformCrest is excluded; it only tops off a run.
var platformCycle = []PlatformVariant{
	PlatformSmall,
	PlatformWide,
	PlatformEmberSingle,
	PlatformSmall,
	PlatformEmberDouble,
	PlatformWide,
	PlatformEmberTriple,
}

// VariantAt returns the cycle entry for the i-th spawned platform.
func VariantAt(i int) PlatformVariant {
	if i < 0 {
		i = 0
	}
	return platformCycle[i%len(platformCycle)]
}

// HoleKind tags where a hole sits inside its run.
type HoleKind uint8

const (
	HoleEntry HoleKind = iota
	HoleFull
	HoleExit
)

func (k HoleKind) String() string {
	switch k {
	case HoleEntry:
		return "entry"
	case HoleFull:
		return "full"
	case HoleExit:
		return "exit"
	}
	return "unknown"
}
