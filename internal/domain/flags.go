package domain

// Element flags describe the fate of a single observation.
const (
	FinalRejectFlag = 1 << 0 // excluded from assimilation
	BackRejectFlag  = 1 << 1 // rejected by background check
	PermRejectFlag  = 1 << 2 // on a permanent reject list
	BuddyRejectFlag = 1 << 3 // rejected by buddy check
)

// Profile flags describe relationships between levels of one profile.
const (
	SurplusFlag        = 1 << 8  // level duplicated elsewhere in the report
	InterpolationFlag  = 1 << 9  // retained, but conflicts with a neighbouring level
	HydrostaticFlag    = 1 << 10 // failed hydrostatic consistency
	SuperadiabaticFlag = 1 << 11 // superadiabatic lapse rate
)

// HasFlag reports whether all bits of flag are set in v.
func HasFlag(v, flag int) bool {
	return v&flag == flag
}
