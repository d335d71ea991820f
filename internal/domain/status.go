package domain

// AssetStatus is the lifecycle state of an asset.
type AssetStatus string

const (
	StatusAvailable   AssetStatus = "available"
	StatusAssigned    AssetStatus = "assigned"
	StatusMaintenance AssetStatus = "maintenance"
	StatusRetired     AssetStatus = "retired"
	StatusLost        AssetStatus = "lost"
	StatusDamaged     AssetStatus = "damaged"
)

// allowedTransitions is the authoritative adjacency list. No self-loops;
// retired is terminal.
var allowedTransitions = map[AssetStatus][]AssetStatus{
	StatusAvailable:   {StatusAssigned, StatusMaintenance, StatusDamaged, StatusLost},
	StatusAssigned:    {StatusAvailable, StatusMaintenance, StatusRetired, StatusDamaged, StatusLost},
	StatusMaintenance: {StatusAvailable, StatusRetired, StatusDamaged},
	StatusRetired:     {},
	StatusLost:        {StatusAvailable, StatusDamaged},
	StatusDamaged:     {StatusAvailable, StatusMaintenance, StatusRetired},
}

// ValidStatus reports whether s is a member of the status set.
func ValidStatus(s AssetStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether from → to is in the allowed-transition table.
func CanTransition(from, to AssetStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the legal destination statuses from a given state.
// Empty for retired.
func AllowedTargets(from AssetStatus) []AssetStatus {
	targets := allowedTransitions[from]
	out := make([]AssetStatus, len(targets))
	copy(out, targets)
	return out
}

// Reason codes accepted on a status change. A transition request must carry
// one of these; free text goes in the notes field.
const (
	ReasonAssignment           = "assignment"
	ReasonReturn               = "return"
	ReasonScheduledMaintenance = "scheduled_maintenance"
	ReasonRepair               = "repair"
	ReasonEndOfLife            = "end_of_life"
	ReasonDisposal             = "disposal"
	ReasonReportedLost         = "reported_lost"
	ReasonFound                = "found"
	ReasonDamageReport         = "damage_report"
	ReasonInspection           = "inspection"
)

var reasonCodes = map[string]bool{
	ReasonAssignment:           true,
	ReasonReturn:               true,
	ReasonScheduledMaintenance: true,
	ReasonRepair:               true,
	ReasonEndOfLife:            true,
	ReasonDisposal:             true,
	ReasonReportedLost:         true,
	ReasonFound:                true,
	ReasonDamageReport:         true,
	ReasonInspection:           true,
}

// ValidReason reports whether code is a recognized reason code.
func ValidReason(code string) bool {
	return reasonCodes[code]
}
