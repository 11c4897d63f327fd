package analysis

// Thresholds carries the pass/fail bounds for one report generation. Every
// field is independently optional; nil leaves the matching verdict
// undefined.
type Thresholds struct {
	ForceMin    *float64
	ForceMax    *float64
	EndpointMin *float64
	EndpointMax *float64
	EnergyMin   *float64
	EnergyMax   *float64

	PressStartpoint *float64 // position where the analysis window begins
	PressThreshold  *float64 // trigger force, displayed only, never evaluated
}

// Metrics holds the derived, read-only results of one press cycle. Verdict
// pointers are nil when the matching criterion has no bounds configured.
type Metrics struct {
	PeakForce         float64 // kg
	PeakForcePosition float64 // mm, position at the first peak sample
	StartPosition     float64 // mm
	Endpoint          float64 // mm, position of the last sample (pre-override)
	Energy            float64 // joules
	DurationS         float64
	DataPoints        int

	ForcePass    *bool
	EndpointPass *bool
	EnergyPass   *bool
	OverallPass  *bool
	Reason       string
}
