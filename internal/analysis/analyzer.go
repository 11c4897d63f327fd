package analysis

import (
	"math"
	"strings"

	"github.com/user/press_report_go/internal/parser"
)

// gravity converts kgf to newtons in the fallback energy integration.
const gravity = 9.81

// Reason strings produced by overall verdict aggregation.
const (
	ReasonNoThresholds = "No thresholds defined"
	ReasonAllMet       = "All thresholds met"

	failedReasonPrefix = "Failed: "
)

// CheckBounds evaluates value against an optional inclusive [min, max]
// interval: nil when both bounds are absent, false when a present bound is
// violated, true otherwise. Equality with a bound passes.
func CheckBounds(value float64, minVal, maxVal *float64) *bool {
	if minVal == nil && maxVal == nil {
		return nil
	}
	pass := true
	if minVal != nil && value < *minVal {
		pass = false
	}
	if maxVal != nil && value > *maxVal {
		pass = false
	}
	return &pass
}

// AggregateOverall folds the three per-criterion verdicts into one overall
// verdict, ignoring undefined criteria. When nothing is defined the overall
// verdict is undefined too. successReason lets each caller keep its own
// success wording.
func AggregateOverall(forcePass, endpointPass, energyPass *bool, successReason string) (*bool, string) {
	checks := []struct {
		name string
		pass *bool
	}{
		{"force", forcePass},
		{"endpoint", endpointPass},
		{"energy", energyPass},
	}

	defined := false
	var failed []string
	for _, c := range checks {
		if c.pass == nil {
			continue
		}
		defined = true
		if !*c.pass {
			failed = append(failed, c.name)
		}
	}

	if !defined {
		return nil, ReasonNoThresholds
	}
	pass := len(failed) == 0
	if !pass {
		return &pass, failedReasonPrefix + strings.Join(failed, ", ")
	}
	return &pass, successReason
}

// CalculateMetrics derives the scalar cycle metrics from a parsed log and
// evaluates them against the configured thresholds. It never fails: an empty
// log yields zeroed metrics with no verdicts computed.
func CalculateMetrics(data *parser.PressLog, th Thresholds) Metrics {
	if data.Len() == 0 {
		return Metrics{}
	}

	m := Metrics{
		StartPosition: data.Positions[0],
		Endpoint:      data.Positions[data.Len()-1],
		DataPoints:    data.Len(),
		DurationS:     data.Times[data.Len()-1] - data.Times[0],
	}

	// First occurrence of the maximum force wins ties.
	m.PeakForce = data.Forces[0]
	m.PeakForcePosition = data.Positions[0]
	for i, f := range data.Forces {
		if f > m.PeakForce {
			m.PeakForce = f
			m.PeakForcePosition = data.Positions[i]
		}
	}

	m.Energy = cycleEnergy(data)

	m.ForcePass = CheckBounds(m.PeakForce, th.ForceMin, th.ForceMax)
	m.EndpointPass = CheckBounds(m.Endpoint, th.EndpointMin, th.EndpointMax)
	m.EnergyPass = CheckBounds(m.Energy, th.EnergyMin, th.EnergyMax)
	m.OverallPass, m.Reason = AggregateOverall(m.ForcePass, m.EndpointPass, m.EnergyPass, ReasonAllMet)

	return m
}

// cycleEnergy prefers the logged energy channel: it is a cumulative running
// total, so the last value is the cycle total. Without one it integrates
// average force (kgf to N) over absolute displacement (mm to m); back and
// forth travel counts as positive work in both directions.
func cycleEnergy(data *parser.PressLog) float64 {
	if len(data.Energies) > 0 {
		return data.Energies[len(data.Energies)-1]
	}
	energy := 0.0
	for i := 1; i < data.Len(); i++ {
		avgForceN := (data.Forces[i] + data.Forces[i-1]) / 2 * gravity
		distM := math.Abs(data.Positions[i]-data.Positions[i-1]) / 1000
		energy += avgForceN * distM
	}
	return energy
}
