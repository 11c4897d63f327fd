package report

import (
	"fmt"
	"time"

	"github.com/user/press_report_go/internal/analysis"
	"github.com/user/press_report_go/internal/parser"
)

// reasonChecksPassed is the success wording used when the overall verdict
// was recomputed with the controller's authoritative endpoint. The distinct
// string marks reports whose verdict was revised by external telemetry.
const reasonChecksPassed = "All checks passed"

// Metadata carries the operator-supplied identifying strings for a report.
// Empty fields receive the firmware defaults during generation.
type Metadata struct {
	Title           string
	SerialNumber    string
	JobNumber       string
	OpNumber        string
	DeviceName      string
	FirmwareVersion string
	AppVersion      string
	ForceMode       string
}

// Context is the immutable structure handed to a renderer. Every field is
// fixed at assembly time; renderers only read it.
type Context struct {
	Title           string
	SerialNumber    string
	JobNumber       string
	OpNumber        string
	DeviceName      string
	FirmwareVersion string
	AppVersion      string
	ForceMode       string // display label, e.g. "Load Cell"
	Date            string
	Time            string
	Duration        string // e.g. "1.24s"
	GeneratedAt     string

	PeakForce         float64
	PeakForcePosition float64
	StartPosition     float64
	Endpoint          float64 // authoritative value when an override was given
	Energy            float64
	DurationS         float64
	DataPoints        int

	ForcePass    *bool
	EndpointPass *bool
	EnergyPass   *bool
	OverallPass  *bool
	Reason       string

	Thresholds analysis.Thresholds
	Gauge      EnergyScale
	Chart      ChartWindow

	HasEnergyData bool
	RawData       []parser.Sample
}

// AssembleContext combines the parsed log, its metrics, the chart window and
// the gauge scale into the final report context. A non-nil telemetryEndpoint
// replaces the log-derived endpoint outright; the overall verdict is only
// re-aggregated when the endpoint verdict actually changes, otherwise the
// original verdict and reason are kept verbatim.
func AssembleContext(data *parser.PressLog, m analysis.Metrics, window ChartWindow,
	gauge EnergyScale, meta Metadata, th analysis.Thresholds,
	telemetryEndpoint *float64, now time.Time) *Context {

	endpoint := m.Endpoint
	endpointPass := m.EndpointPass
	overall, reason := m.OverallPass, m.Reason
	if telemetryEndpoint != nil {
		endpoint = *telemetryEndpoint
		endpointPass = analysis.CheckBounds(endpoint, th.EndpointMin, th.EndpointMax)
		if !verdictEqual(endpointPass, m.EndpointPass) {
			overall, reason = analysis.AggregateOverall(m.ForcePass, endpointPass, m.EnergyPass, reasonChecksPassed)
		}
	}

	date := now.Format("2006-01-02")
	timeOfDay := now.Format("15:04:05")
	if data.SessionStart != nil {
		date = data.SessionStart.Format("2006-01-02")
		timeOfDay = data.SessionStart.Format("15:04:05")
	}

	raw := make([]parser.Sample, data.Len())
	for i := range raw {
		raw[i] = data.Sample(i)
	}

	return &Context{
		Title:           meta.Title,
		SerialNumber:    meta.SerialNumber,
		JobNumber:       meta.JobNumber,
		OpNumber:        meta.OpNumber,
		DeviceName:      meta.DeviceName,
		FirmwareVersion: meta.FirmwareVersion,
		AppVersion:      meta.AppVersion,
		ForceMode:       effectiveForceMode(meta.ForceMode, data.DetectedForceMode),
		Date:            date,
		Time:            timeOfDay,
		Duration:        fmt.Sprintf("%.2fs", m.DurationS),
		GeneratedAt:     now.Format("2006-01-02 15:04:05"),

		PeakForce:         m.PeakForce,
		PeakForcePosition: m.PeakForcePosition,
		StartPosition:     m.StartPosition,
		Endpoint:          endpoint,
		Energy:            m.Energy,
		DurationS:         m.DurationS,
		DataPoints:        m.DataPoints,

		ForcePass:    m.ForcePass,
		EndpointPass: endpointPass,
		EnergyPass:   m.EnergyPass,
		OverallPass:  overall,
		Reason:       reason,

		Thresholds: th,
		Gauge:      gauge,
		Chart:      window,

		HasEnergyData: data.HasEnergyData,
		RawData:       raw,
	}
}

// verdictEqual compares two tri-state verdicts.
func verdictEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// effectiveForceMode prefers the operator-supplied mode string; when that
// carries no information and the parser detected a channel, the detected
// channel's display label wins.
func effectiveForceMode(supplied, detected string) string {
	if (supplied == "" || supplied == "Unknown" || supplied == "N/A") && detected != "" {
		return forceModeLabel(detected)
	}
	if supplied == "" {
		return "N/A"
	}
	return supplied
}

// forceModeLabel maps a detection token to its display label.
func forceModeLabel(mode string) string {
	switch mode {
	case parser.ForceModeLoadCell:
		return "Load Cell"
	case parser.ForceModeMotorTorque:
		return "Motor Torque"
	}
	return mode
}
