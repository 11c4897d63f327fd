package report

import (
	"testing"
	"time"

	"github.com/user/press_report_go/internal/analysis"
	"github.com/user/press_report_go/internal/parser"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func overrideFixture() (*parser.PressLog, analysis.Thresholds) {
	data := &parser.PressLog{
		Times:     []float64{0, 0.02, 0.04},
		Positions: []float64{10, 40, 60},
		Forces:    []float64{10, 100, 40},
	}
	th := analysis.Thresholds{EndpointMax: ptr(50)}
	return data, th
}

func assemble(data *parser.PressLog, th analysis.Thresholds, override *float64) *Context {
	m := analysis.CalculateMetrics(data, th)
	window := BuildChartWindow(data, th.PressStartpoint)
	gauge := BuildEnergyScale(m.Energy, th)
	return AssembleContext(data, m, window, gauge, Metadata{}, th, override, testNow)
}

func TestAssembleContextEndpointOverrideChangesVerdict(t *testing.T) {
	data, th := overrideFixture()
	ctx := assemble(data, th, ptr(40))
	if ctx.Endpoint != 40 {
		t.Fatalf("expected authoritative endpoint 40, got %v", ctx.Endpoint)
	}
	if ctx.EndpointPass == nil || !*ctx.EndpointPass {
		t.Fatalf("expected endpoint pass after override, got %v", ctx.EndpointPass)
	}
	if ctx.OverallPass == nil || !*ctx.OverallPass {
		t.Fatalf("expected overall pass after override, got %v", ctx.OverallPass)
	}
	if ctx.Reason != "All checks passed" {
		t.Fatalf("expected reason %q, got %q", "All checks passed", ctx.Reason)
	}
}

func TestAssembleContextOverrideSameVerdictKeepsReason(t *testing.T) {
	data, th := overrideFixture()
	ctx := assemble(data, th, ptr(70))
	if ctx.Endpoint != 70 {
		t.Fatalf("expected authoritative endpoint 70, got %v", ctx.Endpoint)
	}
	if ctx.OverallPass == nil || *ctx.OverallPass {
		t.Fatalf("expected overall fail to stand, got %v", ctx.OverallPass)
	}
	if ctx.Reason != "Failed: endpoint" {
		t.Fatalf("expected original reason to stand, got %q", ctx.Reason)
	}
}

func TestAssembleContextOverridePassingVerdictUnchanged(t *testing.T) {
	data, _ := overrideFixture()
	th := analysis.Thresholds{EndpointMax: ptr(100)}
	ctx := assemble(data, th, ptr(70))
	if ctx.OverallPass == nil || !*ctx.OverallPass {
		t.Fatalf("expected overall pass, got %v", ctx.OverallPass)
	}
	if ctx.Reason != analysis.ReasonAllMet {
		t.Fatalf("expected untouched reason %q, got %q", analysis.ReasonAllMet, ctx.Reason)
	}
}

func TestAssembleContextOverrideWithoutBounds(t *testing.T) {
	data, _ := overrideFixture()
	ctx := assemble(data, analysis.Thresholds{}, ptr(40))
	if ctx.Endpoint != 40 {
		t.Fatalf("expected authoritative endpoint 40, got %v", ctx.Endpoint)
	}
	if ctx.EndpointPass != nil {
		t.Fatalf("expected undefined endpoint verdict, got %v", *ctx.EndpointPass)
	}
	if ctx.Reason != analysis.ReasonNoThresholds {
		t.Fatalf("expected reason %q, got %q", analysis.ReasonNoThresholds, ctx.Reason)
	}
}

func TestAssembleContextNoOverride(t *testing.T) {
	data, th := overrideFixture()
	ctx := assemble(data, th, nil)
	if ctx.Endpoint != 60 {
		t.Fatalf("expected log endpoint 60, got %v", ctx.Endpoint)
	}
	if ctx.Reason != "Failed: endpoint" {
		t.Fatalf("expected reason %q, got %q", "Failed: endpoint", ctx.Reason)
	}
}

func TestAssembleContextSessionDates(t *testing.T) {
	data, th := overrideFixture()
	start := time.Date(2024, 3, 14, 9, 30, 0, 125_000_000, time.UTC)
	data.SessionStart = &start

	ctx := assemble(data, th, nil)
	if ctx.Date != "2024-03-14" || ctx.Time != "09:30:00" {
		t.Fatalf("expected session date/time, got %q %q", ctx.Date, ctx.Time)
	}
	if ctx.GeneratedAt != "2026-01-02 03:04:05" {
		t.Fatalf("expected generation stamp from clock, got %q", ctx.GeneratedAt)
	}

	data.SessionStart = nil
	ctx = assemble(data, th, nil)
	if ctx.Date != "2026-01-02" || ctx.Time != "03:04:05" {
		t.Fatalf("expected clock date/time without session, got %q %q", ctx.Date, ctx.Time)
	}
}

func TestAssembleContextDurationString(t *testing.T) {
	data := &parser.PressLog{
		Times:     []float64{0, 1.237},
		Positions: []float64{0, 1},
		Forces:    []float64{1, 2},
	}
	ctx := assemble(data, analysis.Thresholds{}, nil)
	if ctx.Duration != "1.24s" {
		t.Fatalf("expected duration %q, got %q", "1.24s", ctx.Duration)
	}
}

func TestAssembleContextRawData(t *testing.T) {
	data := &parser.PressLog{
		Times:         []float64{0, 0.02},
		Positions:     []float64{1, 2},
		Forces:        []float64{10, 20},
		Energies:      []float64{0.5},
		HasEnergyData: true,
	}
	ctx := assemble(data, analysis.Thresholds{}, nil)
	if len(ctx.RawData) != 2 {
		t.Fatalf("expected 2 raw samples, got %d", len(ctx.RawData))
	}
	if ctx.RawData[0].EnergyJ != 0.5 || ctx.RawData[1].EnergyJ != 0 {
		t.Fatalf("unexpected raw energies: %+v", ctx.RawData)
	}
	if !ctx.HasEnergyData {
		t.Fatalf("expected energy flag carried into context")
	}
}

func TestEffectiveForceMode(t *testing.T) {
	cases := []struct {
		supplied string
		detected string
		want     string
	}{
		{"", parser.ForceModeLoadCell, "Load Cell"},
		{"Unknown", parser.ForceModeMotorTorque, "Motor Torque"},
		{"N/A", parser.ForceModeLoadCell, "Load Cell"},
		{"Hydraulic", parser.ForceModeLoadCell, "Hydraulic"},
		{"", "", "N/A"},
		{"Unknown", "", "Unknown"},
	}
	for _, tc := range cases {
		if got := effectiveForceMode(tc.supplied, tc.detected); got != tc.want {
			t.Fatalf("effectiveForceMode(%q, %q): expected %q, got %q",
				tc.supplied, tc.detected, tc.want, got)
		}
	}
}
