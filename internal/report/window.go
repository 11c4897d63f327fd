package report

import (
	"math"

	"github.com/user/press_report_go/internal/analysis"
	"github.com/user/press_report_go/internal/parser"
)

// ChartWindow is the chart payload for one cycle: the clipped analysis
// window plus the full traces for the overview plot. The three indexes refer
// to the full (unclipped) slices.
type ChartWindow struct {
	Positions []float64
	Forces    []float64
	Times     []float64
	Energies  []float64

	FullPositions []float64
	FullForces    []float64

	StartIdx    int
	PeakIdx     int // first sample at maximum force
	EndpointIdx int // first sample at maximum position
}

// BuildChartWindow clips the log to the analysis window: from the first
// sample at or past the press startpoint through the farthest point of
// travel. The window keeps at least one sample even when the startpoint
// lands past the endpoint; with no qualifying startpoint sample the window
// starts at 0.
func BuildChartWindow(data *parser.PressLog, startpoint *float64) ChartWindow {
	w := ChartWindow{
		FullPositions: data.Positions,
		FullForces:    data.Forces,
	}
	if data.Len() == 0 {
		return w
	}

	for i, f := range data.Forces {
		if f > data.Forces[w.PeakIdx] {
			w.PeakIdx = i
		}
	}
	for i, p := range data.Positions {
		if p > data.Positions[w.EndpointIdx] {
			w.EndpointIdx = i
		}
	}
	if startpoint != nil && *startpoint > 0 {
		for i, p := range data.Positions {
			if p >= *startpoint {
				w.StartIdx = i
				break
			}
		}
	}

	end := w.EndpointIdx + 1
	if end <= w.StartIdx {
		end = w.StartIdx + 1
	}

	w.Positions = data.Positions[w.StartIdx:end]
	w.Forces = data.Forces[w.StartIdx:end]
	w.Times = data.Times[w.StartIdx:end]
	w.Energies = clipSlice(data.Energies, w.StartIdx, end)
	return w
}

// clipSlice slices [start, end) bounded to the slice length, so a shorter
// energy channel clips to whatever it has in the window.
func clipSlice(s []float64, start, end int) []float64 {
	if start > len(s) {
		start = len(s)
	}
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

// EnergyScale places the measured energy and its bounds on the report's
// 0-100 gauge bar.
type EnergyScale struct {
	EnergyPercent float64
	MinPercent    float64
	MaxPercent    float64
}

// BuildEnergyScale normalizes the cycle energy onto the gauge. With both
// bounds configured the scale pads half the band width on each side (floored
// at zero); with only an upper bound it leaves 20% headroom; otherwise the
// needle sits mid-bar against default 0/100 marks.
func BuildEnergyScale(energy float64, th analysis.Thresholds) EnergyScale {
	scale := EnergyScale{EnergyPercent: 50, MinPercent: 0, MaxPercent: 100}

	switch {
	case th.EnergyMin != nil && th.EnergyMax != nil:
		band := *th.EnergyMax - *th.EnergyMin
		padding := band * 0.5
		scaleMin := math.Max(0, *th.EnergyMin-padding)
		scaleMax := math.Max(energy, *th.EnergyMax+padding)
		if scaleMax-scaleMin > 0 {
			scale.EnergyPercent = (energy - scaleMin) / (scaleMax - scaleMin) * 100
			scale.MinPercent = (*th.EnergyMin - scaleMin) / (scaleMax - scaleMin) * 100
			scale.MaxPercent = (*th.EnergyMax - scaleMin) / (scaleMax - scaleMin) * 100
		}
	case th.EnergyMax != nil && *th.EnergyMax > 0:
		scaleMax := math.Max(energy, *th.EnergyMax) * 1.2
		scale.EnergyPercent = energy / scaleMax * 100
		scale.MaxPercent = *th.EnergyMax / scaleMax * 100
	}

	return scale
}
