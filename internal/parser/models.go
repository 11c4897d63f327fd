package parser

import (
	"fmt"
	"time"
)

// Force mode tokens set by column detection.
const (
	ForceModeLoadCell    = "load_cell"
	ForceModeMotorTorque = "motor_torque"
)

// PressLog holds one parsed press-cycle log.
// Times, Positions and Forces are parallel slices truncated to a shared
// length, so every sample is fully populated for those three fields.
// Energies is the cumulative energy channel and may be shorter when the log
// carries no (or partial) energy data.
type PressLog struct {
	Times     []float64 // elapsed seconds, log order
	Positions []float64 // mm
	Forces    []float64 // kg
	Energies  []float64 // joules, running total as logged

	SessionStart *time.Time // wall clock of first valid row, nil if unknown
	SessionEnd   *time.Time // wall clock of last valid row, nil if unknown

	HasEnergyData     bool
	DetectedForceMode string // ForceModeLoadCell, ForceModeMotorTorque or ""
	SkippedRows       int    // rows dropped because a field failed to convert
}

// Len returns the number of fully populated samples.
func (d *PressLog) Len() int {
	return len(d.Positions)
}

// Sample returns the i-th sample. EnergyJ is 0 when the energy channel has
// no value at that index.
func (d *PressLog) Sample(i int) Sample {
	s := Sample{
		ElapsedS:   d.Times[i],
		PositionMM: d.Positions[i],
		ForceKG:    d.Forces[i],
	}
	if i < len(d.Energies) {
		s.EnergyJ = d.Energies[i]
	}
	return s
}

// Sample is one logged instant of a press cycle.
type Sample struct {
	ElapsedS   float64
	PositionMM float64
	ForceKG    float64
	EnergyJ    float64
}

// MissingColumnsError reports a log whose header row resolves no position or
// force column. Found lists the headers actually present in the file.
type MissingColumnsError struct {
	Found []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("CSV file missing required columns. Found: %v. Need position and force columns.", e.Found)
}
