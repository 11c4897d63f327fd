package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// sessionTimeLayout is the fixed layout of "<date> <time_ms>" pairs written
// by the press firmware (millisecond precision).
const sessionTimeLayout = "2006-01-02 15:04:05.000"

// fallbackSampleInterval is assumed when the log has no elapsed-time column.
// The firmware samples telemetry at 50 Hz.
const fallbackSampleInterval = 0.02

// columns holds the header indexes resolved by detectColumns. -1 means the
// column is absent.
type columns struct {
	time     int
	position int
	force    int
	energy   int
	date     int
	timeMS   int
	mode     string
}

// detectColumns resolves semantic columns by case-insensitive substring
// matching over the header row, one rule list per header in file order. A
// later header matching the same rule overwrites the earlier claim
// (last-match-wins); the motor-torque rule is the one exception and never
// displaces a load-cell claim. The literal time_ms field is tracked
// separately by its exact name, it only serves session timestamps.
func detectColumns(headers []string) columns {
	cols := columns{time: -1, position: -1, force: -1, energy: -1, date: -1, timeMS: -1}
	for idx, header := range headers {
		h := strings.ToLower(header)
		switch {
		case strings.Contains(h, "force_load_cell"):
			cols.force = idx
			cols.mode = ForceModeLoadCell
		case strings.Contains(h, "force_motor_torque") && cols.mode != ForceModeLoadCell:
			cols.force = idx
			cols.mode = ForceModeMotorTorque
		case strings.Contains(h, "current_pos") || strings.Contains(h, "position"):
			cols.position = idx
		case strings.Contains(h, "joules") || strings.Contains(h, "energy"):
			cols.energy = idx
		case h == "elapsed_s" || strings.Contains(h, "elapsed"):
			cols.time = idx
		case h == "date":
			cols.date = idx
		}
		if header == "time_ms" {
			cols.timeMS = idx
		}
	}
	return cols
}

// field returns the trimmed value at idx. Missing cells (short rows) come
// back as the empty string.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowValues carries the converted fields of one accepted data row.
type rowValues struct {
	elapsed   float64
	position  float64
	force     float64
	energy    float64
	hasEnergy bool
}

// parseRow converts one data row. ok is false when any present numeric field
// fails to convert, in which case the caller skips the row whole. An empty
// or missing elapsed value falls back to the synthesized time; an empty
// energy cell simply yields no energy value for the row.
func parseRow(row []string, cols columns, fallbackElapsed float64) (rowValues, bool) {
	vals := rowValues{elapsed: fallbackElapsed}

	if cols.time >= 0 {
		if v := field(row, cols.time); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return rowValues{}, false
			}
			vals.elapsed = f
		}
	}

	pos, err := strconv.ParseFloat(field(row, cols.position), 64)
	if err != nil {
		return rowValues{}, false
	}
	vals.position = pos

	force, err := strconv.ParseFloat(field(row, cols.force), 64)
	if err != nil {
		return rowValues{}, false
	}
	vals.force = force

	if cols.energy >= 0 {
		if v := field(row, cols.energy); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return rowValues{}, false
			}
			vals.energy = f
			vals.hasEnergy = true
		}
	}

	return vals, true
}

// sessionTimestamp reconstructs the wall-clock time of a row from the date
// column and the literal time_ms field. Malformed or incomplete values are
// ignored.
func sessionTimestamp(row []string, cols columns) (time.Time, bool) {
	if cols.date < 0 || cols.timeMS < 0 {
		return time.Time{}, false
	}
	dateVal := field(row, cols.date)
	timeVal := field(row, cols.timeMS)
	if dateVal == "" || timeVal == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(sessionTimeLayout, dateVal+" "+timeVal)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// ParseCSVLog reads a press-cycle CSV log and returns the typed samples plus
// session metadata. Rows with malformed numeric fields are skipped whole and
// counted, never surfaced as errors; parsing only fails when the file cannot
// be read or the header resolves no position or force column.
func ParseCSVLog(path string) (*PressLog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // short rows become per-row skips, not a read error

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	if len(allRows) == 0 {
		return nil, &MissingColumnsError{}
	}

	headers := allRows[0]
	cols := detectColumns(headers)
	if cols.position < 0 || cols.force < 0 {
		return nil, &MissingColumnsError{Found: headers}
	}

	data := &PressLog{DetectedForceMode: cols.mode}

	for _, row := range allRows[1:] {
		vals, ok := parseRow(row, cols, float64(len(data.Times))*fallbackSampleInterval)
		if !ok {
			data.SkippedRows++
			continue
		}

		data.Times = append(data.Times, vals.elapsed)
		data.Positions = append(data.Positions, vals.position)
		data.Forces = append(data.Forces, vals.force)
		if vals.hasEnergy {
			data.Energies = append(data.Energies, vals.energy)
		}

		if ts, ok := sessionTimestamp(row, cols); ok {
			if data.SessionStart == nil {
				start := ts
				data.SessionStart = &start
			}
			end := ts
			data.SessionEnd = &end
		}
	}

	// Keep the primary slices aligned even if a future change lets them
	// diverge; energy is truncated independently to at most that length.
	n := min(len(data.Times), len(data.Positions), len(data.Forces))
	data.Times = data.Times[:n]
	data.Positions = data.Positions[:n]
	data.Forces = data.Forces[:n]
	if len(data.Energies) > n {
		data.Energies = data.Energies[:n]
	}
	data.HasEnergyData = len(data.Energies) > 0

	return data, nil
}
