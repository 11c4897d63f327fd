package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLimits(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "limits.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write limits: %v", err)
	}
	return path
}

func TestLoadLimits(t *testing.T) {
	path := writeLimits(t, `[thresholds]
force-min = 900.0
force-max = 1200.0
endpoint-min = 47.5
energy-max = 80.0

[press]
startpoint = 10.0
threshold = 50.0
`)
	lim, err := LoadLimits(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lim.Thresholds.ForceMin == nil || *lim.Thresholds.ForceMin != 900.0 {
		t.Fatalf("expected force-min 900, got %v", lim.Thresholds.ForceMin)
	}
	if lim.Thresholds.ForceMax == nil || *lim.Thresholds.ForceMax != 1200.0 {
		t.Fatalf("expected force-max 1200, got %v", lim.Thresholds.ForceMax)
	}
	if lim.Thresholds.EndpointMin == nil || *lim.Thresholds.EndpointMin != 47.5 {
		t.Fatalf("expected endpoint-min 47.5, got %v", lim.Thresholds.EndpointMin)
	}
	if lim.Thresholds.EndpointMax != nil || lim.Thresholds.EnergyMin != nil {
		t.Fatalf("expected absent keys to stay unset, got %+v", lim.Thresholds)
	}
	if lim.Thresholds.EnergyMax == nil || *lim.Thresholds.EnergyMax != 80.0 {
		t.Fatalf("expected energy-max 80, got %v", lim.Thresholds.EnergyMax)
	}
	if lim.Press.Startpoint == nil || *lim.Press.Startpoint != 10.0 {
		t.Fatalf("expected startpoint 10, got %v", lim.Press.Startpoint)
	}
	if lim.Press.Threshold == nil || *lim.Press.Threshold != 50.0 {
		t.Fatalf("expected threshold 50, got %v", lim.Press.Threshold)
	}
}

func TestLoadLimitsPartialFile(t *testing.T) {
	path := writeLimits(t, "[press]\nstartpoint = 5.0\n")
	lim, err := LoadLimits(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lim.Press.Startpoint == nil || *lim.Press.Startpoint != 5.0 {
		t.Fatalf("expected startpoint 5, got %v", lim.Press.Startpoint)
	}
	if lim.Thresholds.ForceMin != nil {
		t.Fatalf("expected empty thresholds, got %+v", lim.Thresholds)
	}
}

func TestLoadLimitsEmptyPath(t *testing.T) {
	if _, err := LoadLimits(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadLimitsMissingFile(t *testing.T) {
	if _, err := LoadLimits(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadLimitsMalformed(t *testing.T) {
	path := writeLimits(t, "[thresholds\nforce-min = ")
	if _, err := LoadLimits(path); err == nil {
		t.Fatalf("expected error for malformed TOML")
	}
}
