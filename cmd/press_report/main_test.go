package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestResolveBoundPrecedence(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("force-min", "12.5"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileVal := 99.0
	if got := resolveBound(cmd, "force-min", forceMin, &fileVal); got == nil || *got != 12.5 {
		t.Fatalf("expected explicit flag value 12.5, got %v", got)
	}
	if got := resolveBound(cmd, "force-max", forceMax, &fileVal); got == nil || *got != 99.0 {
		t.Fatalf("expected limits file value 99 for untouched flag, got %v", got)
	}
	if got := resolveBound(cmd, "energy-min", energyMin, nil); got != nil {
		t.Fatalf("expected unset bound, got %v", *got)
	}
}

func TestReportCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "cycle.csv", `elapsed_s,current_pos_mm,force_load_cell_kg
0.00,5.0,60.0
0.02,48.0,80.0
`)
	limitsPath := writeFile(t, dir, "limits.toml", `[thresholds]
force-min = 50.0
force-max = 90.0
`)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{logPath, "--limits", limitsPath, "--serial", "SN-9"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	reportPath := filepath.Join(dir, "cycle_report.html")
	if !strings.Contains(out.String(), "Report generated successfully: "+reportPath) {
		t.Fatalf("unexpected output: %q", out.String())
	}
	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(content), "SN-9") {
		t.Fatalf("expected serial number in report")
	}
	if !strings.Contains(string(content), "All thresholds met") {
		t.Fatalf("expected passing verdict in report")
	}
}

func TestReportCommandMissingLog(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.csv")})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing log file")
	}
	if !strings.Contains(out.String(), "CSV file not found") {
		t.Fatalf("expected not-found message, got %q", out.String())
	}
}

func TestReportCommandExplicitLimitsMustExist(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "cycle.csv", "elapsed_s,current_pos_mm,force_load_cell_kg\n0.00,1.0,10.0\n")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{logPath, "--limits", filepath.Join(dir, "absent.toml")})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing limits file")
	}
}
