package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/press_report_go/internal/analysis"
	"github.com/user/press_report_go/internal/parser"
)

// Options carries everything one report generation needs. Missing metadata
// falls back to the firmware defaults; an empty OutputPath derives
// "<log stem>_report.html" next to the log file.
type Options struct {
	LogPath    string
	OutputPath string

	Metadata   Metadata
	Thresholds analysis.Thresholds

	// TelemetryEndpoint is the authoritative endpoint reported by the press
	// controller. When set it supersedes the log-derived endpoint, see
	// AssembleContext.
	TelemetryEndpoint *float64
}

// Result is the successful outcome of Generate: the assembled context plus
// the resolved output path for the renderer.
type Result struct {
	Context    *Context
	OutputPath string
}

// FileNotFoundError reports a log path that does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("CSV file not found: %s", e.Path)
}

// EmptyLogError reports a log that parsed but produced no valid samples.
type EmptyLogError struct {
	Path string
}

func (e *EmptyLogError) Error() string {
	return "No valid data found in CSV file"
}

// Generate runs the full analysis pipeline on one press-cycle log: parse,
// derive metrics, clip the chart window, scale the energy gauge, assemble
// the report context. It performs no file output; pass the Result to
// WriteReport for that.
func Generate(opts Options) (*Result, error) {
	data, err := parser.ParseCSVLog(opts.LogPath)
	if err != nil {
		return nil, classifyParseError(err, opts.LogPath)
	}
	if data.SkippedRows > 0 {
		log.Printf("Warning: skipped %d malformed row(s) in %s", data.SkippedRows, opts.LogPath)
	}
	if data.Len() == 0 {
		return nil, &EmptyLogError{Path: opts.LogPath}
	}

	metrics := analysis.CalculateMetrics(data, opts.Thresholds)
	window := BuildChartWindow(data, opts.Thresholds.PressStartpoint)
	gauge := BuildEnergyScale(metrics.Energy, opts.Thresholds)
	ctx := AssembleContext(data, metrics, window, gauge,
		normalizeMetadata(opts.Metadata), opts.Thresholds, opts.TelemetryEndpoint, time.Now())

	out := opts.OutputPath
	if out == "" {
		out = defaultOutputPath(opts.LogPath)
	}
	return &Result{Context: ctx, OutputPath: out}, nil
}

// classifyParseError maps parser failures onto the report error taxonomy.
// Unrecognized failures are logged for support diagnostics and wrapped.
func classifyParseError(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &FileNotFoundError{Path: path}
	}
	var missing *parser.MissingColumnsError
	if errors.As(err, &missing) {
		return missing
	}
	log.Printf("report generation failed for %s: %v", path, err)
	return fmt.Errorf("error generating report: %w", err)
}

// normalizeMetadata fills empty fields with the values the press firmware
// reports when nothing was configured.
func normalizeMetadata(meta Metadata) Metadata {
	if meta.Title == "" {
		meta.Title = "Press Operation Report"
	}
	if meta.SerialNumber == "" {
		meta.SerialNumber = "N/A"
	}
	if meta.JobNumber == "" {
		meta.JobNumber = "N/A"
	}
	if meta.OpNumber == "" {
		meta.OpNumber = "N/A"
	}
	if meta.DeviceName == "" {
		meta.DeviceName = "Pressboi"
	}
	if meta.FirmwareVersion == "" {
		meta.FirmwareVersion = "Unknown"
	}
	if meta.AppVersion == "" {
		meta.AppVersion = "Unknown"
	}
	if meta.ForceMode == "" {
		meta.ForceMode = "Unknown"
	}
	return meta
}

// defaultOutputPath derives "<log stem>_report.html" beside the log file.
func defaultOutputPath(logPath string) string {
	base := strings.TrimSuffix(filepath.Base(logPath), filepath.Ext(logPath))
	return filepath.Join(filepath.Dir(logPath), base+"_report.html")
}

// Renderer turns an assembled report context into one document.
type Renderer interface {
	Render(w io.Writer, ctx *Context) error
}

// RendererForPath selects a renderer from the output file extension: PDF for
// ".pdf", HTML for everything else.
func RendererForPath(path string) Renderer {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFRenderer()
	}
	return NewHTMLRenderer()
}

// WriteReport renders ctx into the file at path. The document is staged in a
// temp file and renamed into place, so a failed render never leaves a
// partial report behind.
func WriteReport(path string, ctx *Context, r Renderer) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return fmt.Errorf("failed to create temp report: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := r.Render(tmpFile, ctx); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
