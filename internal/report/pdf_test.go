package report

import (
	"bytes"
	"testing"

	"github.com/user/press_report_go/internal/analysis"
	"github.com/user/press_report_go/internal/parser"
)

func TestPDFRenderProducesDocument(t *testing.T) {
	meta := Metadata{Title: "Press Operation Report", SerialNumber: "SN-0042", DeviceName: "Pressboi"}
	th := analysis.Thresholds{ForceMin: ptr(50), ForceMax: ptr(90)}
	var buf bytes.Buffer
	if err := NewPDFRenderer().Render(&buf, renderFixtureContext(meta, th)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected PDF document, got %.16q", buf.Bytes())
	}
}

func TestPDFRenderPaginatesLongRawTable(t *testing.T) {
	data := &parser.PressLog{}
	for i := 0; i < 400; i++ {
		data.Times = append(data.Times, float64(i)*0.02)
		data.Positions = append(data.Positions, float64(i)*0.1)
		data.Forces = append(data.Forces, float64(i%90))
	}
	th := analysis.Thresholds{EnergyMin: ptr(10), EnergyMax: ptr(50)}
	m := analysis.CalculateMetrics(data, th)
	window := BuildChartWindow(data, nil)
	gauge := BuildEnergyScale(m.Energy, th)
	ctx := AssembleContext(data, m, window, gauge, Metadata{SerialNumber: "SN-1"}, th, nil, testNow)

	var buf bytes.Buffer
	if err := NewPDFRenderer().Render(&buf, ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.Len() == 0 || !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected multi-page PDF document, got %d bytes", buf.Len())
	}
}
