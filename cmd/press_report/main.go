// Package main provides the CLI entrypoint for press_report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/press_report_go/internal/analysis"
	"github.com/user/press_report_go/internal/config"
	"github.com/user/press_report_go/internal/report"
)

const defaultSerial = "TEST-001"

var (
	outputPath   string
	serialNumber string
	limitsPath   string

	forceMin    float64
	forceMax    float64
	endpointMin float64
	endpointMax float64
	energyMin   float64
	energyMax   float64

	pressStartpoint   float64
	pressThreshold    float64
	telemetryEndpoint float64

	jobNumber       string
	opNumber        string
	reportTitle     string
	deviceName      string
	firmwareVersion string
	appVersion      string
	forceMode       string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "press_report <log.csv>",
		Short:         "Generate a pass/fail report from a press cycle log",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReportCmd,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "report path (.pdf selects the PDF renderer, default: <log stem>_report.html)")
	rootCmd.Flags().StringVarP(&serialNumber, "serial", "s", defaultSerial, "device serial number")
	rootCmd.Flags().StringVar(&limitsPath, "limits", "", "TOML limits file (explicit flags override file values)")

	rootCmd.Flags().Float64Var(&forceMin, "force-min", 0, "minimum acceptable peak force (kg)")
	rootCmd.Flags().Float64Var(&forceMax, "force-max", 0, "maximum acceptable peak force (kg)")
	rootCmd.Flags().Float64Var(&endpointMin, "endpoint-min", 0, "minimum acceptable endpoint (mm)")
	rootCmd.Flags().Float64Var(&endpointMax, "endpoint-max", 0, "maximum acceptable endpoint (mm)")
	rootCmd.Flags().Float64Var(&energyMin, "energy-min", 0, "minimum acceptable energy (J)")
	rootCmd.Flags().Float64Var(&energyMax, "energy-max", 0, "maximum acceptable energy (J)")

	rootCmd.Flags().Float64Var(&pressStartpoint, "startpoint", 0, "position where the press window starts (mm)")
	rootCmd.Flags().Float64Var(&pressThreshold, "press-threshold", 0, "trigger force shown on the report (kg)")
	rootCmd.Flags().Float64Var(&telemetryEndpoint, "endpoint", 0, "authoritative endpoint from the press controller (mm)")

	rootCmd.Flags().StringVar(&jobNumber, "job", "", "job number")
	rootCmd.Flags().StringVar(&opNumber, "op", "", "operation number")
	rootCmd.Flags().StringVar(&reportTitle, "title", "", "report title")
	rootCmd.Flags().StringVar(&deviceName, "device", "", "device name")
	rootCmd.Flags().StringVar(&firmwareVersion, "firmware", "", "firmware version")
	rootCmd.Flags().StringVar(&appVersion, "app-version", "", "controller app version")
	rootCmd.Flags().StringVar(&forceMode, "force-mode", "", "force measurement mode (load_cell or motor_torque)")

	return rootCmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	var lim config.LimitsFile
	if limitsPath != "" {
		var err error
		lim, err = config.LoadLimits(limitsPath)
		if err != nil {
			return err
		}
	}

	opts := report.Options{
		LogPath:    args[0],
		OutputPath: outputPath,
		Metadata: report.Metadata{
			Title:           reportTitle,
			SerialNumber:    serialNumber,
			JobNumber:       jobNumber,
			OpNumber:        opNumber,
			DeviceName:      deviceName,
			FirmwareVersion: firmwareVersion,
			AppVersion:      appVersion,
			ForceMode:       forceMode,
		},
		Thresholds: analysis.Thresholds{
			ForceMin:        resolveBound(cmd, "force-min", forceMin, lim.Thresholds.ForceMin),
			ForceMax:        resolveBound(cmd, "force-max", forceMax, lim.Thresholds.ForceMax),
			EndpointMin:     resolveBound(cmd, "endpoint-min", endpointMin, lim.Thresholds.EndpointMin),
			EndpointMax:     resolveBound(cmd, "endpoint-max", endpointMax, lim.Thresholds.EndpointMax),
			EnergyMin:       resolveBound(cmd, "energy-min", energyMin, lim.Thresholds.EnergyMin),
			EnergyMax:       resolveBound(cmd, "energy-max", energyMax, lim.Thresholds.EnergyMax),
			PressStartpoint: resolveBound(cmd, "startpoint", pressStartpoint, lim.Press.Startpoint),
			PressThreshold:  resolveBound(cmd, "press-threshold", pressThreshold, lim.Press.Threshold),
		},
		TelemetryEndpoint: resolveBound(cmd, "endpoint", telemetryEndpoint, nil),
	}

	res, err := report.Generate(opts)
	if err != nil {
		return err
	}

	renderer := report.RendererForPath(res.OutputPath)
	if err := report.WriteReport(res.OutputPath, res.Context, renderer); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Report generated successfully: %s\n", res.OutputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// resolveBound turns an optional float flag into a pointer. An explicitly set
// flag wins over the limits file; an untouched flag falls back to the file
// value, which may itself be absent.
func resolveBound(cmd *cobra.Command, name string, flagValue float64, fileValue *float64) *float64 {
	if cmd.Flags().Changed(name) {
		v := flagValue
		return &v
	}
	return fileValue
}
