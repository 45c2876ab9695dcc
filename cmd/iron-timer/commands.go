package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sweeney/iron-timer/internal/gpio"
	"github.com/sweeney/iron-timer/internal/logic"
	"github.com/sweeney/iron-timer/internal/power"
)

func bandColor(b logic.ChargeBand) *color.Color {
	switch b {
	case logic.BandAlert:
		return color.New(color.Bold, color.FgRed)
	case logic.BandWarning:
		return color.New(color.Bold, color.FgYellow)
	default:
		return color.New(color.Bold, color.FgGreen)
	}
}

func printReading(w io.Writer, r logic.BatteryReading) {
	percent := r.Percent()
	band := logic.ChargeBandFor(percent)
	fmt.Fprintf(w, "%.2fV  %s (%s)", r.Voltage, bandColor(band).Sprintf("%3d%%", percent), band)
	if r.Charging {
		fmt.Fprintf(w, "  %s", color.GreenString("charging"))
	}
	fmt.Fprintln(w)
}

func newEstimateCommand() *cobra.Command {
	var voltage float64
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate LiPo charge from a cell voltage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("voltage") {
				return errors.New("--voltage is required")
			}
			printReading(cmd.OutOrStdout(), logic.BatteryReading{Voltage: voltage})
			return nil
		},
	}
	cmd.Flags().Float64VarP(&voltage, "voltage", "v", 0, "cell voltage in volts")
	return cmd
}

func stateString(pressed bool) string {
	if pressed {
		return color.New(color.Bold).Sprint("PRESSED")
	}
	return "released"
}

func newPrintStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print-state",
		Short: "Read the buttons and battery once and print them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			reader, err := gpio.NewRealReader(cfg.GPIO.Chip, cfg.GPIO.ButtonA, cfg.GPIO.ButtonB)
			if err != nil {
				return errors.Wrap(err, "init gpio")
			}
			defer reader.Close()
			a, b, err := reader.Read()
			if err != nil {
				return errors.Wrap(err, "read gpio")
			}
			fmt.Fprintf(out, "A: %s, B: %s\n", stateString(a), stateString(b))

			r, err := power.NewHostSensor(cfg.Power.BatteryIndex).Read()
			if err != nil {
				fmt.Fprintf(out, "battery: %s\n", color.RedString(err.Error()))
				return nil
			}
			printReading(out, r)
			return nil
		},
	}
}
