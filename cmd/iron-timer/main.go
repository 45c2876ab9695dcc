// Command iron-timer counts down a soldering iron's on-time and switches its
// relay off over MQTT when the time runs out.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweeney/iron-timer/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath     string
	logLevel       string
	brokerOverride string
	httpOverride   string
)

func setupLogger(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "parse log level")
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.DateTime,
		})
	}
	return nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("IRON_TIMER_CONFIG")
	}
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if brokerOverride != "" {
		cfg.MQTT.Broker = brokerOverride
	}
	if httpOverride != "" {
		cfg.HTTP.Addr = httpOverride
	}
	if httpOverride == "off" {
		cfg.HTTP.Addr = ""
	}
	if err := setupLogger(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewCommand builds the root command. With no subcommand it runs the device.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iron-timer",
		Short: "iron-timer switches a soldering iron off after a countdown",
		Long: `iron-timer shows a countdown on the bench display and publishes "Off"
to the iron's relay over MQTT when it reaches zero. Buttons and the touch
screen adjust the remaining time; "iron_cmd" messages re-arm or end it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if logLevel == "" {
				return nil
			}
			return setupLogger(logLevel)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDevice(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $IRON_TIMER_CONFIG or "+config.DefaultPath+")")
	cmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.PersistentFlags().StringVar(&brokerOverride, "broker", "", "MQTT broker address, overrides the config file")
	cmd.PersistentFlags().StringVar(&httpOverride, "http", "", `HTTP status address, overrides the config file ("off" disables)`)

	cmd.AddCommand(
		newRunCommand(),
		newEstimateCommand(),
		newPrintStateCommand(),
		newVersionCommand(),
	)
	return cmd
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the countdown on the device (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDevice(cmd.Context())
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
