// Package metrics exposes the tracker state as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweeney/iron-timer/internal/status"
)

// SnapshotSource supplies the state being exported.
type SnapshotSource interface {
	Snapshot() status.Snapshot
}

const namespace = "iron_timer"

// Register adds the timer's collectors to reg. Every value is read from src
// at scrape time.
func Register(reg prometheus.Registerer, src SnapshotSource) error {
	gauge := func(name, help string, f func(status.Snapshot) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return f(src.Snapshot()) })
	}
	counter := func(name, help string, labels prometheus.Labels, f func(status.Snapshot) float64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return f(src.Snapshot()) })
	}
	input := func(kind string, f func(status.Counts) int) prometheus.Collector {
		return counter("inputs_total", "Inputs handled, by kind", prometheus.Labels{"kind": kind},
			func(s status.Snapshot) float64 { return float64(f(s.Counts)) })
	}

	collectors := []prometheus.Collector{
		gauge("remaining_seconds", "Seconds left before the iron is switched off",
			func(s status.Snapshot) float64 { return float64(s.Remaining) }),
		gauge("total_seconds", "Full countdown length in seconds",
			func(s status.Snapshot) float64 { return float64(s.Total) }),
		gauge("warning", "1 while the countdown is in its warning window",
			func(s status.Snapshot) float64 { return boolValue(s.Warning) }),
		gauge("active", "1 while the power state is ACTIVE",
			func(s status.Snapshot) float64 { return boolValue(s.Power == "ACTIVE") }),
		gauge("mqtt_connected", "1 while the relay broker connection is up",
			func(s status.Snapshot) float64 { return boolValue(s.MQTTConnected) }),
		gauge("battery_volts", "Last battery voltage reading",
			func(s status.Snapshot) float64 { return s.Battery.Voltage }),
		gauge("battery_percent", "Estimated battery charge",
			func(s status.Snapshot) float64 { return float64(s.Battery.Percent()) }),
		gauge("battery_charging", "1 while the battery is charging",
			func(s status.Snapshot) float64 { return boolValue(s.Battery.Charging) }),
		gauge("uptime_seconds", "Seconds since the daemon started",
			func(s status.Snapshot) float64 { return s.Uptime().Seconds() }),
		input("a_click", func(c status.Counts) int { return c.AClick }),
		input("a_long", func(c status.Counts) int { return c.ALong }),
		input("b_click", func(c status.Counts) int { return c.BClick }),
		input("b_long", func(c status.Counts) int { return c.BLong }),
		input("touch", func(c status.Counts) int { return c.Touches }),
		input("remote_on", func(c status.Counts) int { return c.RemoteOn }),
		input("remote_off", func(c status.Counts) int { return c.RemoteOff }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
