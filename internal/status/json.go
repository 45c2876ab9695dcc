package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/iron-timer/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Remaining     int          `json:"remaining_seconds"`
	Total         int          `json:"total_seconds"`
	Percent       int          `json:"percent"`
	Countdown     string       `json:"countdown"`
	Warning       bool         `json:"warning"`
	Power         string       `json:"power"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Battery       *BatteryJSON `json:"battery,omitempty"`
	Counts        CountsJSON   `json:"input_counts"`
	Update        *UpdateJSON  `json:"update,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// BatteryJSON is the JSON representation of a battery reading.
type BatteryJSON struct {
	Voltage  float64 `json:"voltage"`
	Percent  int     `json:"percent"`
	Band     string  `json:"band"`
	Charging bool    `json:"charging"`
}

// CountsJSON is the JSON representation of input counts.
type CountsJSON struct {
	AClick    int `json:"a_click"`
	ALong     int `json:"a_long"`
	BClick    int `json:"b_click"`
	BLong     int `json:"b_long"`
	Touches   int `json:"touches"`
	RemoteOn  int `json:"remote_on"`
	RemoteOff int `json:"remote_off"`
}

// UpdateJSON is the JSON representation of firmware update state.
type UpdateJSON struct {
	Active    bool   `json:"active"`
	Percent   int    `json:"percent"`
	LastError string `json:"last_error,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TotalSeconds   int    `json:"total_seconds"`
	WarningSeconds int    `json:"warning_seconds"`
	StepSeconds    int    `json:"step_seconds"`
	FloorSeconds   int    `json:"floor_seconds"`
	Broker         string `json:"broker"`
	HTTPAddr       string `json:"http_addr"`
	Version        string `json:"version,omitempty"`
}

// FormatCountdown renders seconds as M:SS.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Remaining:     snap.Remaining,
		Total:         snap.Total,
		Percent:       snap.Percent,
		Countdown:     FormatCountdown(snap.Remaining),
		Warning:       snap.Warning,
		Power:         snap.Power,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			AClick:    snap.Counts.AClick,
			ALong:     snap.Counts.ALong,
			BClick:    snap.Counts.BClick,
			BLong:     snap.Counts.BLong,
			Touches:   snap.Counts.Touches,
			RemoteOn:  snap.Counts.RemoteOn,
			RemoteOff: snap.Counts.RemoteOff,
		},
		Config: ConfigJSON{
			TotalSeconds:   snap.Config.TotalSeconds,
			WarningSeconds: snap.Config.WarningSeconds,
			StepSeconds:    snap.Config.StepSeconds,
			FloorSeconds:   snap.Config.FloorSeconds,
			Broker:         snap.Config.Broker,
			HTTPAddr:       snap.Config.HTTPAddr,
			Version:        snap.Config.Version,
		},
	}
	if snap.BatteryRead {
		pct := snap.Battery.Percent()
		inner.Battery = &BatteryJSON{
			Voltage:  snap.Battery.Voltage,
			Percent:  pct,
			Band:     logic.ChargeBandFor(pct).String(),
			Charging: snap.Battery.Charging,
		}
	}
	if snap.Update.Active || snap.Update.LastError != "" {
		inner.Update = &UpdateJSON{
			Active:    snap.Update.Active,
			Percent:   snap.Update.Percent,
			LastError: snap.Update.LastError,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
