package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweeney/iron-timer/internal/logic"
	"github.com/sweeney/iron-timer/internal/status"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				name += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			switch {
			case m.GetGauge() != nil:
				out[name] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				out[name] = m.GetCounter().GetValue()
			}
		}
	}
	return out
}

func TestRegisterExportsTrackerState(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{TotalSeconds: 300})
	tr.UpdateTimer(42, 300, 14, false)
	tr.SetMQTTConnected(true)
	tr.SetBattery(logic.BatteryReading{Voltage: 4.2, Charging: true})
	tr.CountButton(logic.ButtonEvent{Button: logic.ButtonB, Gesture: logic.GestureClick})
	tr.CountRemote(false)

	reg := prometheus.NewRegistry()
	if err := Register(reg, tr); err != nil {
		t.Fatalf("register: %v", err)
	}
	got := gather(t, reg)

	want := map[string]float64{
		"iron_timer_remaining_seconds":             42,
		"iron_timer_total_seconds":                 300,
		"iron_timer_warning":                       0,
		"iron_timer_active":                        1,
		"iron_timer_mqtt_connected":                1,
		"iron_timer_battery_volts":                 4.2,
		"iron_timer_battery_percent":               100,
		"iron_timer_battery_charging":              1,
		"iron_timer_inputs_total{kind=b_click}":    1,
		"iron_timer_inputs_total{kind=remote_off}": 1,
		"iron_timer_inputs_total{kind=a_click}":    0,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s: got %v, want %v", name, got[name], v)
		}
	}
}

func TestValuesFollowTracker(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{TotalSeconds: 300})
	reg := prometheus.NewRegistry()
	if err := Register(reg, tr); err != nil {
		t.Fatalf("register: %v", err)
	}

	tr.UpdateTimer(3, 300, 1, true)
	tr.SetPower("SHUTTING_DOWN")
	got := gather(t, reg)
	if got["iron_timer_warning"] != 1 || got["iron_timer_active"] != 0 {
		t.Errorf("expected warning=1 active=0, got %v/%v", got["iron_timer_warning"], got["iron_timer_active"])
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	reg := prometheus.NewRegistry()
	if err := Register(reg, tr); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := Register(reg, tr); err == nil {
		t.Error("expected duplicate registration error")
	}
}
