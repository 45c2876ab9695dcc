package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/iron-timer/internal/logic"
	"github.com/sweeney/iron-timer/internal/metrics"
	"github.com/sweeney/iron-timer/internal/ota"
	"github.com/sweeney/iron-timer/internal/status"
)

type testEnv struct {
	ts      *httptest.Server
	tracker *status.Tracker
	queue   *ota.Queue
	fwPath  string
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		TotalSeconds:   300,
		WarningSeconds: 5,
		StepSeconds:    120,
		FloorSeconds:   5,
		Broker:         "tcp://192.168.1.200:1883",
		HTTPAddr:       ":80",
		Version:        "v1.2.0",
	}
	tr := status.NewTracker(start, cfg)

	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg, tr); err != nil {
		t.Fatalf("register metrics: %v", err)
	}

	q := ota.NewQueue()
	fwPath := filepath.Join(t.TempDir(), "iron-timer.new")
	rcv := ota.NewReceiver("s3cret", fwPath, q)

	srv := New(":0", tr, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), rcv)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts, tracker: tr, queue: q, fwPath: fwPath}
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func TestJSONEndpoint(t *testing.T) {
	env := newTestServer(t)
	env.tracker.UpdateTimer(150, 300, 50, false)
	env.tracker.SetMQTTConnected(true)
	env.tracker.CountButton(logic.ButtonEvent{Button: logic.ButtonA, Gesture: logic.GestureClick})

	resp, err := http.Get(env.ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Status.Remaining != 150 || sj.Status.Countdown != "2:30" {
		t.Errorf("timer: got %d (%s), want 150 (2:30)", sj.Status.Remaining, sj.Status.Countdown)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
	if sj.Status.Counts.AClick != 1 {
		t.Errorf("Counts.AClick: got %d, want 1", sj.Status.Counts.AClick)
	}
	if sj.Status.Config.StepSeconds != 120 {
		t.Errorf("Config.StepSeconds: got %d, want 120", sj.Status.Config.StepSeconds)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	env := newTestServer(t)

	sj1 := getJSON(t, env.ts.URL+"/index.json")
	if sj1.Status.Power != "ACTIVE" || sj1.Status.Warning {
		t.Errorf("expected ACTIVE without warning, got %s/%v", sj1.Status.Power, sj1.Status.Warning)
	}

	env.tracker.UpdateTimer(0, 300, 0, true)
	env.tracker.SetPower("SHUTTING_DOWN")

	sj2 := getJSON(t, env.ts.URL+"/index.json")
	if sj2.Status.Power != "SHUTTING_DOWN" || !sj2.Status.Warning {
		t.Errorf("expected SHUTTING_DOWN with warning, got %s/%v", sj2.Status.Power, sj2.Status.Warning)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	env := newTestServer(t)
	env.tracker.UpdateTimer(65, 300, 21, false)
	env.tracker.SetBattery(logic.BatteryReading{Voltage: 3.95})

	resp, err := http.Get(env.ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"Iron Timer", "v1.2.0", "1:05", "3.95V"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	env := newTestServer(t)

	resp, err := http.Get(env.ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	env := newTestServer(t)

	resp, err := http.Get(env.ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestServer(t)
	env.tracker.UpdateTimer(42, 300, 14, false)

	resp, err := http.Get(env.ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "iron_timer_remaining_seconds 42") {
		t.Errorf("expected remaining gauge in metrics output, got:\n%s", body)
	}
}

func putFirmware(t *testing.T, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url+"/firmware", strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /firmware: %v", err)
	}
	return resp
}

func TestFirmwareUpload(t *testing.T) {
	env := newTestServer(t)

	resp := putFirmware(t, env.ts.URL, "s3cret", "new-image")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	got, err := os.ReadFile(env.fwPath)
	if err != nil || string(got) != "new-image" {
		t.Errorf("expected installed image, got %q (%v)", got, err)
	}

	events := env.queue.Poll()
	if len(events) == 0 || events[len(events)-1].Kind != ota.KindEnd {
		t.Errorf("expected END event last, got %v", events)
	}
}

func TestFirmwareUploadRejectsBadToken(t *testing.T) {
	env := newTestServer(t)

	resp := putFirmware(t, env.ts.URL, "wrong", "new-image")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", resp.StatusCode)
	}
	if _, err := os.Stat(env.fwPath); !os.IsNotExist(err) {
		t.Error("expected nothing installed")
	}
	if events := env.queue.Poll(); len(events) != 0 {
		t.Errorf("expected no update events, got %v", events)
	}
}

func TestFirmwareRouteAbsentWithoutReceiver(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	srv := New(":0", tr, nil, nil)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp := putFirmware(t, ts.URL, "", "x")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("metrics status: got %d, want 404", resp.StatusCode)
	}
}
