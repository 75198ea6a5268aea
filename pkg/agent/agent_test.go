package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-wayfinder/pkg/camera"
	"github.com/teslashibe/go-wayfinder/pkg/chain"
	"github.com/teslashibe/go-wayfinder/pkg/inference"
	"github.com/teslashibe/go-wayfinder/pkg/navigation"
	"github.com/teslashibe/go-wayfinder/pkg/reasoning"
	"github.com/teslashibe/go-wayfinder/pkg/stt"
)

type recordingSpeaker struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSpeaker) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
	return nil
}

func (s *recordingSpeaker) spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.OpenAIAPIKey = "sk-test"
	cfg.GoogleMapsAPIKey = "maps-test"
	cfg.ElevenLabsAPIKey = "xi-test"
	cfg.Port = 0
	cfg.NarrationPace = 0
	return cfg
}

const (
	locateResponse = "Action Chain: get_current_location -> get_nearby_places\nNext Action: get_current_location()\nParameter to Save: coordinates"
	nearbyResponse = "Action Chain: get_current_location -> get_nearby_places\nNext Action: get_nearby_places()\nParameter to Save: None"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(c *Config) {}, ""},
		{"gemini only", func(c *Config) { c.OpenAIAPIKey = ""; c.GeminiAPIKey = "g" }, ""},
		{"no reasoning key", func(c *Config) { c.OpenAIAPIKey = "" }, "OpenAIAPIKey"},
		{"no maps key", func(c *Config) { c.GoogleMapsAPIKey = "" }, "GoogleMapsAPIKey"},
		{"speech without key", func(c *Config) { c.ElevenLabsAPIKey = "" }, "ElevenLabsAPIKey"},
		{"silent without key", func(c *Config) { c.ElevenLabsAPIKey = ""; c.SpeakResults = false }, ""},
		{"bad location", func(c *Config) { c.DefaultLocation = "downtown" }, "DefaultLocation"},
		{"bad mode", func(c *Config) { c.TravelMode = "flying" }, "TravelMode"},
		{"zero steps", func(c *Config) { c.MaxSteps = 0 }, "MaxSteps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Expected valid config, got %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestTrigger(t *testing.T) {
	tr := NewTrigger()
	if tr.Take() {
		t.Error("Expected nothing pending")
	}
	if !tr.Fire() {
		t.Error("Expected first fire accepted")
	}
	if tr.Fire() {
		t.Error("Expected second fire coalesced")
	}
	select {
	case <-tr.C():
	default:
		t.Error("Expected wake signal")
	}
	if !tr.Take() || tr.Pending() {
		t.Error("Expected Take to consume the request")
	}
	if !tr.Fire() {
		t.Error("Expected fire accepted after Take")
	}
}

func TestAskSpeaksResult(t *testing.T) {
	provider := inference.Responding(locateResponse, nearbyResponse)
	speaker := &recordingSpeaker{}
	app, err := New(testConfig(), Deps{
		Reasoner:  reasoning.New(provider),
		Navigator: navigation.NewMock(),
		Speaker:   speaker,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	app.Frames().Add([]byte{0xff, 0xd8, 1})
	app.Frames().Add([]byte{0xff, 0xd8, 2})

	res, err := app.Ask(context.Background(), "Where is the nearest gas station?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if res.Outcome != chain.OutcomeCompleted || res.FinalResult != "Mock Diner, 1 Main St" {
		t.Errorf("Unexpected result: %s %q", res.Outcome, res.FinalResult)
	}

	if got := speaker.spoken(); len(got) != 1 || got[0] != "Mock Diner, 1 Main St" {
		t.Errorf("Expected final answer spoken, got %v", got)
	}

	call := provider.LastCall()
	if call == nil || len(call.Request.Images) != 2 {
		t.Errorf("Expected 2 frames sent to the model, got %+v", call)
	}
}

func TestAskNarratesRoute(t *testing.T) {
	provider := inference.Responding(
		"Action Chain: get_current_location -> get_nearby_places -> get_route_to_destination\nNext Action: get_current_location()\nParameter to Save: coordinates",
		"Action Chain: get_current_location -> get_nearby_places -> get_route_to_destination\nNext Action: get_nearby_places()\nParameter to Save: destination",
		"Action Chain: get_route_to_destination\nNext Action: get_route_to_destination()\nParameter to Save: None",
	)
	speaker := &recordingSpeaker{}
	app, err := New(testConfig(), Deps{
		Reasoner:  reasoning.New(provider),
		Navigator: navigation.NewMock(),
		Speaker:   speaker,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, _ := app.Ask(context.Background(), "Take me to a restaurant")
	app.WaitNarration()

	if res.Outcome != chain.OutcomeCompleted {
		t.Fatalf("Expected completed, got %s (%v)", res.Outcome, res.Err)
	}
	got := speaker.spoken()
	if len(got) != 2 || got[0] != "Head north on Main St" || got[1] != "Turn right" {
		t.Errorf("Expected route steps narrated without the summary, got %v", got)
	}
}

type blockingReasoner struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingReasoner) Reason(ctx context.Context, images []inference.Image, query, prior string) (string, error) {
	close(b.started)
	<-b.release
	return nearbyResponse, nil
}

func TestAskBusy(t *testing.T) {
	r := &blockingReasoner{started: make(chan struct{}), release: make(chan struct{})}
	cfg := testConfig()
	cfg.SpeakResults = false
	app, err := New(cfg, Deps{Reasoner: r, Navigator: navigation.NewMock()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.Ask(context.Background(), "find food")
	}()

	<-r.started
	if _, err := app.Ask(context.Background(), "find food"); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
	close(r.release)
	<-done
}

type staticSource struct{ frame []byte }

func (s staticSource) Next() ([]byte, error) {
	time.Sleep(2 * time.Millisecond)
	return s.frame, nil
}

func (s staticSource) Close() error { return nil }

func TestRunTriggeredQueryFromClip(t *testing.T) {
	clip := filepath.Join(t.TempDir(), "query.wav")
	if err := os.WriteFile(clip, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.QueryClip = clip
	cfg.CameraStreamURL = "http://camera.local:81/stream"
	cfg.CameraInterval = 0

	provider := inference.Responding(locateResponse, nearbyResponse)
	speaker := &recordingSpeaker{}
	app, err := New(cfg, Deps{
		Reasoner:    reasoning.New(provider),
		Navigator:   navigation.NewMock(),
		Speaker:     speaker,
		Transcriber: stt.NewMock("Where can I get fuel?"),
		Opener: func(url string, quality int) (camera.FrameSource, error) {
			return staticSource{frame: []byte{0xff, 0xd8, 0xff}}, nil
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- app.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for app.Frames().Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !app.Trigger() {
		t.Fatal("Expected trigger accepted")
	}

	for len(speaker.spoken()) == 0 && time.Now().Before(deadline.Add(2*time.Second)) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-runDone; err != nil {
		t.Errorf("Run returned %v", err)
	}

	if got := speaker.spoken(); len(got) != 1 || got[0] != "Mock Diner, 1 Main St" {
		t.Errorf("Expected spoken answer, got %v", got)
	}
	first := provider.Calls()[0]
	if len(first.Request.Images) == 0 {
		t.Error("Expected camera frames in the reasoning request")
	}
}
