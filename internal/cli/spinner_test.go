package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/assetforge/pkg/observability"
)

type recordingRenderHooks struct {
	observability.NoopRenderHooks
	completed int
}

func (h *recordingRenderHooks) OnVariantComplete(context.Context, string, string, int64, time.Duration, error) {
	h.completed++
}

func TestRunSpinnerStatus(t *testing.T) {
	ctx := context.Background()
	s := newRunSpinner(ctx, "Generating assets")

	if got := s.status(); got != "Generating assets" {
		t.Errorf("status before run = %q", got)
	}

	s.OnRunStart(ctx, "run", 4)
	s.OnVariantComplete(ctx, "logo", "logo-64", 120, time.Millisecond, nil)
	s.OnVariantComplete(ctx, "logo", "logo-32", 0, time.Millisecond, errors.New("boom"))

	if got, want := s.status(), "Generating assets 2/4 (1 failed)"; got != want {
		t.Errorf("status = %q, want %q", got, want)
	}
}

func TestRunSpinnerAttach(t *testing.T) {
	t.Cleanup(observability.Reset)
	prev := &recordingRenderHooks{}
	observability.SetRenderHooks(prev)

	s := newRunSpinner(context.Background(), "Generating assets")
	detach := s.attach()
	if observability.Render() != observability.RenderHooks(s) {
		t.Fatal("spinner not registered")
	}

	observability.Render().OnVariantComplete(context.Background(), "a", "v", 1, 0, nil)
	if prev.completed != 1 {
		t.Errorf("previous hooks saw %d events, want 1", prev.completed)
	}
	if s.finished.Load() != 1 {
		t.Errorf("spinner counted %d, want 1", s.finished.Load())
	}

	detach()
	if observability.Render() != observability.RenderHooks(prev) {
		t.Error("detach did not restore the previous hooks")
	}
}

func TestRunSpinnerDraw(t *testing.T) {
	var buf bytes.Buffer
	s := newRunSpinner(context.Background(), "Generating assets")
	s.w = &buf
	s.OnRunStart(context.Background(), "run", 3)

	s.draw(spinnerFrames[0])
	if !strings.Contains(buf.String(), "0/3") {
		t.Errorf("frame = %q, want counter", buf.String())
	}

	s.Start()
	s.Stop()
	s.Stop()
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestRunSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newRunSpinner(ctx, "Generating assets")
	s.w = &bytes.Buffer{}
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its parent context")
	}
	s.Stop()
}
