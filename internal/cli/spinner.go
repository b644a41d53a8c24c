package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/assetforge/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// runSpinner animates a status line while a pipeline run is in flight.
//
// It doubles as observability.RenderHooks: once attached, the line shows
// how many variants of the run have finished. Events are forwarded to the
// hooks that were registered before it.
type runSpinner struct {
	label string
	w     io.Writer
	next  observability.RenderHooks

	total    atomic.Int64
	finished atomic.Int64
	failed   atomic.Int64

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	mu      sync.Mutex
	width   int
	once    sync.Once
}

func newRunSpinner(ctx context.Context, label string) *runSpinner {
	sctx, cancel := context.WithCancel(ctx)
	return &runSpinner{
		label:   label,
		w:       os.Stderr,
		next:    observability.NoopRenderHooks{},
		ctx:     sctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// attach registers the spinner as the render hooks and returns a function
// that restores the previous ones.
func (s *runSpinner) attach() (detach func()) {
	s.next = observability.Render()
	observability.SetRenderHooks(s)
	return func() { observability.SetRenderHooks(s.next) }
}

func (s *runSpinner) OnRunStart(ctx context.Context, runID string, variants int) {
	s.total.Store(int64(variants))
	s.next.OnRunStart(ctx, runID, variants)
}

func (s *runSpinner) OnRunComplete(ctx context.Context, runID string, succeeded, failed int, d time.Duration) {
	s.next.OnRunComplete(ctx, runID, succeeded, failed, d)
}

func (s *runSpinner) OnVariantStart(ctx context.Context, asset, variant, format string) {
	s.next.OnVariantStart(ctx, asset, variant, format)
}

func (s *runSpinner) OnVariantComplete(ctx context.Context, asset, variant string, size int64, d time.Duration, err error) {
	s.finished.Add(1)
	if err != nil {
		s.failed.Add(1)
	}
	s.next.OnVariantComplete(ctx, asset, variant, size, d, err)
}

// status renders the text after the frame, e.g. "Generating assets 3/12 (1 failed)".
func (s *runSpinner) status() string {
	msg := s.label
	if total := s.total.Load(); total > 0 {
		msg = fmt.Sprintf("%s %d/%d", msg, s.finished.Load(), total)
	}
	if failed := s.failed.Load(); failed > 0 {
		msg = fmt.Sprintf("%s (%d failed)", msg, failed)
	}
	return msg
}

// Start begins the animation.
func (s *runSpinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *runSpinner) draw(frame string) {
	msg := s.status()
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(msg) + 2; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(msg))
}

// Stop ends the animation and clears the line. It is safe to call more than once.
func (s *runSpinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		s.clearLine()
		s.cancel()
	})
}

func (s *runSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
	s.width = 0
}

// Cancelled reports whether the parent context ended before Stop.
func (s *runSpinner) Cancelled() bool {
	select {
	case <-s.done:
		return false
	default:
		return s.ctx.Err() != nil
	}
}
