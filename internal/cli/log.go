package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger. Timestamps read "HH:MM:SS.ms"; error
// values and variant names are highlighted in the palette used by the
// status output.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})

	styles := log.DefaultStyles()
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(colorRed)
	styles.Values["err"] = lipgloss.NewStyle().Foreground(colorRed)
	styles.Values["variant"] = lipgloss.NewStyle().Foreground(colorCyan)
	l.SetStyles(styles)
	return l
}

// progress times one command. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time under "duration".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "duration", p.elapsed())...)
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}
