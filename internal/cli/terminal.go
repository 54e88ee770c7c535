package cli

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/vijay-prabhu/jobradar/internal/runner"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal   bool
	UseColor     bool
	spinnerIndex int
}

// NewTerminal creates a new Terminal instance
func NewTerminal() *Terminal {
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal && os.Getenv("NO_COLOR") == "",
	}
}

// ClearLine clears the current line (terminal only)
func (t *Terminal) ClearLine() {
	if t.IsTerminal {
		fmt.Print("\r\033[K")
	}
}

// Spinner returns the next spinner frame
func (t *Terminal) Spinner() string {
	if !t.IsTerminal {
		return ""
	}
	frame := spinnerFrames[t.spinnerIndex]
	t.spinnerIndex = (t.spinnerIndex + 1) % len(spinnerFrames)
	return frame
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return ColorText(color, text)
}

// ColorText wraps text in the given ANSI color
func ColorText(color, text string) string {
	return color + text + ColorReset
}

// FormatETA formats a duration as a human-readable ETA string
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}

// PhaseColor returns the color for a run phase
func PhaseColor(phase runner.ProgressPhase) string {
	switch phase {
	case runner.PhaseFetching:
		return ColorBlue
	case runner.PhaseLoading:
		return ColorCyan
	case runner.PhaseScoring:
		return ColorPurple
	case runner.PhaseSaving:
		return ColorGreen
	case runner.PhaseNotifying:
		return ColorYellow
	default:
		return ColorWhite
	}
}

// ScoreColor returns the color for a match score
func ScoreColor(score int) string {
	switch {
	case score >= 80:
		return ColorGreen
	case score >= 60:
		return ColorYellow
	case score >= 40:
		return ColorWhite
	default:
		return ColorGray
	}
}

// progressPrinter renders runner progress on one updating line
func progressPrinter(terminal *Terminal) runner.ProgressCallback {
	var lastPhase runner.ProgressPhase
	var phaseStart time.Time

	return func(p runner.Progress) {
		if p.Phase != lastPhase {
			phaseStart = time.Now()
		}
		p.StartedAt = phaseStart

		var msg string
		switch {
		case p.Total > 0:
			eta := ""
			if d := p.ETA(); d > 0 {
				eta = fmt.Sprintf(" (ETA: %s)", FormatETA(d))
			}
			msg = fmt.Sprintf("%s: %d/%d (%d%%)%s", p.Description, p.Current, p.Total, p.Percentage(), eta)
		default:
			msg = fmt.Sprintf("%s %s...", terminal.Spinner(), p.Description)
		}
		if p.Radar != "" {
			msg = fmt.Sprintf("[%s] %s", p.Radar, msg)
		}
		msg = terminal.Color(PhaseColor(p.Phase), msg)

		if terminal.IsTerminal {
			terminal.ClearLine()
			fmt.Print(msg)
			os.Stdout.Sync()
		} else if p.Phase != lastPhase {
			fmt.Fprintln(os.Stderr, msg)
		}
		lastPhase = p.Phase
	}
}
