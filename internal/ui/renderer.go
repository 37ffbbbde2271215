package ui

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"unsafe"

	"github.com/ecnspider/ecnspider/internal/stats"
)

// ANSI color helpers (8/16-color safe).
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"

	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// Renderer defines the minimal interface used by the engine's optional
// interactive HUD. It is only driven when stdout is a terminal — the
// crawler's authoritative progress record is always the structured log,
// not this display.
type Renderer interface {
	Render(snap stats.ReporterSnapshot)
	RenderFinal(snap stats.ReporterSnapshot)
}

// asciiRenderer prints a single-line, continuously refreshed HUD and a
// small boxed summary at the end of a run.
type asciiRenderer struct {
	lastLineLen int
	headerShown bool
}

// NewRenderer creates a new ASCII renderer.
func NewRenderer() Renderer {
	return &asciiRenderer{}
}

// winsize mirrors the struct used by TIOCGWINSZ.
type winsize struct {
	rows    uint16
	cols    uint16
	xpixels uint16
	ypixels uint16
}

// termWidth returns the current terminal width, or a sensible default.
func termWidth() int {
	ws := &winsize{}
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL,
		uintptr(os.Stdout.Fd()),
		uintptr(syscall.TIOCGWINSZ),
		uintptr(unsafe.Pointer(ws)),
	)
	if err != 0 || ws.cols == 0 {
		return 80
	}
	return int(ws.cols)
}

// visibleLen returns the byte length of s without ANSI escape sequences; a
// multi-byte rune counts once per byte.
func visibleLen(s string) int {
	n := 0
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] == ';') {
				i++
			}
			if i < len(s) {
				i++
			}
			continue
		}
		n++
		i++
	}
	return n
}

// truncateToWidth ensures the line fits in the current terminal width.
func truncateToWidth(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

func (r *asciiRenderer) clearLine() {
	if r.lastLineLen == 0 {
		return
	}
	fmt.Fprint(os.Stdout, "\r\033[2K")
}

func (r *asciiRenderer) Render(snap stats.ReporterSnapshot) {
	r.clearLine()

	if !r.headerShown {
		width := termWidth()
		if width > 72 {
			width = 72
		}
		border := strings.Repeat("─", width)
		title := fmt.Sprintf("%s%secnspider crawl%s", colorBold, colorCyan, colorReset)
		fmt.Fprintf(os.Stdout, "%s\n%s\n", title, border)
		fmt.Fprintf(os.Stdout, "%sControls:%s Ctrl+C to stop\n\n", colorDim, colorReset)
		r.headerShown = true
	}

	line := fmt.Sprintf(
		"%s[ecnspider]%s queue=%d/%d %sdone=%d%s retries=%d rate=%.1f/s avg=%.1f/s runtime=%s",
		colorCyan, colorReset,
		snap.QueueLen, snap.QueueCap,
		colorGreen, snap.Completed, colorReset,
		snap.Retries, snap.CurrentRate, snap.AverageRate,
		snap.Runtime.Truncate(1e9),
	)
	line = truncateToWidth(line, termWidth())

	fmt.Fprint(os.Stdout, line)
	r.lastLineLen = len(line)
}

func (r *asciiRenderer) RenderFinal(snap stats.ReporterSnapshot) {
	r.clearLine()
	fmt.Fprintln(os.Stdout)

	padTo := func(s string, n int) string {
		need := n - visibleLen(s)
		if need <= 0 {
			return s
		}
		return s + strings.Repeat(" ", need)
	}

	width := termWidth()
	if width > 72 {
		width = 72
	}
	inner := width - 2
	hLine := strings.Repeat("─", inner)

	fmt.Fprintf(os.Stdout, "┌%s┐\n", hLine)
	fmt.Fprintf(os.Stdout, "│%s│\n", padTo(" "+colorBold+"Summary"+colorReset, inner))
	fmt.Fprintf(os.Stdout, "├%s┤\n", hLine)

	row := func(label, value string, valueColor string) {
		if valueColor == "" {
			valueColor = colorReset
		}
		s := " " + colorBold + label + colorReset + " : " + valueColor + value + colorReset
		fmt.Fprintf(os.Stdout, "│%s│\n", padTo(s, inner))
	}

	row("Completed", fmt.Sprintf("%d", snap.Completed), colorGreen)
	row("Retries scheduled", fmt.Sprintf("%d", snap.Retries), colorYellow)
	row("Median job interval", fmt.Sprintf("%.3f s", snap.MedianJobInterval), "")
	row("Average rate", fmt.Sprintf("%.2f jobs/s", snap.AverageRate), "")
	row("Runtime", snap.Runtime.String(), "")

	fmt.Fprintf(os.Stdout, "└%s┘\n", hLine)
	fmt.Fprintf(os.Stdout, "%sDone.%s\n", colorDim, colorReset)
}
