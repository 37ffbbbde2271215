package ui

import "github.com/ecnspider/ecnspider/internal/stats"

// noopRenderer discards all output. It backs the HUD when stdout isn't a
// terminal (e.g. piped into a logfile or run under a test harness), and is
// what tests that don't care about rendering wire in instead of a real
// asciiRenderer.
type noopRenderer struct{}

func (noopRenderer) Render(stats.ReporterSnapshot)      {}
func (noopRenderer) RenderFinal(stats.ReporterSnapshot) {}

// NewNoopRenderer returns a Renderer that discards everything it's given.
func NewNoopRenderer() Renderer {
	return noopRenderer{}
}
