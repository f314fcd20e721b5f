package termlog

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// SectionWriter provides structured terminal output with color-coded sections.
type SectionWriter struct {
	w    io.Writer
	errW io.Writer

	cyan   func(a ...interface{}) string
	blue   func(a ...interface{}) string
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// NewSectionWriter creates a new SectionWriter. Errors go to errW; if errW is
// nil they go to os.Stderr.
func NewSectionWriter(w, errW io.Writer, colors bool) *SectionWriter {
	if w == nil {
		w = os.Stdout
	}
	if errW == nil {
		errW = os.Stderr
	}
	sprint := func(c *color.Color) func(a ...interface{}) string {
		if !colors {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &SectionWriter{
		w:      w,
		errW:   errW,
		cyan:   sprint(color.New(color.FgCyan)),
		blue:   sprint(color.New(color.FgBlue)),
		green:  sprint(color.New(color.FgGreen)),
		yellow: sprint(color.New(color.FgYellow)),
		red:    sprint(color.New(color.FgRed)),
	}
}

// Section prints a section header.
func (s *SectionWriter) Section(name string) {
	fmt.Fprintf(s.w, "\n%s\n", s.cyan("── "+name+" ──"))
}

// Info prints an info message.
func (s *SectionWriter) Info(format string, args ...any) {
	fmt.Fprintf(s.w, "%s %s\n", s.blue("▸"), fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (s *SectionWriter) Success(format string, args ...any) {
	fmt.Fprintf(s.w, "%s %s\n", s.green("✓"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message.
func (s *SectionWriter) Warn(format string, args ...any) {
	fmt.Fprintf(s.w, "%s %s\n", s.yellow("⚠"), fmt.Sprintf(format, args...))
}

// Error prints an error message to the error writer.
func (s *SectionWriter) Error(format string, args ...any) {
	fmt.Fprintf(s.errW, "%s %s\n", s.red("✗"), fmt.Sprintf(format, args...))
}

// Plain prints a message with no prefix or color. Used for operator-facing
// literals whose exact text matters.
func (s *SectionWriter) Plain(format string, args ...any) {
	fmt.Fprintf(s.w, format+"\n", args...)
}
