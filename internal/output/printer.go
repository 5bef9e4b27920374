// Package output renders preset runs and catalog listings for the terminal.
//
// [Printer] is an [engine.Sink]: plugging it into the engine prints one line
// per step as the sequence runs, with a progress bar on every settled step.
// Styling uses lipgloss and degrades to plain text when the writer is not a
// terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"flypad/internal/backend"
	"flypad/internal/catalog"
	"flypad/internal/engine"
)

// barWidth is the width of the rendered progress bar in cells.
const barWidth = 30

// Printer writes styled output.
type Printer struct {
	out    io.Writer
	bar    progress.Model
	styles styles
}

// NewPrinter creates a Printer writing to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a Printer writing to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{
		out:    w,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		styles: defaultStyles(),
	}
}

// Record implements [engine.Sink].
func (p *Printer) Record(ev engine.Event) {
	switch ev.Kind {
	case engine.EventStarted:
		p.printf("%s %s\n", p.styles.title.Render("Loading preset"),
			p.styles.header.Render(fmt.Sprintf("%d %s", ev.PresetID, ev.PresetName)))
	case engine.EventStepSkipped:
		p.step(p.styles.muted.Render("="), ev, "already set")
	case engine.EventActionIssued:
		p.step(p.styles.success.Render(">"), ev, "")
	case engine.EventConditionMet:
		p.step(p.styles.success.Render("✓"), ev, "")
	case engine.EventActionFailed, engine.EventEvaluateFailed:
		p.step(p.styles.warning.Render("!"), ev, errText(ev.Err))
	case engine.EventStepSettled:
		p.printf("       %s\n", p.Bar(ev.Percent))
	case engine.EventCompleted:
		p.printf("%s %s %s\n", p.styles.success.Render("✓ Preset loaded:"), ev.PresetName,
			p.styles.muted.Render("("+formatDuration(ev.Elapsed)+")"))
	case engine.EventAborted:
		p.printf("%s %s\n", p.styles.failure.Render("✗ Preset aborted:"), ev.Reason)
	case engine.EventRejected:
		p.printf("%s %s\n", p.styles.failure.Render("✗ Request rejected:"), errText(ev.Err))
	}
}

// Bar renders a progress bar for percent in the range 0 to 100.
func (p *Printer) Bar(percent float64) string {
	return p.bar.ViewAs(percent / 100)
}

// Presets prints the catalog contents, one preset per line.
func (p *Printer) Presets(cat *catalog.Catalog) {
	p.printf("%s\n", p.styles.title.Render("Presets"))
	for _, preset := range cat.Presets() {
		p.printf("%s  %s %s\n", p.styles.id.Render(fmt.Sprint(preset.ID)), preset.Name,
			p.styles.muted.Render(fmt.Sprintf("(%d steps)", preset.Len())))
	}
}

// Plan prints the dry run of a preset.
func (p *Printer) Plan(preset catalog.Preset, plan []engine.PlannedStep) {
	p.printf("%s %s\n", p.styles.title.Render("Preset"),
		p.styles.header.Render(fmt.Sprintf("%d %s", preset.ID, preset.Name)))

	for _, ps := range plan {
		var mark string
		switch ps.Outcome {
		case engine.OutcomeSkip, engine.OutcomePass:
			mark = p.styles.success.Render(string(ps.Outcome))
		case engine.OutcomeUnknown:
			mark = p.styles.failure.Render(string(ps.Outcome))
		default:
			mark = p.styles.warning.Render(string(ps.Outcome))
		}

		line := fmt.Sprintf("%s  %-9s %-6s %s", p.styles.id.Render(fmt.Sprint(ps.Step.ID)),
			ps.Step.Kind(), mark, ps.Step.Description)
		if ps.Step.DelayAfter > 0 {
			line += " " + p.styles.muted.Render("+"+formatDuration(ps.Step.DelayAfter))
		}
		if ps.Err != nil {
			line += " " + p.styles.warning.Render(ps.Err.Error())
		}
		p.printf("%s\n", line)
	}
}

// Variables prints name/value pairs in the order of names.
func (p *Printer) Variables(names []string, values map[string]float64) {
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		p.printf("%-*s  %g\n", width, name, values[name])
	}
}

// Channel prints the request and progress variable names.
func (p *Printer) Channel(v backend.Variables) {
	rows := [][2]string{
		{"request", v.Request},
		{"cancel", v.Cancel},
		{"progress", v.Progress},
		{"current_id", v.CurrentID},
		{"current_step", v.CurrentStep},
	}
	for _, row := range rows {
		p.printf("%-12s  %s\n", row[0], row[1])
	}
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	p.printf("%s\n", p.styles.success.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...any) {
	p.printf("%s\n", p.styles.failure.Render("✗ "+fmt.Sprintf(format, args...)))
}

func (p *Printer) step(mark string, ev engine.Event, note string) {
	desc := ev.Description
	if desc == "" {
		desc = fmt.Sprintf("step %d", ev.StepID)
	}
	line := fmt.Sprintf("  %s %s %s", mark, p.styles.id.Render(fmt.Sprint(ev.StepID)), desc)
	if note != "" {
		line += " " + p.styles.muted.Render("("+note+")")
	}
	p.printf("%s\n", line)
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
