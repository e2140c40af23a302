package output

import (
	"fmt"
	"io"

	"github.com/m3hr4nn/logboss/internal/model"
)

// ProgressPrinter rewrites a single status line as files complete.
type ProgressPrinter struct {
	w    io.Writer
	last int // width of the previous line
}

// NewProgressPrinter returns a printer writing to w, usually stderr.
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{w: w}
}

// Run prints every event from ch until it is closed, then ends the line.
func (p *ProgressPrinter) Run(ch <-chan model.Progress) {
	printed := false
	for ev := range ch {
		p.Print(ev)
		printed = true
	}
	if printed {
		fmt.Fprintln(p.w)
	}
}

// Print renders one progress event over the previous one.
func (p *ProgressPrinter) Print(ev model.Progress) {
	width := len(fmt.Sprint(ev.Total))
	line := fmt.Sprintf("[%*d/%d] (%5.1f%%) %s - %d matches found (%.1fs)",
		width, ev.Completed, ev.Total, ev.Percent(), ev.Path, ev.Records, ev.Elapsed.Seconds())

	pad := p.last - len(line)
	p.last = len(line)
	if pad < 0 {
		pad = 0
	}

	status := line
	if ev.Err != "" {
		status = styleError.Render(line)
	}
	fmt.Fprintf(p.w, "\r%s%*s", status, pad, "")
}
