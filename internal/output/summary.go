package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/m3hr4nn/logboss/internal/model"
)

// maxListedFailures caps how many failed files the summary lists.
const maxListedFailures = 10

// WriteSummary renders the run summary as a bordered box.
func WriteSummary(w io.Writer, s model.Summary, outputPath string) error {
	title := styleOK.Render("Scan complete")
	if s.Failed > 0 {
		title = styleError.Render(fmt.Sprintf("Scan complete with %d failed file(s)", s.Failed))
	}

	rows := [][2]string{
		{"Run", s.RunID},
		{"Files scanned", fmt.Sprintf("%d / %d", s.Scanned, s.Discovered)},
		{"Files failed", fmt.Sprint(s.Failed)},
		{"Records", fmt.Sprint(s.Records)},
		{"Elapsed", fmt.Sprintf("%.2fs", s.Elapsed.Seconds())},
		{"Rate", fmt.Sprintf("%.1f files/sec", rate(s))},
	}
	if outputPath != "" {
		rows = append(rows, [2]string{"Output", outputPath})
	}

	var b strings.Builder
	b.WriteString(title)
	for _, row := range rows {
		fmt.Fprintf(&b, "\n%s %s", styleLabel.Render(fmt.Sprintf("%-14s", row[0])), row[1])
	}

	if len(s.Failures) > 0 {
		b.WriteString("\n")
		for i, f := range s.Failures {
			if i == maxListedFailures {
				fmt.Fprintf(&b, "\n  ... and %d more", len(s.Failures)-maxListedFailures)
				break
			}
			fmt.Fprintf(&b, "\n  %s %s", styleError.Render("✗"), f.Path)
		}
	}

	_, err := fmt.Fprintln(w, styleBox.Render(b.String()))
	return err
}

func rate(s model.Summary) float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Completed()) / secs
}
