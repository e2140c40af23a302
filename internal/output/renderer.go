package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/m3hr4nn/logboss/internal/model"
)

// Renderer writes Record values to an output stream.
type Renderer interface {
	Render(rec model.Record) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleTime    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleCommand = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	styleSource  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true) // cyan
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	styleLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleBox     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// TextRenderer prints matched lines with the command highlighted.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(rec model.Record) error {
	ts := rec.Timestamp
	if ts == "" {
		ts = "-"
	}
	src := styleSource.Render(fmt.Sprintf("%s:%d", rec.Source, rec.Line))

	line := fmt.Sprintf("%s %s %s %s", styleTime.Render(ts), styleCommand.Render(rec.Command()), src, rec.Raw)
	_, err := fmt.Fprintln(r.w, line)
	return err
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each record as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

func (r *JSONRenderer) Render(rec model.Record) error {
	return r.enc.Encode(rec)
}
