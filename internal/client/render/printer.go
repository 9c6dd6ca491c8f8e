package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// Printer writes markdown to w, styled for the terminal unless plain.
type Printer struct {
	w  io.Writer
	tr *glamour.TermRenderer
}

// NewPrinter returns a Printer. style is a glamour standard style name
// ("dark", "light", "ascii", "notty"); plain disables styling.
func NewPrinter(w io.Writer, plain bool, style string, width int) (*Printer, error) {
	p := &Printer{w: w}
	if plain {
		return p, nil
	}
	if style == "" {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	p.tr = tr
	return p, nil
}

func (p *Printer) Print(md string) error {
	out := md
	if p.tr != nil {
		var err error
		if out, err = p.tr.Render(md); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
	}
	_, err := io.WriteString(p.w, out)
	return err
}
