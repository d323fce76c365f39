// Package markdown renders record details for the TUI.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/atlas/internal/catalog"
)

// noMarginStyle drops glamour's document margin so output lines up with the
// surrounding panel.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour renderer bound to a wrap width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer that wraps at width.
func New(width int) (*Renderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

func (r *Renderer) Width() int {
	return r.width
}

// Render turns markdown into styled terminal text.
func (r *Renderer) Render(md string) (string, error) {
	return r.renderer.Render(md)
}

// RenderRecord renders the detail view of rec.
func (r *Renderer) RenderRecord(rec catalog.Record) (string, error) {
	return r.Render(RecordMarkdown(rec))
}

// RecordMarkdown builds the markdown shown in the record detail pane.
func RecordMarkdown(rec catalog.Record) string {
	var b strings.Builder

	title := rec.Title
	if title == "" {
		title = rec.Identifier
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(title))

	if rec.Abstract != "" {
		b.WriteString(rec.Abstract)
		b.WriteString("\n\n")
	}

	if rec.LayerName != "" {
		fmt.Fprintf(&b, "**Layer:** `%s` (%s)\n\n", rec.LayerName, strings.ToUpper(string(rec.LayerType)))
	}
	if rec.BBox != nil {
		fmt.Fprintf(&b, "**Extent:** %.4f, %.4f, %.4f, %.4f (%s)\n\n",
			rec.BBox.MinX, rec.BBox.MinY, rec.BBox.MaxX, rec.BBox.MaxY, rec.BBox.CRS)
	}
	if len(rec.Keywords) > 0 {
		fmt.Fprintf(&b, "**Keywords:** %s\n\n", escape(strings.Join(rec.Keywords, ", ")))
	}
	if len(rec.References) > 0 {
		b.WriteString("## References\n\n")
		for _, ref := range rec.References {
			scheme := ref.Scheme
			if scheme == "" {
				scheme = "link"
			}
			fmt.Fprintf(&b, "- %s: %s\n", escape(scheme), ref.URL)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

var markdownEscaper = strings.NewReplacer(
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`#`, `\#`,
	`[`, `\[`,
	`]`, `\]`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
