// Package docgen exports an index as a Markdown or HTML API reference.
package docgen

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// Format selects the export rendering.
type Format string

//revive:disable:exported
const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

//revive:enable:exported

// Options configures an export.
type Options struct {
	Title string
	// Keep, when set, limits the reference to the types it accepts.
	Keep func(symbol.ID) bool
}

func (o Options) title() string {
	if o.Title == "" {
		return "API reference"
	}
	return o.Title
}

// Write renders t in format to w.
func Write(w io.Writer, t *symbol.Tree, format Format, opts Options) error {
	var out []byte
	switch format {
	case FormatMarkdown, "markdown", "":
		out = Markdown(t, opts)
	case FormatHTML:
		out = HTML(t, opts)
	default:
		return fmt.Errorf("unsupported docs format %q: valid values are md, html", format)
	}
	_, err := w.Write(out)
	return err
}

// Markdown renders one section per namespace holding types, one subsection
// per type, and a member table per type.
func Markdown(t *symbol.Tree, opts Options) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n", opts.title())

	t.Walk(t.Root(), func(id symbol.ID, _ int) bool {
		s := t.Get(id)
		if s.Kind != symbol.Namespace {
			return false
		}
		types := typesOf(t, id, opts)
		if len(types) == 0 {
			return true
		}
		fmt.Fprintf(&b, "\n## Namespace %s\n", t.FullPath(id))
		for _, ty := range types {
			writeType(&b, t, ty, "", opts)
		}
		return true
	})
	return b.Bytes()
}

func typesOf(t *symbol.Tree, ns symbol.ID, opts Options) []symbol.ID {
	var out []symbol.ID
	for _, c := range t.Children(ns) {
		if !t.Get(c).Kind.IsType() {
			continue
		}
		if opts.Keep != nil && !opts.Keep(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func writeType(b *bytes.Buffer, t *symbol.Tree, id symbol.ID, outer string, opts Options) {
	s := t.Get(id)
	name := s.Name
	if outer != "" {
		name = outer + "." + name
	}
	fmt.Fprintf(b, "\n### %s\n\n", name)
	fmt.Fprintf(b, "`%s`\n", s.Description)

	var members, nested []symbol.ID
	for _, c := range t.Children(id) {
		if t.Get(c).Kind.IsMember() {
			members = append(members, c)
		} else {
			nested = append(nested, c)
		}
	}
	if len(members) > 0 {
		b.WriteString("\n| Member | Kind | Signature |\n|---|---|---|\n")
		for _, m := range members {
			ms := t.Get(m)
			fmt.Fprintf(b, "| %s | %s | `%s` |\n", cell(ms.Name), ms.Kind, cell(strings.TrimSpace(ms.Description)))
		}
	}
	for _, n := range nested {
		writeType(b, t, n, name, opts)
	}
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// HTML renders the Markdown reference into a standalone page.
func HTML(t *symbol.Tree, opts Options) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(Markdown(t, opts))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	body := markdown.Render(doc, renderer)

	var b bytes.Buffer
	writeHeader(&b, opts.title())
	b.Write(body)
	writeFooter(&b)
	return b.Bytes()
}

func writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #ddd; padding: 4px 8px; text-align: left; }
code { font-size: 0.9em; }
</style>
</head>
<body>
`, html.EscapeString(title))
}

func writeFooter(w io.Writer) {
	fmt.Fprint(w, "</body>\n</html>\n")
}
