package server

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/brattlof/featgen/internal/catalog"
)

// IndexPage lists every feature type and the files it produces.
func IndexPage(types []catalog.FeatureType) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html>
<head><title>featgen</title></head>
<body>
<h1>Feature types</h1>
`); err != nil {
			return err
		}

		for _, ft := range types {
			if _, err := fmt.Fprintf(w, "<section id=%q>\n<h2>%s</h2>\n<p>%s</p>\n<ul>\n",
				templ.EscapeString(ft.Key), templ.EscapeString(ft.Key), templ.EscapeString(ft.Description)); err != nil {
				return err
			}
			for _, f := range ft.Files {
				if _, err := fmt.Fprintf(w, "<li><code>%s</code></li>\n", templ.EscapeString(f.Path)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</ul>\n</section>\n"); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `<p>POST /api/generate with {"type","name","ticket_id"} to scaffold a feature.</p>
</body>
</html>
`)
		return err
	})
}
