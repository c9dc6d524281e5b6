package main

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/myrjola/liftcalc/internal/errors"
)

// renderMarkdownToHTML converts scheme descriptions and step notes to HTML. Raw HTML in the source is escaped
// since custom schemes come from a user supplied file.
func (app *application) renderMarkdownToHTML(ctx context.Context, markdown string) template.HTML {
	var buf bytes.Buffer
	if err := app.markdown.Convert([]byte(markdown), &buf); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "render markdown", errors.SlogError(err))
		return template.HTML(template.HTMLEscapeString(markdown)) //nolint:gosec // escaped above.
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark omits raw HTML by default.
}
