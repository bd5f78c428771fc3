package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	custom_error "logistics/pkg/errors"
)

//go:embed templates/inventory.html.tmpl
var templatesFS embed.FS

// documentTemplate is parsed once at startup and only read afterwards.
// html/template escapes every interpolated value contextually, which is what
// keeps free-text fields (comments, presence, addresses) inert in the
// document body.
var documentTemplate = template.Must(
	template.ParseFS(templatesFS, "templates/inventory.html.tmpl"),
)

// Render walks the assembled model and emits the styled document markup the
// pagination driver consumes. The layout is fixed: page shell, header block,
// title, premises summary, items table, process narrative, signature table
// and the closing disclosure, in that order.
func Render(model *Model) ([]byte, error) {
	if model == nil {
		return nil, custom_error.NewMissingFieldError("report model")
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, model); err != nil {
		return nil, fmt.Errorf("rendering inventory document: %w", err)
	}
	return buf.Bytes(), nil
}
