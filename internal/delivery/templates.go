package delivery

import (
	"embed"
	"html/template"

	"product_manager/pkg/money"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"vnd": money.VND,
	}).ParseFS(templateFS, "templates/*.html")
}
