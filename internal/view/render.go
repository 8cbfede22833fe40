// internal/view/render.go
//
// Page shell rendering.
//
// Public helpers
// --------------
//   - Render         – write a full page to an http.ResponseWriter.
//   - RenderToString – return a named fragment as template.HTML.
//
// Templates live in templates/*.html and are embedded, so the binary needs
// no files on disk.  Every template gets two helpers:
//
//   - dict – build a map inline: {{ dict "k" 1 "k2" "v" }}.
//   - t    – translate a literal message via the page's Translate func.
//
// The parsed set is cloned per call so the per-request `t` helper never
// leaks between requests.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

// base is parsed once; Funcs are replaced on each clone.
var base = template.Must(
	template.New("view").Funcs(buildFuncMap(nil)).ParseFS(templatesFS, "templates/*.html"),
)

// Page is the data of the "page" template.
type Page struct {
	Title     string
	Lang      string
	Body      template.HTML
	Styles    []string
	Scripts   []string
	Translate func(string) string `json:"-"`
}

// Link is one entry of the "index" template.
type Link struct {
	Href  string
	Label string
}

//
// public helpers
//

// Render writes p with status code status.
func Render(w http.ResponseWriter, status int, p Page) error {
	var buf bytes.Buffer
	if err := execute(&buf, "page", p, p.Translate); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderToString executes the named template and returns safe HTML.
func RenderToString(name string, data any, translate func(string) string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := execute(&buf, name, data, translate); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// internal
//

func execute(buf *bytes.Buffer, name string, data any, translate func(string) string) error {
	t, err := base.Clone()
	if err != nil {
		return err
	}
	return t.Funcs(buildFuncMap(translate)).ExecuteTemplate(buf, name, data)
}

func buildFuncMap(translate func(string) string) template.FuncMap {
	if translate == nil {
		translate = func(s string) string { return s }
	}
	return template.FuncMap{
		"dict": dict,
		"t":    translate,
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
