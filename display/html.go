package display

import (
	"html/template"
	"io"
)

// Templates for rendering cards as HTML. The "cards" template expects a
// []Card; other templates may be added to a Clone of it.
var HTMLTemplate = template.Must(template.New("cards").Parse(`
{{- range . -}}
<div class="card">
  <h3>{{ .Title }}</h3>
  <dl>
  {{- range .Items }}
    <dt>{{ .Label }}</dt><dd>{{ .Value }}</dd>
  {{- end }}
  </dl>
</div>
{{ end -}}
`))

// Render cards as HTML fragments.
func WriteHTML(w io.Writer, cards ...Card) error {
	return HTMLTemplate.ExecuteTemplate(w, "cards", cards)
}
