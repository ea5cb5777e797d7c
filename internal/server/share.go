package server

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/variant-studio/internal/store"
	"github.com/jonathan/variant-studio/internal/types"
)

var sharePage = template.Must(template.New("share").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Found}}Variants {{.Result.RequestID}}{{else}}Variants not found{{end}}</title>
<style>
body{font-family:system-ui,sans-serif;max-width:760px;margin:2rem auto;padding:0 1rem;color:#1f2933}
.variant{border:1px solid #d9e2ec;border-radius:8px;padding:1rem;margin:1rem 0}
.channel{font-weight:600}
.specs{color:#627d98;font-size:.9rem}
pre{white-space:pre-wrap;font-family:inherit}
</style>
</head>
<body>
{{- if .Found}}
<h1>Variants</h1>
<p>Goal: {{.Result.Goal}} &middot; Created {{.Result.CreatedAt.Format "2006-01-02 15:04 MST"}}</p>
{{- range .Result.Variants}}
<div class="variant">
<div class="channel">{{.Channel}}</div>
<pre>{{.Copy}}</pre>
{{- if .Specs}}<div class="specs">{{range $i, $s := .Specs}}{{if $i}} &middot; {{end}}{{$s}}{{end}}</div>{{end}}
{{- if .Rationale}}<p>{{.Rationale}}</p>{{end}}
</div>
{{- end}}
{{- with .Result.ABPlan}}
<h2>A/B plan</h2>
<p>{{.Hypothesis}}</p>
<ul>
<li>A: {{.VariantA}}</li>
<li>B: {{.VariantB}}</li>
<li>Metric: {{.Metric}}</li>
<li>Run: {{.Run}}</li>
</ul>
{{- end}}
{{- with .Result.CSVURL}}<p><a href="{{.}}">Download CSV</a></p>{{end}}
{{- else}}
<h1>Variants not found</h1>
<p>This link is unknown or has expired.</p>
{{- end}}
</body>
</html>
`))

type sharePageData struct {
	Found  bool
	Result types.GenerationResult
}

// handleSharePage renders a stored result as a read-only HTML page
func (s *Server) handleSharePage(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	data := sharePageData{Found: true}

	result, err := s.service.Lookup(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
		data.Found = false
	case err != nil:
		s.logger.Error("share lookup failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	default:
		data.Result = result
	}

	var buf bytes.Buffer
	if err := sharePage.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render share page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck
}
