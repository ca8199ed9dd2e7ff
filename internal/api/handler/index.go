package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type indexData struct {
	MaxMB  int64
	Accept string
}

// NewIndexHandler returns an http.HandlerFunc for GET / that serves the upload page.
func NewIndexHandler(maxBytes int64) http.HandlerFunc {
	data := indexData{
		MaxMB:  maxBytes >> 20,
		Accept: ".png,.jpg,.jpeg,.webp,.mp4,.mov,.avi,.mkv",
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		if err := indexTemplate.Execute(&buf, data); err != nil {
			slog.Error("rendering index", "error", err)
			http.Error(w, "Error interno", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}
