// Package site renders the HTML form pages and serves their assets.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
)

// Error constants
var (
	ErrRender = errors.New("page render failed")
)

//go:embed templates/index.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// A broken template is a build defect; fail at startup rather than per request.
var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Page is the data rendered by the form page.
type Page struct {
	// Submitted values, echoed back into the form.
	Experience     string
	TestScore      string
	InterviewScore string

	PredictionText string
	ErrorText      string
}

// Render writes the form page with status. The page is rendered to a
// buffer first so a template failure never produces a half-written 200.
func Render(w http.ResponseWriter, status int, p Page) error {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, p); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return errors.Join(ErrRender, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// Register attaches the embedded static assets to mux under /static/.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}

// RootHandler handles root path requests
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests and renders the empty form.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	_ = Render(w, http.StatusOK, Page{})
}
