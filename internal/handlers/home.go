package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"runtime"
	"strconv"
)

//go:embed templates/home.html
var templates embed.FS

type homePage struct {
	Framework string
	GoVersion string
	Status    string
}

// HomeHandler serves the welcome page. The page is rendered once, every
// request gets the same bytes.
type HomeHandler struct {
	body []byte
}

func NewHomeHandler() (*HomeHandler, error) {
	tmpl, err := template.ParseFS(templates, "templates/home.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing home template: %w", err)
	}

	var buf bytes.Buffer
	page := homePage{
		Framework: "Go net/http + gorilla/mux",
		GoVersion: runtime.Version(),
		Status:    "Ready for Production",
	}
	if err := tmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("error rendering home template: %w", err)
	}

	return &HomeHandler{body: buf.Bytes()}, nil
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(h.body)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	w.Write(h.body)
}
