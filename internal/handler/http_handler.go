package handler

import (
	"net/http"
	"path/filepath"
)

// HTTPHandler serves the chat page and the health probe. Page rendering is
// deliberately dumb: one static file, everything dynamic happens over the
// websocket.
type HTTPHandler struct {
	webDir string
}

func NewHTTPHandler(webDir string) *HTTPHandler {
	return &HTTPHandler{webDir: webDir}
}

func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.webDir, "index.html"))
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/health", h.Health)
}
