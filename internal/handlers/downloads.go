package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
)

// DownloadsHandler serves generated artifacts (PDFs, decks, charts) from
// the downloads directory. Only flat filenames are served; traversal
// components are rejected.
type DownloadsHandler struct {
	dir    string
	logger arbor.ILogger
}

func NewDownloadsHandler(dir string, logger arbor.ILogger) *DownloadsHandler {
	return &DownloadsHandler{
		dir:    dir,
		logger: logger.WithPrefix("downloads"),
	}
}

// ServeHandler handles GET /downloads/{filename}
func (h *DownloadsHandler) ServeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/downloads/")
	if name == "" || name != filepath.Base(name) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}
