package streaming

import (
	"net/http"
	"os"
	"path/filepath"

	"homeflix/internal/media"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ServeFile streams a media file with Range support, so players can
// seek without downloading the whole file.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request, filePath string) {
	file, err := os.Open(filePath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Cannot read file", http.StatusInternalServerError)
		return
	}

	contentType := media.GetContentType(filePath)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")

	http.ServeContent(w, r, filepath.Base(filePath), stat.ModTime(), file)
}
