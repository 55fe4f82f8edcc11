package client

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// File is a picture staged for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadFile loads a local file, guessing its media type from the extension
// and falling back to content sniffing.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return File{Name: filepath.Base(path), ContentType: contentType, Data: data}, nil
}
