package storage

import (
	"context"
	"io"
	"os"
)

// FileSource reads the dataset from a local file
type FileSource struct {
	Path string
}

// NewFileSource creates a file-backed source
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	return f, nil
}

func (s *FileSource) Describe() string {
	return "file:" + s.Path
}
