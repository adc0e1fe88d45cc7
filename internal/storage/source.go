package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"covidreport/internal/config"
)

// ErrSourceUnavailable wraps every failure to open the raw dataset
var ErrSourceUnavailable = errors.New("dataset source unavailable")

// Source provides the raw dataset stream. Callers close the reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Describe names the source for logs and health output
	Describe() string
}

// New builds the source selected by cfg.Source
func New(cfg config.DatasetConfig) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Source {
	case config.SourceFile:
		return NewFileSource(cfg.Path), nil
	case config.SourceHTTP:
		return NewHTTPSource(cfg.URL, cfg.Timeout), nil
	case config.SourceAzBlob:
		return NewBlobSource(cfg.ConnectionString, cfg.Container, cfg.Blob)
	default:
		return nil, fmt.Errorf("unsupported dataset source: %s", cfg.Source)
	}
}

func unavailable(desc string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, desc, err)
}
