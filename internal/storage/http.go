package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSource downloads the dataset with a GET request
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates a source that fetches url with the given timeout
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	req.Header.Set("Accept", "text/csv, */*")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, unavailable(s.Describe(), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return resp.Body, nil
}

func (s *HTTPSource) Describe() string {
	return "http:" + s.URL
}
