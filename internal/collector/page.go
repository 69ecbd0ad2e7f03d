package collector

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Some wikis refuse requests without a browser-looking User-Agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// FetchError reports a failed document retrieval: network error,
// timeout, or a non-success status. Fatal for the run; there is no
// retry.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PageFetcher implements Fetcher over plain HTTP with a bounded client
// timeout. One best-effort attempt per call.
type PageFetcher struct {
	Client *http.Client
}

// NewPageFetcher creates a fetcher whose requests abort after timeout.
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	return &PageFetcher{
		Client: &http.Client{Timeout: timeout},
	}
}

func (f *PageFetcher) Name() string { return "http" }

// Fetch performs a single GET and returns the response body as text.
func (f *PageFetcher) Fetch(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	return string(body), nil
}

// MockFetcher returns canned markup for development and testing.
type MockFetcher struct {
	HTML string
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.HTML, nil
}
