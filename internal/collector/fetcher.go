package collector

// Fetcher retrieves the raw source document.
type Fetcher interface {
	Fetch(url string) (string, error)
	Name() string
}
