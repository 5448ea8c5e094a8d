package registry

import (
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// LoadHTTP fetches the reference table CSV from a URL. Transient upstream
// failures are retried with backoff before the load is declared failed.
func LoadHTTP(url string, retryMax int) (*Registry, error) {
	if url == "" {
		return nil, &DataLoadError{Source: "http", Err: fmt.Errorf("registry URL is not configured")}
	}

	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.Logger = nil

	resp, err := client.Get(url)
	if err != nil {
		return nil, &DataLoadError{Source: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DataLoadError{Source: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	return Parse(resp.Body, url)
}
