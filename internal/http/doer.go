package http

import "net/http"

// Doer describes the subset of *http.Client used to execute requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
