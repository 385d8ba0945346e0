package api

// DefaultBaseURL is the local Gerby API origin.
const DefaultBaseURL = "http://127.0.0.1:5000"

// DefaultCallback is the callback name sent in JSONP mode.
const DefaultCallback = "gerbyCallback"

// NewDefaultClient builds a client pointed at the default API origin.
func NewDefaultClient(opts ...Option) *Client {
	return NewClient(DefaultBaseURL, opts...)
}
