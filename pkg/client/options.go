package client

import (
	"net/http"
	"time"
)

// Option configures a Client in NewClient. Zero and nil arguments leave the
// default in place.
type Option func(*Client)

// WithHTTPClient replaces the underlying client, transport included.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each attempt, not the whole call with its retries. The
// current transport is kept.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		var transport http.RoundTripper
		if c.httpClient != nil {
			transport = c.httpClient.Transport
		}
		c.httpClient = &http.Client{Timeout: d, Transport: transport}
	}
}

func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRetryMax sets how many times an idempotent call is resent after a
// transport failure or 5xx. Zero disables retries.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retryMax = n
		}
	}
}

// WithRetryWait sets the first backoff and its cap. The cap is only taken
// when it is not below min.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		if min <= 0 {
			return
		}
		c.retryWaitMin = min
		if max >= min {
			c.retryWaitMax = max
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeader adds a header to every request, for example a gateway token.
// Per-call headers such as If-Match take precedence.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if key == "" {
			return
		}
		if c.headers == nil {
			c.headers = http.Header{}
		}
		c.headers.Add(key, value)
	}
}

//Personal.AI order the ending
