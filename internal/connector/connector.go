package connector

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
)

// DefaultTimeout bounds one upstream request. Both upstreams answer
// within a few seconds; anything slower is treated as unavailable.
const DefaultTimeout = 12 * time.Second

// userAgent identifies us to upstream services, as the Federal Register
// API guidelines recommend.
const userAgent = "regtrace-engine/1.0 (+https://github.com/Rchd21/Hackathon-PLM-DPM)"

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// upstreamErr classifies a failed round trip. Context expiry counts as
// unavailability: the caller's deadline fired while the upstream dawdled.
func upstreamErr(source, subject string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fault.Wrap(fault.KindUpstreamUnavailable, subject, source+" timed out", err)
	}
	return fault.Wrap(fault.KindUpstreamUnavailable, subject, source+" unreachable", err)
}

// significantLen counts non-whitespace characters. Used to drop documents
// whose fetched body is too thin to be a usable legal text.
func significantLen(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			n++
		}
	}
	return n
}
