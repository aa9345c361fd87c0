package domain

import (
	"context"
	"errors"
	"net"
)

// ProbeKind is a high-level classification of external link failures.
type ProbeKind string

const (
	ProbeOK         ProbeKind = "ok"
	ProbeTimeout    ProbeKind = "timeout"
	ProbeDNS        ProbeKind = "dns"
	ProbeConnection ProbeKind = "connection"
	// ProbeHTTP means the host answered with a broken status (>= 400).
	ProbeHTTP    ProbeKind = "http"
	ProbeUnknown ProbeKind = "unknown"
)

// ProbeResult is the outcome of checking one external URL.
type ProbeResult struct {
	URL        string    `json:"url"`
	Kind       ProbeKind `json:"kind"`
	StatusCode int       `json:"status_code,omitempty"`
	Message    string    `json:"message,omitempty"`
}

func (r ProbeResult) OK() bool {
	return r.Kind == ProbeOK
}

// ClassifyProbeError buckets a transport error for reporting. DNS wins over
// the generic net.Error match because *net.DNSError implements it too.
func ClassifyProbeError(err error) ProbeKind {
	if err == nil {
		return ProbeOK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ProbeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ProbeDNS
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ProbeTimeout
		}
		return ProbeConnection
	}

	return ProbeUnknown
}
