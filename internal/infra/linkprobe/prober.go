package linkprobe

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
)

type Config struct {
	// Total timeout for one probe (includes redirects and the header read).
	// A context deadline can still override this.
	Timeout time.Duration

	// Transport / dial timeouts.
	DialTimeout     time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int

	// MaxRedirects caps how far a probe follows before settling for the
	// last response.
	MaxRedirects int

	UserAgent string
}

func DefaultConfig() Config {
	return Config{
		Timeout:             10 * time.Second,
		DialTimeout:         5 * time.Second,
		TLSHandshake:        5 * time.Second,
		ResponseHeader:      10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 4,
		MaxRedirects:        5,
		UserAgent:           "lectern-link-check",
	}
}

type Prober struct {
	client    *http.Client
	userAgent string
}

type Option func(*Prober)

// WithClient swaps the HTTP client; useful for tests.
func WithClient(c *http.Client) Option {
	return func(p *Prober) { p.client = c }
}

func New(cfg Config, opts ...Option) *Prober {
	dialer := &net.Dialer{
		Timeout: cfg.DialTimeout,
	}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		ForceAttemptHTTP2: true,

		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}

	maxRedirects := cfg.MaxRedirects
	p := &Prober{
		client: &http.Client{
			Transport: tr,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ ports.LinkProber = (*Prober)(nil)

// Probe issues a HEAD request and falls back to GET for hosts that reject
// HEAD. Failures come back classified, never as errors.
func (p *Prober) Probe(ctx context.Context, url string) domain.ProbeResult {
	res := p.do(ctx, http.MethodHead, url)
	if res.Kind == domain.ProbeHTTP && headUnsupported(res.StatusCode) {
		res = p.do(ctx, http.MethodGet, url)
	}
	return res
}

func headUnsupported(status int) bool {
	switch status {
	case http.StatusMethodNotAllowed, http.StatusNotImplemented, http.StatusForbidden:
		return true
	}
	return false
}

func (p *Prober) do(ctx context.Context, method, url string) domain.ProbeResult {
	res := domain.ProbeResult{URL: url}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		res.Kind = domain.ProbeUnknown
		res.Message = err.Error()
		return res
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		res.Kind = domain.ClassifyProbeError(err)
		res.Message = err.Error()
		return res
	}
	defer resp.Body.Close()
	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	res.StatusCode = resp.StatusCode
	if resp.StatusCode >= 400 {
		res.Kind = domain.ProbeHTTP
		res.Message = resp.Status
		return res
	}

	res.Kind = domain.ProbeOK
	return res
}
