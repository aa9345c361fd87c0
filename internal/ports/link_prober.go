package ports

import (
	"context"

	"github.com/avin/lectern/internal/domain"
)

// LinkProber checks that an external URL still answers.
type LinkProber interface {
	Probe(ctx context.Context, url string) domain.ProbeResult
}
