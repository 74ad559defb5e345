package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/indago/internal/models"
)

// ErrNoIdentity is returned when neither a website nor a ticker can be
// resolved for the requested company. It is the one failure that
// short-circuits a research request.
var ErrNoIdentity = errors.New("could not resolve company identity")

// ResolverService turns a free-text company reference into a canonical
// website URL and market ticker.
type ResolverService interface {
	// ResolveWebsite returns the company's canonical website URL, or ""
	// when no result is found.
	ResolveWebsite(ctx context.Context, name string) string

	// ResolveTicker returns the market ticker for a company name or URL,
	// or "" when every strategy fails.
	ResolveTicker(ctx context.Context, nameOrURL string) string

	// Resolve builds a full CompanyIdentity. Returns ErrNoIdentity when
	// neither website nor ticker can be found for a non-URL input.
	Resolve(ctx context.Context, input string) (models.CompanyIdentity, error)
}
