package port

import (
	"context"
	"errors"

	"github.com/bnema/cardex/internal/domain/entity"
)

// ErrCatalogUnavailable indicates the remote catalog could not produce a page.
// Adapters wrap their concrete failure with it.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// CharacterSource fetches one page of characters for a search term.
// An empty term means unfiltered. Implementations return an error for
// network failures, non-success statuses and malformed payloads; a
// successful response with zero results is not an error.
type CharacterSource interface {
	FetchPage(ctx context.Context, term string, page int) (*entity.Page, error)
}
