package services

import (
	"context"
	"errors"
	"strings"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/logger"
	"foodtracker/internal/openfoodfacts"
)

// MinSearchQueryLength is the shortest accepted product search query.
const MinSearchQueryLength = 3

// productSearcher proxies product searches to OpenFoodFacts.
type productSearcher struct {
	client *openfoodfacts.Client
}

// NewProductSearcher creates a new ProductSearcher.
func NewProductSearcher(client *openfoodfacts.Client) ProductSearcher {
	return &productSearcher{client: client}
}

// SearchProducts runs a full-text search. Unreachable upstream maps to
// ErrExternalUnavailable and upstream error statuses to
// ErrExternalBadResponse.
func (s *productSearcher) SearchProducts(ctx context.Context, query string) ([]openfoodfacts.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchQueryLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "search query must be at least 3 characters long")
	}

	results, err := s.client.Search(ctx, query)
	if err != nil {
		logger.Named("openfoodfacts").Warnw("product search failed", "query", query, "error", err)
		var statusErr *openfoodfacts.StatusError
		switch {
		case errors.As(err, &statusErr):
			return nil, apperrors.Wrap(apperrors.ErrExternalBadResponse, err)
		case errors.Is(err, openfoodfacts.ErrUnavailable):
			return nil, apperrors.Wrap(apperrors.ErrExternalUnavailable, err)
		default:
			return nil, apperrors.Wrap(apperrors.ErrExternalBadResponse, err)
		}
	}
	return results, nil
}
