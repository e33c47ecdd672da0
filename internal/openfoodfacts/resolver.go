package openfoodfacts

import (
	"context"

	"go.uber.org/zap"

	"foodtracker/internal/catalog"
)

// CategoryResolver maps an external product id to the name of one of the
// built-in categories.
type CategoryResolver struct {
	client  *Client
	entries []catalog.Entry
	log     *zap.SugaredLogger
}

// NewCategoryResolver creates a resolver that classifies products with the
// keyword map in entries.
func NewCategoryResolver(client *Client, entries []catalog.Entry, log *zap.SugaredLogger) *CategoryResolver {
	return &CategoryResolver{client: client, entries: entries, log: log}
}

// ResolveCategory returns the category name for externalID. Lookup failures
// are logged and reported as no match.
func (r *CategoryResolver) ResolveCategory(ctx context.Context, externalID string) (string, bool) {
	tags, err := r.client.ProductCategories(ctx, externalID)
	if err != nil {
		r.log.Warnw("category lookup failed", "external_id", externalID, "error", err)
		return "", false
	}
	if len(tags) == 0 {
		return "", false
	}
	return catalog.Match(r.entries, tags)
}
