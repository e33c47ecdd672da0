// Package openfoodfacts talks to the public OpenFoodFacts API to look up
// product categories and search the product database.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the public OpenFoodFacts instance.
	DefaultBaseURL = "https://world.openfoodfacts.org"

	searchPageSize  = 15
	missingBrandMsg = "Brak informacji o marce"
)

// ErrUnavailable is returned when the API could not be reached.
var ErrUnavailable = errors.New("openfoodfacts: service unavailable")

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openfoodfacts: unexpected status %d", e.StatusCode)
}

// SearchResult is one product returned by Search.
type SearchResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Client is an OpenFoodFacts API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for baseURL. An empty baseURL selects the
// public instance.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type productResponse struct {
	Status  int `json:"status"`
	Product *struct {
		CategoriesTags []string `json:"categories_tags"`
	} `json:"product"`
}

// ProductCategories returns the category tags of the product with the given
// barcode. A product unknown to OpenFoodFacts yields no tags and no error.
func (c *Client) ProductCategories(ctx context.Context, externalID string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(externalID))

	var body productResponse
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	if body.Status != 1 || body.Product == nil {
		return nil, nil
	}
	return body.Product.CategoriesTags, nil
}

type searchResponse struct {
	Products []struct {
		ID            string `json:"id"`
		Code          string `json:"code"`
		ProductNamePL string `json:"product_name_pl"`
		ProductName   string `json:"product_name"`
		Brands        string `json:"brands"`
	} `json:"products"`
}

// Search runs a full-text product search.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", fmt.Sprintf("%d", searchPageSize))
	endpoint := c.baseURL + "/cgi/search.pl?" + params.Encode()

	var body searchResponse
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(body.Products))
	for _, p := range body.Products {
		id := p.ID
		if id == "" {
			id = p.Code
		}
		name := p.ProductNamePL
		if name == "" {
			name = p.ProductName
		}
		if id == "" || name == "" {
			continue
		}
		desc := p.Brands
		if desc == "" {
			desc = missingBrandMsg
		}
		results = append(results, SearchResult{ID: id, Name: name, Description: desc})
	}
	return results, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("openfoodfacts: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "FoodTracker/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openfoodfacts: decode response: %w", err)
	}
	return nil
}
