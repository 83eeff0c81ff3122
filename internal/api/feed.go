package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/agripath/agripath/internal/content"
)

// handleHTTPError processes common HTTP error status codes and returns appropriate errors.
// It consumes the response body and returns an error for non-success status codes.
func handleHTTPError(resp *http.Response) error {
	var e Error
	_ = decodeJSON(resp.Body, &e)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, e.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, e.Message)
	case http.StatusTooManyRequests:
		retryAfter := 0
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if v, err := strconv.Atoi(ra); err == nil {
				retryAfter = v
			}
		}
		return RateLimitedError{RetryAfterSeconds: retryAfter, Remote: e}
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrValidation, e.Message)
	default:
		return RemoteError{StatusCode: resp.StatusCode, Remote: e}
	}
}

func (c *Client) variables(extra map[string]any) map[string]any {
	vars := map[string]any{}
	if c.locale != "" {
		vars["locale"] = c.locale
	}
	for k, v := range extra {
		vars[k] = v
	}
	return vars
}

// FetchCatalog downloads the home screen catalog. The result is normalized
// and validated like a catalog loaded from disk.
func (c *Client) FetchCatalog(ctx context.Context) (*content.Catalog, error) {
	var data catalogData
	op := graphQLRequest{Query: catalogQuery, OperationName: "Catalog", Variables: c.variables(nil)}
	if err := c.graphQL(ctx, op, &data); err != nil {
		return nil, err
	}
	if data.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog", ErrNotFound)
	}
	if err := content.Finalize(data.Catalog); err != nil {
		return nil, fmt.Errorf("invalid remote catalog: %w", err)
	}
	logrus.Debugf("fetched catalog v%d: %d banners, %d careers",
		data.Catalog.Version, len(data.Catalog.Banners), len(data.Catalog.Careers))
	return data.Catalog, nil
}

// FetchCareer downloads a single career, typically to refresh its detail page.
func (c *Client) FetchCareer(ctx context.Context, id string) (*content.Career, error) {
	if id == "" {
		return nil, ErrValidation
	}
	var data careerData
	op := graphQLRequest{Query: careerQuery, OperationName: "Career", Variables: c.variables(map[string]any{"id": id})}
	if err := c.graphQL(ctx, op, &data); err != nil {
		return nil, err
	}
	if data.Career == nil {
		return nil, fmt.Errorf("%w: career %s", ErrNotFound, id)
	}
	return data.Career, nil
}
