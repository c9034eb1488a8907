package archweb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/archlinux/arch-repro-status/pkg/fetch"
)

// Client searches the archlinux.org package database
type Client struct {
	http     *fetch.Client
	endpoint string
	logger   zerolog.Logger
}

// NewClient creates a search client. An empty endpoint uses Endpoint.
func NewClient(httpClient *fetch.Client, endpoint string, logger zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = Endpoint
	}
	return &Client{
		http:     httpClient,
		endpoint: endpoint,
		logger:   logger,
	}
}

// SearchMaintainer returns every package maintained by the given user,
// following the API's pagination until the last page.
func (c *Client) SearchMaintainer(ctx context.Context, maintainer string) ([]Package, error) {
	var packages []Package

	for page := int64(1); ; page++ {
		u := c.pageURL(maintainer, page)
		c.logger.Debug().Str("url", u).Msg("searching archweb")

		var result SearchResult
		if err := c.http.GetJSON(ctx, u, &result); err != nil {
			return nil, fmt.Errorf("searching packages of %s: %w", maintainer, err)
		}
		if !result.Valid {
			return nil, fmt.Errorf("%w: archweb rejected the search for %s", fetch.ErrMalformed, maintainer)
		}

		packages = append(packages, result.Results...)

		if result.NumPages == nil || page >= *result.NumPages {
			break
		}
	}

	c.logger.Debug().Int("count", len(packages)).Str("maintainer", maintainer).Msg("fetched archweb packages")
	return packages, nil
}

func (c *Client) pageURL(maintainer string, page int64) string {
	q := url.Values{}
	q.Set("maintainer", maintainer)
	q.Set("page", strconv.FormatInt(page, 10))
	return c.endpoint + "?" + q.Encode()
}
