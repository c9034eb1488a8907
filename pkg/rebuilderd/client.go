package rebuilderd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/archlinux/arch-repro-status/pkg/fetch"
)

// Client queries a rebuilderd instance
type Client struct {
	http    *fetch.Client
	baseURL string
	logger  zerolog.Logger
}

// NewClient creates a rebuilderd client for the instance at baseURL
func NewClient(httpClient *fetch.Client, baseURL string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// ListPackages returns every Arch Linux package known to the instance
func (c *Client) ListPackages(ctx context.Context) ([]Package, error) {
	u := c.baseURL + listPath + "?" + url.Values{"distro": {Distro}}.Encode()
	c.logger.Debug().Str("url", u).Msg("fetching rebuilderd packages")

	var packages []Package
	if err := c.http.GetJSON(ctx, u, &packages); err != nil {
		return nil, fmt.Errorf("listing rebuilderd packages: %w", err)
	}

	c.logger.Debug().Int("count", len(packages)).Msg("fetched rebuilderd packages")
	return packages, nil
}

// FetchLog downloads the build log or diffoscope of a build
func (c *Client) FetchLog(ctx context.Context, buildID int64, kind LogKind) ([]byte, error) {
	u := c.LogURL(buildID, kind)
	c.logger.Debug().Str("url", u).Msg("fetching log")

	data, err := c.http.GetBytes(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching %s of build %d: %w", kind, buildID, err)
	}
	return data, nil
}

// LogURL returns the address of a build artifact
func (c *Client) LogURL(buildID int64, kind LogKind) string {
	return fmt.Sprintf("%s%s/%d/%s", c.baseURL, buildsPath, buildID, kind.endpoint())
}
