// Package update checks GitHub for a newer marketpulse release.
package update

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
)

const (
	owner = "matheuskafuri"
	repo  = "marketpulse"
)

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
	URL           string
}

// Checker queries the GitHub Releases API.
type Checker struct {
	client *github.Client
}

// NewChecker returns a Checker using httpClient, or a default client when nil.
func NewChecker(httpClient *http.Client) *Checker {
	return &Checker{client: github.NewClient(httpClient)}
}

// WithBaseURL points the checker at another API root, such as a test server.
func (c *Checker) WithBaseURL(raw string) (*Checker, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	c.client.BaseURL = u
	return c, nil
}

// Check reports a newer release than currentVersion. It returns nil on any
// error or when already up to date.
func (c *Checker) Check(ctx context.Context, currentVersion string) *Result {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	release, _, err := c.client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil
	}

	latest := strings.TrimPrefix(release.GetTagName(), "v")
	current := strings.TrimPrefix(currentVersion, "v")
	if latest == "" || latest == current {
		return nil
	}
	return &Result{LatestVersion: latest, URL: release.GetHTMLURL()}
}

// Check runs a version check with the default client.
func Check(ctx context.Context, currentVersion string) *Result {
	return NewChecker(nil).Check(ctx, currentVersion)
}
