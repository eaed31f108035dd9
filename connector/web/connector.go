package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/harvest/connector"
	"github.com/poiesic/harvest/core"
	"github.com/tmc/langchaingo/documentloaders"
	"golang.org/x/net/html"
)

const (
	connectorName    = "web-search"
	defaultSearchURL = "https://html.duckduckgo.com/html/"
	defaultLimit     = 5
	maxContentRunes  = 4000
	maxPageBytes     = 2 << 20 // 2 MiB per fetched page
)

// Connector scrapes live web pages discovered through an HTML search endpoint.
type Connector struct {
	client    *http.Client
	searchURL string
	logger    *slog.Logger
}

var _ connector.Connector = (*Connector)(nil)
var _ connector.HealthChecker = (*Connector)(nil)

// Option configures a Connector.
type Option func(*Connector)

// WithHTTPClient sets a custom HTTP client.
// Default is a client with no timeout; deadlines come from the fetch context.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) {
		if client != nil {
			c.client = client
		}
	}
}

// WithSearchURL overrides the HTML search endpoint. Used by tests to point at
// a local server.
func WithSearchURL(searchURL string) Option {
	return func(c *Connector) {
		if searchURL != "" {
			c.searchURL = searchURL
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConnector creates a web connector.
func NewConnector(opts ...Option) *Connector {
	c := &Connector{
		client:    &http.Client{},
		searchURL: defaultSearchURL,
		logger:    slog.Default().With("component", "web-connector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the connector name recorded on items.
func (c *Connector) Name() string {
	return connectorName
}

// Type returns core.SourceTypeWeb.
func (c *Connector) Type() core.SourceType {
	return core.SourceTypeWeb
}

// Fetch searches for the query terms, follows the top result links, and
// returns one item per successfully scraped page. Individual page failures
// are logged and skipped; only a failed search is an error.
func (c *Connector) Fetch(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
	terms := strings.TrimSpace(query["terms"])
	if terms == "" {
		return nil, connector.NewValidationError("web query requires non-empty terms", nil)
	}

	limit := defaultLimit
	if raw := query["limit"]; raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, connector.NewValidationError(fmt.Sprintf("invalid limit %q", raw), err)
		}
		limit = parsed
	}

	links, err := c.search(ctx, terms, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*core.ContentItem, 0, len(links))
	for _, link := range links {
		item, err := c.scrapePage(ctx, link)
		if err != nil {
			if connector.KindOf(err) == connector.ErrorKindTimeout {
				return nil, err
			}
			c.logger.Warn("skipping page", "url", link.href, "err", err)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// CheckHealth probes the search endpoint.
func (c *Connector) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.searchURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return connector.NewNetworkError("search endpoint unreachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return connector.FromHTTPStatus(resp.StatusCode, "search endpoint unhealthy")
	}
	return nil
}

// resultLink is one anchor extracted from the search results page.
type resultLink struct {
	title string
	href  string
}

// search runs the terms against the search endpoint and extracts up to limit
// result links.
func (c *Connector) search(ctx context.Context, terms string, limit int) ([]resultLink, error) {
	searchURL := c.searchURL + "?q=" + url.QueryEscape(terms)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, connector.NewValidationError("building search request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, connector.NewTimeoutError("search request", ctx.Err())
		}
		return nil, connector.NewNetworkError("search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, connector.FromHTTPStatus(resp.StatusCode, "search request")
	}

	links, err := extractResultLinks(io.LimitReader(resp.Body, maxPageBytes), limit)
	if err != nil {
		return nil, connector.NewNetworkError("parsing search results", err)
	}
	return links, nil
}

// extractResultLinks walks the search results HTML and collects external
// anchors with non-empty text, deduplicated by URL.
func extractResultLinks(r io.Reader, limit int) ([]resultLink, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var links []resultLink
	seen := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(links) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attrValue(n, "href")
			title := strings.TrimSpace(anchorText(n))
			if isExternalLink(href) && title != "" && !seen[href] {
				seen[href] = true
				links = append(links, resultLink{title: title, href: href})
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return links, nil
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func anchorText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

func isExternalLink(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// scrapePage fetches one result page and extracts its readable text.
func (c *Connector) scrapePage(ctx context.Context, link resultLink) (*core.ContentItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.href, nil)
	if err != nil {
		return nil, connector.NewValidationError("building page request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, connector.NewTimeoutError("page request", ctx.Err())
		}
		return nil, connector.NewNetworkError("page request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, connector.FromHTTPStatus(resp.StatusCode, "page request")
	}

	loader := documentloaders.NewHTML(io.LimitReader(resp.Body, maxPageBytes))
	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, connector.NewNetworkError("extracting page text", err)
	}

	var content string
	if len(docs) > 0 {
		content = strings.TrimSpace(docs[0].PageContent)
	}
	if runes := []rune(content); len(runes) > maxContentRunes {
		content = string(runes[:maxContentRunes])
	}

	return &core.ContentItem{
		SourceName:  connectorName,
		SourceType:  core.SourceTypeWeb,
		Title:       link.title,
		Content:     content,
		URL:         link.href,
		PublishedAt: time.Time{}, // web pages carry no reliable publication date
	}, nil
}
