package arxiv

import (
	"context"
	"encoding/xml"
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
)

const (
	connectorName  = "arxiv"
	defaultBaseURL = "https://export.arxiv.org/api/query"
	defaultLimit   = 10
	maxBodyBytes   = 8 << 20
)

// Connector queries the arXiv Atom API for academic papers.
type Connector struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

var _ connector.Connector = (*Connector)(nil)
var _ connector.HealthChecker = (*Connector)(nil)

// Option configures a Connector.
type Option func(*Connector)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) {
		if client != nil {
			c.client = client
		}
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Connector) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConnector creates an arXiv connector.
func NewConnector(opts ...Option) *Connector {
	c := &Connector{
		client:  &http.Client{},
		baseURL: defaultBaseURL,
		logger:  slog.Default().With("component", "arxiv-connector"),
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

// Type returns core.SourceTypeAcademic.
func (c *Connector) Type() core.SourceType {
	return core.SourceTypeAcademic
}

// Atom feed structures for the arXiv query API.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// Fetch queries arXiv for the given terms. The query map supports:
//
//	terms      - free-text search terms (required)
//	categories - comma-separated arXiv categories (e.g. "cs.AI,cs.LG")
//	limit      - maximum results (default 10)
func (c *Connector) Fetch(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
	terms := strings.TrimSpace(query["terms"])
	if terms == "" {
		return nil, connector.NewValidationError("arxiv query requires non-empty terms", nil)
	}

	limit := defaultLimit
	if raw := query["limit"]; raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, connector.NewValidationError(fmt.Sprintf("invalid limit %q", raw), err)
		}
		limit = parsed
	}

	searchQuery := buildSearchQuery(terms, query["categories"])
	params := url.Values{}
	params.Set("search_query", searchQuery)
	params.Set("max_results", strconv.Itoa(limit))
	params.Set("sortBy", "relevance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, connector.NewValidationError("building arxiv request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, connector.NewTimeoutError("arxiv request", ctx.Err())
		}
		return nil, connector.NewNetworkError("arxiv request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, connector.FromHTTPStatus(resp.StatusCode, "arxiv request")
	}

	var feed atomFeed
	if err := xml.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&feed); err != nil {
		return nil, connector.NewNetworkError("decoding arxiv feed", err)
	}

	items := make([]*core.ContentItem, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		items = append(items, entryToItem(entry))
	}

	c.logger.Debug("arxiv fetch complete", "terms", terms, "items", len(items))
	return items, nil
}

// CheckHealth probes the API endpoint with a minimal query.
func (c *Connector) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?search_query=all:test&max_results=1", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return connector.NewNetworkError("arxiv unreachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return connector.FromHTTPStatus(resp.StatusCode, "arxiv unhealthy")
	}
	return nil
}

// buildSearchQuery assembles the arXiv search expression: free-text terms,
// optionally restricted to the given categories.
func buildSearchQuery(terms, categories string) string {
	expr := fmt.Sprintf("all:%q", terms)
	if categories == "" {
		return expr
	}

	var catExprs []string
	for _, cat := range strings.Split(categories, ",") {
		cat = strings.TrimSpace(cat)
		if cat != "" {
			catExprs = append(catExprs, "cat:"+cat)
		}
	}
	if len(catExprs) == 0 {
		return expr
	}
	return expr + " AND (" + strings.Join(catExprs, " OR ") + ")"
}

func entryToItem(entry atomEntry) *core.ContentItem {
	var author string
	if len(entry.Authors) > 0 {
		author = entry.Authors[0].Name
	}

	tags := make([]string, 0, len(entry.Categories))
	for _, cat := range entry.Categories {
		if cat.Term != "" {
			tags = append(tags, cat.Term)
		}
	}

	published, err := time.Parse(time.RFC3339, entry.Published)
	if err != nil {
		published = time.Time{}
	}

	return &core.ContentItem{
		SourceName:  connectorName,
		SourceType:  core.SourceTypeAcademic,
		Title:       collapseWhitespace(entry.Title),
		Content:     collapseWhitespace(entry.Summary),
		URL:         entry.ID,
		PublishedAt: published,
		Author:      author,
		Tags:        tags,
	}
}

// collapseWhitespace undoes the Atom feed's hard-wrapped text.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
