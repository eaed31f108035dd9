package pubmed

import (
	"context"
	"encoding/json"
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
	connectorName  = "pubmed"
	defaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	defaultLimit   = 10
	maxBodyBytes   = 8 << 20
	articleURLBase = "https://pubmed.ncbi.nlm.nih.gov/"
)

// Connector queries PubMed through the NCBI E-utilities.
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

// WithBaseURL overrides the E-utilities endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Connector) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
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

// NewConnector creates a PubMed connector.
func NewConnector(opts ...Option) *Connector {
	c := &Connector{
		client:  &http.Client{},
		baseURL: defaultBaseURL,
		logger:  slog.Default().With("component", "pubmed-connector"),
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

// Type returns core.SourceTypeLiterature.
func (c *Connector) Type() core.SourceType {
	return core.SourceTypeLiterature
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type articleSummary struct {
	UID     string `json:"uid"`
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
	Source  string `json:"source"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// Fetch runs an esearch for the terms followed by an esummary over the
// returned article IDs. The query map supports:
//
//	terms - free-text search terms (required)
//	limit - maximum results (default 10)
func (c *Connector) Fetch(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
	terms := strings.TrimSpace(query["terms"])
	if terms == "" {
		return nil, connector.NewValidationError("pubmed query requires non-empty terms", nil)
	}

	limit := defaultLimit
	if raw := query["limit"]; raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, connector.NewValidationError(fmt.Sprintf("invalid limit %q", raw), err)
		}
		limit = parsed
	}

	ids, err := c.search(ctx, terms, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*core.ContentItem{}, nil
	}

	return c.summaries(ctx, ids)
}

// CheckHealth probes the esearch endpoint with a minimal query.
func (c *Connector) CheckHealth(ctx context.Context) error {
	probe := c.baseURL + "/esearch.fcgi?db=pubmed&retmode=json&retmax=1&term=test"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probe, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return connector.NewNetworkError("pubmed unreachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return connector.FromHTTPStatus(resp.StatusCode, "pubmed unhealthy")
	}
	return nil
}

func (c *Connector) search(ctx context.Context, terms string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(limit))
	params.Set("term", terms)

	var parsed esearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/esearch.fcgi?"+params.Encode(), "esearch", &parsed); err != nil {
		return nil, err
	}
	return parsed.ESearchResult.IDList, nil
}

func (c *Connector) summaries(ctx context.Context, ids []string) ([]*core.ContentItem, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "json")
	params.Set("id", strings.Join(ids, ","))

	var parsed esummaryResponse
	if err := c.getJSON(ctx, c.baseURL+"/esummary.fcgi?"+params.Encode(), "esummary", &parsed); err != nil {
		return nil, err
	}

	// Iterate the id list rather than the result map so output order is
	// stable (the map also carries a non-article "uids" key).
	items := make([]*core.ContentItem, 0, len(ids))
	for _, id := range ids {
		raw, ok := parsed.Result[id]
		if !ok {
			continue
		}
		var summary articleSummary
		if err := json.Unmarshal(raw, &summary); err != nil {
			c.logger.Warn("skipping malformed summary", "uid", id, "err", err)
			continue
		}
		items = append(items, summaryToItem(summary))
	}
	return items, nil
}

func (c *Connector) getJSON(ctx context.Context, requestURL, operation string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return connector.NewValidationError("building "+operation+" request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return connector.NewTimeoutError(operation+" request", ctx.Err())
		}
		return connector.NewNetworkError(operation+" request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return connector.FromHTTPStatus(resp.StatusCode, operation+" request")
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return connector.NewNetworkError("decoding "+operation+" response", err)
	}
	return nil
}

func summaryToItem(summary articleSummary) *core.ContentItem {
	var author string
	if len(summary.Authors) > 0 {
		author = summary.Authors[0].Name
	}

	// esummary carries no abstract; the journal line stands in as content.
	content := summary.Title
	if summary.Source != "" {
		content += " (" + summary.Source + ", " + summary.PubDate + ")"
	}

	return &core.ContentItem{
		SourceName:  connectorName,
		SourceType:  core.SourceTypeLiterature,
		Title:       summary.Title,
		Content:     content,
		URL:         articleURLBase + summary.UID + "/",
		PublishedAt: parsePubDate(summary.PubDate),
		Author:      author,
		Tags:        []string{summary.Source},
	}
}

// parsePubDate handles the loose date formats esummary emits
// ("2024 Mar 15", "2024 Mar", "2024").
func parsePubDate(raw string) time.Time {
	for _, layout := range []string{"2006 Jan 2", "2006 Jan", "2006"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
