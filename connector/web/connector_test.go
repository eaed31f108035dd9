package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/harvest/connector"
	"github.com/poiesic/harvest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_ScrapesResultPages(t *testing.T) {
	// Pages served behind the search results.
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/one":
			fmt.Fprint(w, `<html><body><h1>Page One</h1><p>Content about machine learning.</p></body></html>`)
		case "/two":
			fmt.Fprint(w, `<html><body><p>Second page body text.</p></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer pages.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "machine learning healthcare", r.URL.Query().Get("q"))
		fmt.Fprintf(w, `<html><body>
			<a href="/internal">Navigation</a>
			<a href="%s/one">First Result</a>
			<a href="%s/two">Second Result</a>
			<a href="%s/one">First Result Again</a>
		</body></html>`, pages.URL, pages.URL, pages.URL)
	}))
	defer search.Close()

	conn := NewConnector(WithSearchURL(search.URL))
	items, err := conn.Fetch(context.Background(), map[string]string{
		"terms": "machine learning healthcare",
		"limit": "5",
	})
	require.NoError(t, err)
	require.Len(t, items, 2, "duplicate and relative links must be skipped")

	first := items[0]
	assert.Equal(t, "web-search", first.SourceName)
	assert.Equal(t, core.SourceTypeWeb, first.SourceType)
	assert.Equal(t, "First Result", first.Title)
	assert.Equal(t, pages.URL+"/one", first.URL)
	assert.Contains(t, first.Content, "Content about machine learning")
}

func TestFetch_PageFailureIsSkipped(t *testing.T) {
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/good" {
			fmt.Fprint(w, `<html><body>good body</body></html>`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer pages.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href="%s/broken">Broken</a>
			<a href="%s/good">Good</a>
		</body></html>`, pages.URL, pages.URL)
	}))
	defer search.Close()

	conn := NewConnector(WithSearchURL(search.URL))
	items, err := conn.Fetch(context.Background(), map[string]string{"terms": "anything"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Good", items[0].Title)
}

func TestFetch_TimeoutMidScrapeDropsPartialItems(t *testing.T) {
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fast" {
			fmt.Fprint(w, `<html><body>fast body</body></html>`)
			return
		}
		<-r.Context().Done()
	}))
	defer pages.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href="%s/fast">Fast</a>
			<a href="%s/stuck">Stuck</a>
		</body></html>`, pages.URL, pages.URL)
	}))
	defer search.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	conn := NewConnector(WithSearchURL(search.URL))
	items, err := conn.Fetch(ctx, map[string]string{"terms": "anything"})
	require.Error(t, err)
	assert.Equal(t, connector.ErrorKindTimeout, connector.KindOf(err))
	assert.Nil(t, items, "a timed-out fetch must not deliver partial results")
}

func TestFetch_SearchFailureIsError(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer search.Close()

	conn := NewConnector(WithSearchURL(search.URL))
	_, err := conn.Fetch(context.Background(), map[string]string{"terms": "anything"})
	require.Error(t, err)
	assert.Equal(t, connector.ErrorKindNetwork, connector.KindOf(err))
}

func TestFetch_EmptyTermsIsValidationError(t *testing.T) {
	conn := NewConnector()

	_, err := conn.Fetch(context.Background(), map[string]string{})
	require.Error(t, err)
	assert.Equal(t, connector.ErrorKindValidation, connector.KindOf(err))
}

func TestExtractResultLinks_Limit(t *testing.T) {
	page := `<html><body>` + strings.Repeat(`<a href="https://example.com/a">A</a>`, 1) +
		`<a href="https://example.com/b">B</a>
		 <a href="https://example.com/c">C</a></body></html>`

	links, err := extractResultLinks(strings.NewReader(page), 2)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "https://example.com/a", links[0].href)
	assert.Equal(t, "https://example.com/b", links[1].href)
}
