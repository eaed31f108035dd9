package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/harvest/core"
)

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	a := item("web-search", core.SourceTypeWeb, "Shared Title", "same content body")
	b := item("arxiv-search", core.SourceTypeAcademic, "Shared Title", "same content body")
	c := item("pubmed-search", core.SourceTypeLiterature, "Unique Title", "different content")

	kept, removed := dedupe([]*core.ContentItem{a, b, c})
	assert.Equal(t, 1, removed)
	assert.Equal(t, []*core.ContentItem{a, c}, kept)
}

func TestDedupeNormalizesTitleAndPrefix(t *testing.T) {
	a := item("web-search", core.SourceTypeWeb, "Machine  Learning", "Some content here.")
	b := item("arxiv-search", core.SourceTypeAcademic, "machine learning", "some  CONTENT here.")

	kept, removed := dedupe([]*core.ContentItem{a, b})
	assert.Equal(t, 1, removed)
	assert.Equal(t, "web-search", kept[0].SourceName)
}

func TestDedupeNoDuplicates(t *testing.T) {
	a := item("web-search", core.SourceTypeWeb, "One", "first body")
	b := item("web-search", core.SourceTypeWeb, "Two", "second body")

	kept, removed := dedupe([]*core.ContentItem{a, b})
	assert.Equal(t, 0, removed)
	assert.Len(t, kept, 2)
}

func TestDedupeStable(t *testing.T) {
	items := []*core.ContentItem{
		item("web-search", core.SourceTypeWeb, "A", "body a"),
		item("web-search", core.SourceTypeWeb, "B", "body b"),
		item("arxiv-search", core.SourceTypeAcademic, "A", "body a"),
		item("arxiv-search", core.SourceTypeAcademic, "C", "body c"),
	}

	kept1, removed1 := dedupe(items)
	kept2, removed2 := dedupe(items)
	assert.Equal(t, kept1, kept2)
	assert.Equal(t, removed1, removed2)
	assert.Equal(t, 1, removed1)
}

func TestDedupeEmpty(t *testing.T) {
	kept, removed := dedupe(nil)
	assert.Empty(t, kept)
	assert.Equal(t, 0, removed)
}
