package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"sort"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a 64-bit content-derived identifier used for cache keys and
// deduplication keys. Identical canonical input always produces the same
// fingerprint.
type Fingerprint uint64

// FingerprintFromContent generates a deterministic fingerprint from text using
// BLAKE2b hashing.
func FingerprintFromContent(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// QueryFingerprint generates the cache fingerprint for a source type and its
// query parameters. Parameters are canonicalized by sorting keys so that maps
// with identical contents always hash the same.
func QueryFingerprint(sourceType SourceType, query map[string]string) Fingerprint {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(sourceType.String())
	for _, k := range keys {
		sb.WriteByte(0)
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(query[k])
	}
	return FingerprintFromContent(sb.String())
}

// SourceType identifies the kind of connector backing an ingestion source.
// The set is closed: plan building switches exhaustively over these values.
type SourceType int

const (
	// SourceTypeWeb represents live web page scraping.
	SourceTypeWeb SourceType = iota + 1
	// SourceTypeAcademic represents academic-paper search APIs.
	SourceTypeAcademic
	// SourceTypeLiterature represents biomedical-literature search APIs.
	SourceTypeLiterature
)

// String returns the canonical lowercase name of the source type.
func (t SourceType) String() string {
	switch t {
	case SourceTypeWeb:
		return "web"
	case SourceTypeAcademic:
		return "academic"
	case SourceTypeLiterature:
		return "literature"
	default:
		return "unknown"
	}
}

// SourceStatus tracks a source's progress through plan execution.
type SourceStatus int

const (
	// StatusPending means the source has not started executing.
	StatusPending SourceStatus = iota + 1
	// StatusInProgress means the source task is currently running.
	StatusInProgress
	// StatusCompleted means the source returned items (possibly from cache).
	StatusCompleted
	// StatusFailed means the source exhausted its retries.
	StatusFailed
	// StatusTimedOut means the source exceeded its timeout or was cancelled.
	StatusTimedOut
)

// Terminal reports whether no further attempts will be made for a source in
// this status.
func (s SourceStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTimedOut:
		return true
	default:
		return false
	}
}

// String returns the canonical lowercase name of the status.
func (s SourceStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timeout"
	default:
		return "unknown"
	}
}

// Metadata keys attached to content items by the orchestrator.
const (
	// MetadataSourceID records which plan source produced an item.
	MetadataSourceID = "source_id"
	// MetadataQualityScore holds the assessor's score, formatted as a float.
	MetadataQualityScore = "quality_score"
)

// dedupContentPrefixLen is the number of leading content characters that
// participate in the canonical dedup key alongside the title.
const dedupContentPrefixLen = 100

// ContentItem is a single piece of content returned by a connector.
// Identity fields (everything except Metadata) are owned by the connector and
// must not be mutated after the item is handed to the orchestrator.
type ContentItem struct {
	SourceName  string
	SourceType  SourceType
	Title       string
	Content     string
	URL         string
	PublishedAt time.Time
	Author      string
	Tags        []string
	Metadata    map[string]string
}

// CanonicalKey returns the deduplication fingerprint for the item: the
// normalized title plus a fixed-length content prefix. Items from different
// sources describing the same content collapse to the same key.
func (ci *ContentItem) CanonicalKey() Fingerprint {
	content := ci.Content
	if runes := []rune(content); len(runes) > dedupContentPrefixLen {
		content = string(runes[:dedupContentPrefixLen])
	}
	normalized := normalizeForKey(ci.Title) + "\x00" + normalizeForKey(content)
	return FingerprintFromContent(normalized)
}

// normalizeForKey lowercases text and collapses runs of whitespace so that
// cosmetic differences don't defeat deduplication.
func normalizeForKey(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// IngestionSource describes one connector invocation target within a plan.
// All fields except Status are set at plan-build time and immutable
// thereafter; Status is owned by the executor.
type IngestionSource struct {
	ID               string
	Type             SourceType
	Priority         int
	Query            map[string]string
	EstimatedResults int
	Timeout          time.Duration
	MaxRetries       int
	Status           SourceStatus
}

// IngestionPlan is an immutable description of which sources to query and how.
// A plan may be executed more than once; each execution produces a new result
// and never mutates the plan itself (source Status excepted).
type IngestionPlan struct {
	ID               string
	Topic            string
	Sources          []*IngestionSource
	CreatedAt        time.Time
	DedupEnabled     bool
	WorkflowsEnabled bool
	Context          map[string]string
}

// SourceError records a single source's terminal failure within a result.
type SourceError struct {
	SourceID   string
	SourceType SourceType
	Message    string
}

// ResultMetrics aggregates derived execution metrics. Missing inputs degrade
// to zero values rather than errors.
type ResultMetrics struct {
	// AverageQuality is the mean quality score over scored items only.
	AverageQuality float64
	// ContentDiversity is distinct source types divided by total items.
	ContentDiversity float64
	// CacheHitRate is cache hits divided by sources attempted.
	CacheHitRate float64
	// ScoredItems counts items that received a quality score.
	ScoredItems int
}

// IngestionResult is the immutable outcome of executing a plan.
type IngestionResult struct {
	PlanID            string
	Success           bool
	Items             []*ContentItem
	SourcesAttempted  int
	SourcesCompleted  int
	SourcesFailed     int
	ExecutionTime     time.Duration
	Errors            []SourceError
	Metrics           ResultMetrics
	DuplicatesRemoved int
	CacheHits         int
	RetryAttempts     int
}

// CacheEnvelope is the serialized value stored in the cache for a source
// query: the fetched items plus the write timestamp.
type CacheEnvelope struct {
	Items     []ContentItem
	WrittenAt time.Time
}
