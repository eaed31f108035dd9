// Package plan builds ingestion plans from free-text research topics.
//
// The Builder is pure: it extracts normalized search terms from the topic,
// instantiates one IngestionSource per connector type with per-type defaults,
// and applies heuristics driven by the caller-supplied context map. It
// performs no I/O and fails only on malformed context values.
package plan
