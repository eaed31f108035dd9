// Package connector defines the source connector contract used by the
// ingestion orchestrator.
//
// A Connector wraps one remote content source (a web page fetcher, an
// academic-paper API, a literature API) behind a uniform Fetch operation.
// Connectors classify their failures with FetchError so the executor can
// decide whether a failed fetch is worth retrying.
package connector
