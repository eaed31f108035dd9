// Package ingest contains the ingestion orchestration core.
//
// An Orchestrator executes an IngestionPlan: every source in the plan
// runs as a task on a bounded worker pool, each task checking the cache
// first, then fetching through its connector with retry and exponential
// backoff, then writing fresh results back to the cache under a
// source-type TTL. After all tasks join, items flow through
// deduplication, the optional quality gate, and metrics assembly into a
// single IngestionResult.
//
// Per-source failures never abort an execution. A source that exhausts
// its retries is recorded as FAILED, a source that overruns its timeout
// as TIMEOUT, and the run is a success as long as at least one source
// completed.
package ingest
