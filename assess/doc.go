// Package assess defines the content quality assessment contract.
//
// An Assessor rates fetched content for relevance to the topic it was
// gathered for. Scores are annotated onto items by the ingestion
// pipeline and feed the aggregate quality metrics of a run. Assessment
// is best-effort: a failed score leaves the item unannotated but never
// removes it from the result set.
//
// The openai subpackage implements the contract against any
// OpenAI-compatible chat API. The mock subpackage provides a
// deterministic implementation for tests.
package assess
