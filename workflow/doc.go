// Package workflow defines the post-ingestion event hook.
//
// When a plan has cross-source workflows enabled, the pipeline emits
// events describing the run (completion, per-source failures) to a
// Notifier. Events are fire-and-forget: the pipeline never waits on or
// fails because of a notifier.
package workflow
