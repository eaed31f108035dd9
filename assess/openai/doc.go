// Package openai implements content quality scoring against any
// OpenAI-compatible chat API (OpenAI, Ollama, LocalAI, vLLM).
//
// The scorer asks the model for a JSON verdict in strict JSON mode and
// retries parsing a bounded number of times, since smaller local models
// occasionally wrap their output in markdown fences or prose.
package openai
