package openai

import "fmt"

const scoringPrompt = `You rate research content for relevance and quality. Given a topic and a
piece of content, return a JSON object with a relevance score.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting,
or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this schema:

{
  "score": <number between 0.0 and 1.0>,
  "rationale": "<one short sentence>"
}

Rules:
- 0.0 means the content is unrelated to the topic or unusable.
- 1.0 means the content is directly on-topic, substantive, and well written.
- Penalize boilerplate, navigation text, and content that only mentions the topic in passing.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Topic: "machine learning in healthcare"
Title: "Deep Learning for Medical Image Diagnosis"
Output:
{
  "score": 0.9,
  "rationale": "Directly addresses ML applied to healthcare imaging."
}`

// buildUserPrompt assembles the per-item message for the scoring model.
func buildUserPrompt(topic, title, content string) string {
	return fmt.Sprintf("Topic: %q\nTitle: %q\nContent:\n%s", topic, title, content)
}
