// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/harvest/assess"
)

// Scorer implements assess.Assessor using OpenAI-compatible chat APIs.
type Scorer struct {
	client          llms.Model
	maxContentChars int
	logger          *slog.Logger
}

// verdict is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type verdict struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// newScorer is an internal constructor that returns the concrete type.
func newScorer(config *assess.Config) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Scorer{
		client:          client,
		maxContentChars: config.MaxContentChars,
		logger:          slog.Default().With("component", "openai-scorer"),
	}, nil
}

// NewScorer creates a new content scorer using the provided configuration.
//
// Returns assess.Assessor interface to enforce abstraction.
func NewScorer(config *assess.Config) (assess.Assessor, error) {
	return newScorer(config)
}

// Score rates a piece of content for relevance to the topic.
// The model is asked for a JSON verdict; malformed responses are
// retried up to 3 times before giving up.
func (s *Scorer) Score(ctx context.Context, topic, title, content string) (float64, error) {
	content = truncate(content, s.maxContentChars)

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(scoringPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(topic, title, content)),
			},
		},
	}

	var result verdict
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := s.client.GenerateContent(ctx, messages, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return 0, err
		}

		if len(response.Choices) < 1 {
			s.logger.Debug("no choices returned from model")
			lastErr = assess.ErrMalformedResponse
			continue
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			s.logger.Warn("error parsing scorer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		s.logger.Error("failed to parse scorer response after retries", "err", lastErr)
		return 0, fmt.Errorf("%w: %w", assess.ErrMalformedResponse, lastErr)
	}

	if result.Score < 0 || result.Score > 1 {
		return 0, fmt.Errorf("%w: %g", assess.ErrScoreOutOfRange, result.Score)
	}

	s.logger.Debug("scored content", "title", title, "score", result.Score, "rationale", result.Rationale)
	return result.Score, nil
}

// truncate caps s at n runes without splitting a multi-byte character.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
