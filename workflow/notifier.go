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

package workflow

import (
	"context"
	"log/slog"
)

// Event types emitted by the ingestion pipeline.
const (
	EventIngestionCompleted = "ingestion.completed"
	EventSourceCompleted    = "source.completed"
	EventSourceFailed       = "source.failed"
)

// Notifier receives fire-and-forget events after ingestion. Failures
// inside a notifier are the notifier's own problem; the pipeline logs
// and moves on, so implementations should not block for long.
type Notifier interface {
	Notify(ctx context.Context, eventType string, payload map[string]string)
}

// LogNotifier is a Notifier that records events to a structured logger.
// Useful as a default sink and as a template for real integrations.
type LogNotifier struct {
	logger *slog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier that writes events to logger.
// A nil logger falls back to slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "workflow-notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, eventType string, payload map[string]string) {
	attrs := make([]any, 0, 2+len(payload)*2)
	attrs = append(attrs, "event", eventType)
	for k, v := range payload {
		attrs = append(attrs, k, v)
	}
	n.logger.InfoContext(ctx, "workflow event", attrs...)
}
