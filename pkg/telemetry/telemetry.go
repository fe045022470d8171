// Copyright 2025 walteh LLC
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

// Package telemetry delivers progress and error events to the external
// monitoring agent. Delivery is best-effort: a failure to report never
// alters the outcome of the batch that produced the event.
package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// 📊 Level classifies an event
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// 📦 Event is one log record sent to the agent. Events are ephemeral:
// created, sent once, never re-read.
type Event struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// 🏭 NewEvent creates an event stamped with the current time
func NewEvent(level Level, message string) Event {
	return Event{
		Level:     level,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// 📡 Channel is the narrow interface the plugin consumes from the agent.
// Its connection lifecycle is owned by the caller, not by the reporter.
type Channel interface {
	// Connect establishes the channel
	Connect(ctx context.Context) error
	// IsConnected reports whether the channel is currently usable
	IsConnected() bool
	// UploadLogs delivers a batch of events to the agent
	UploadLogs(ctx context.Context, events []Event) error
}

// 📢 Reporter sends events over a channel, swallowing delivery failures.
// A nil channel is valid and leaves the reporter in local-log-only mode.
type Reporter struct {
	channel Channel
}

// 🏭 NewReporter creates a reporter over the given channel
func NewReporter(channel Channel) *Reporter {
	return &Reporter{channel: channel}
}

// 📝 Report delivers one event, best-effort. Channel errors are logged
// locally and discarded; the caller has nothing to handle.
func (r *Reporter) Report(ctx context.Context, event Event) {
	err := r.send(ctx, event)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("message", event.Message).Msg("telemetry event dropped")
	}
}

func (r *Reporter) send(ctx context.Context, event Event) error {
	if r.channel == nil || !r.channel.IsConnected() {
		return nil
	}
	return r.channel.UploadLogs(ctx, []Event{event})
}
