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

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 AgentOptions configures the HTTP channel to the monitoring agent
type AgentOptions struct {
	// URL is the agent's base URL
	URL string
	// Token is an optional bearer token
	Token string
	// ConnectTimeout bounds the health check on Connect. Defaults to 5s.
	ConnectTimeout time.Duration
	// Client overrides the HTTP client, mainly for tests
	Client *http.Client
}

// 📡 HTTPChannel talks to the monitoring agent over HTTP. Connect probes
// /healthz; UploadLogs posts event batches to /logs.
type HTTPChannel struct {
	baseURL   string
	token     string
	timeout   time.Duration
	client    *http.Client
	connected atomic.Bool
}

// 🏭 NewHTTPChannel creates a channel for the given agent
func NewHTTPChannel(opts AgentOptions) (*HTTPChannel, error) {
	if opts.URL == "" {
		return nil, errors.Errorf("agent URL is required")
	}
	timeout := opts.ConnectTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPChannel{
		baseURL: strings.TrimRight(opts.URL, "/"),
		token:   opts.Token,
		timeout: timeout,
		client:  client,
	}, nil
}

// Connect probes the agent's health endpoint and marks the channel usable
func (c *HTTPChannel) Connect(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("url", c.baseURL).Msg("connecting to agent")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return errors.Errorf("building health request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Errorf("connecting to agent at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("agent health check returned %s", resp.Status)
	}

	c.connected.Store(true)
	logger.Debug().Msg("agent connected")
	return nil
}

// IsConnected reports whether Connect has succeeded
func (c *HTTPChannel) IsConnected() bool {
	return c.connected.Load()
}

// Teardown marks the channel unusable. The reporter skips delivery on a
// torn-down channel instead of blocking on reconnection.
func (c *HTTPChannel) Teardown() {
	c.connected.Store(false)
}

// UploadLogs posts a batch of events to the agent
func (c *HTTPChannel) UploadLogs(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string][]Event{"events": events})
	if err != nil {
		return errors.Errorf("encoding events: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logs", bytes.NewReader(body))
	if err != nil {
		return errors.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Errorf("uploading logs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("agent rejected log upload: %s", resp.Status)
	}
	return nil
}

func (c *HTTPChannel) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
