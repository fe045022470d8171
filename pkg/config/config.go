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

// Package config holds the plugin configuration: the parallel operation
// lists supplied by flags or a config file, the safety policy knobs, and
// the agent endpoint. Alignment of the parallel lists into requests
// happens here, once, at the boundary.
package config

import (
	"time"

	"github.com/walteh/fileops/pkg/fsops"
	"gitlab.com/tozd/go/errors"
)

// 📡 AgentConfig describes the monitoring agent endpoint
type AgentConfig struct {
	URL            string `json:"url" yaml:"url"`
	Token          string `json:"token,omitempty" yaml:"token,omitempty"`
	ConnectTimeout string `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`
}

// ⏱️ Timeout parses the connect timeout, zero when unset
func (a *AgentConfig) Timeout() (time.Duration, error) {
	if a.ConnectTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.ConnectTimeout)
	if err != nil {
		return 0, errors.Errorf("parsing agent connect_timeout: %w", err)
	}
	return d, nil
}

// 📚 Config is the complete plugin configuration. The four lists are
// parallel: position i of each describes one operation.
type Config struct {
	Operations   []string `json:"operations" yaml:"operations"`
	Destinations []string `json:"destinations" yaml:"destinations"`
	Sources      []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	Contents     []string `json:"contents,omitempty" yaml:"contents,omitempty"`

	// AllowDestructive enables move, delete and rename
	AllowDestructive bool `json:"allow_destructive,omitempty" yaml:"allow_destructive,omitempty"`
	// ProtectedPaths are doublestar patterns no operation may touch
	ProtectedPaths []string `json:"protected_paths,omitempty" yaml:"protected_paths,omitempty"`

	Agent *AgentConfig `json:"agent,omitempty" yaml:"agent,omitempty"`
}

// 🔍 Validate checks the configuration describes at least one operation.
// Row-level problems (a destination without an operation, a move without a
// source) are not config errors; they surface as failed positions in the
// batch result.
func (cfg *Config) Validate() error {
	if len(cfg.Operations) == 0 && len(cfg.Destinations) == 0 {
		return errors.Errorf("at least one operation and destination is required")
	}
	return nil
}

// 📋 BuildRequests aligns the parallel lists into one ordered request per
// position. The batch length is the longer of the operation and
// destination lists; sources and contents shorter than that are read as
// absent for the trailing positions.
func (cfg *Config) BuildRequests() []fsops.Request {
	n := len(cfg.Operations)
	if len(cfg.Destinations) > n {
		n = len(cfg.Destinations)
	}

	reqs := make([]fsops.Request, 0, n)
	for i := 0; i < n; i++ {
		var req fsops.Request
		if i < len(cfg.Operations) {
			req.Kind = fsops.Kind(cfg.Operations[i])
		}
		if i < len(cfg.Destinations) {
			req.Destination = cfg.Destinations[i]
		}
		if i < len(cfg.Sources) {
			req.Source = cfg.Sources[i]
		}
		if i < len(cfg.Contents) {
			req.Content = cfg.Contents[i]
		}
		reqs = append(reqs, req)
	}
	return reqs
}
