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

// Package fsops provides the batch filesystem-operation core of the plugin:
// the request/result data model, the safety policy gate, the executor that
// performs concrete filesystem actions, and the dispatcher that ties them
// together with partial-failure semantics.
package fsops

import (
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// 🎯 Kind identifies a filesystem operation
type Kind string

const (
	KindCreateFile Kind = "create_file"
	KindCreateDir  Kind = "create_dir"
	KindMove       Kind = "move"
	KindDelete     Kind = "delete"
	KindRename     Kind = "rename"
)

// 🔍 Known reports whether the kind is one the executor understands
func (k Kind) Known() bool {
	switch k {
	case KindCreateFile, KindCreateDir, KindMove, KindDelete, KindRename:
		return true
	}
	return false
}

// ⚠️ Destructive reports whether the kind can irreversibly alter existing
// filesystem state
func (k Kind) Destructive() bool {
	switch k {
	case KindMove, KindDelete, KindRename:
		return true
	}
	return false
}

// 📦 Request describes one filesystem action to perform
type Request struct {
	Kind        Kind   // Operation to perform
	Destination string // Target path, always required
	Source      string // Origin path, required for move/rename
	Content     string // File content for create_file
}

// 🔍 Validate checks the request has the fields its kind needs.
// Validation happens before policy gating, so a move with no source fails
// with the missing-source message rather than the policy denial.
func (r Request) Validate() error {
	if r.Kind == "" || r.Destination == "" {
		return errors.New("Operation and destination are required")
	}
	if !r.Kind.Known() {
		return errors.Errorf("Unknown operation: %s", r.Kind)
	}
	if r.Source == "" {
		switch r.Kind {
		case KindMove:
			return errors.New("Source path required for move operation")
		case KindRename:
			return errors.New("Source path required for rename operation")
		}
	}
	return nil
}

// 📋 Result records the outcome of one request
type Result struct {
	Operation   Kind   `json:"operation"`
	Destination string `json:"destination"`
	Source      string `json:"source,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error"`
}

// MarshalJSON emits the error field as null rather than "" on success,
// keeping the plugin's wire contract: a result row always carries the
// error key, and only failed rows carry a message.
func (r Result) MarshalJSON() ([]byte, error) {
	var errField *string
	if r.Error != "" {
		errField = &r.Error
	}
	type wireResult struct {
		Operation   Kind    `json:"operation"`
		Destination string  `json:"destination"`
		Source      string  `json:"source,omitempty"`
		Success     bool    `json:"success"`
		Error       *string `json:"error"`
	}
	return json.Marshal(wireResult{
		Operation:   r.Operation,
		Destination: r.Destination,
		Source:      r.Source,
		Success:     r.Success,
		Error:       errField,
	})
}

// 📊 BatchResult aggregates the outcomes of a whole batch.
// Results keep the input position order.
type BatchResult struct {
	Total     int      `json:"total_operations"`
	Succeeded int      `json:"successful_operations"`
	Failed    int      `json:"failed_operations"`
	Results   []Result `json:"results"`
}

// 🔍 Partial reports whether at least one position failed
func (b *BatchResult) Partial() bool {
	return b.Failed > 0
}
