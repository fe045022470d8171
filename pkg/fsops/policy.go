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

package fsops

import (
	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// DenialAdvisory is the fixed message returned when a destructive operation
// is blocked by the default policy.
const DenialAdvisory = "This operation is potentially destructive. It is disabled by default. Enable it only if you understand the risks."

// 🛡️ Policy decides whether a request may reach the executor. A non-nil
// error is a denial; the executor is never invoked for a denied request.
type Policy interface {
	Authorize(req Request) error
}

// 🔧 PolicyOptions configures the default policy
type PolicyOptions struct {
	// AllowDestructive enables move, delete and rename. Off by default.
	AllowDestructive bool
	// ProtectedPaths are doublestar patterns; any request whose destination
	// or source matches one is denied regardless of AllowDestructive.
	ProtectedPaths []string
}

// 🏭 NewPolicy creates the default safety policy
func NewPolicy(opts PolicyOptions) Policy {
	return &defaultPolicy{opts: opts}
}

type defaultPolicy struct {
	opts PolicyOptions
}

func (p *defaultPolicy) Authorize(req Request) error {
	if req.Kind.Destructive() && !p.opts.AllowDestructive {
		return errors.New(DenialAdvisory)
	}

	for _, pattern := range p.opts.ProtectedPaths {
		for _, path := range []string{req.Destination, req.Source} {
			if path == "" {
				continue
			}
			matched, err := doublestar.Match(pattern, path)
			if err != nil {
				return errors.Errorf("matching protected path pattern %q: %w", pattern, err)
			}
			if matched {
				return errors.Errorf("path %s is protected by pattern %q", path, pattern)
			}
		}
	}

	return nil
}

// 🔓 PolicyFunc adapts a plain function to the Policy interface
type PolicyFunc func(req Request) error

func (f PolicyFunc) Authorize(req Request) error {
	return f(req)
}
