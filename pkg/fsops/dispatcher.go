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
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/telemetry"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Dispatcher runs a batch of requests in order, gating each one through
// the policy before handing it to the executor. It owns the BatchResult
// exclusively until Run returns.
type Dispatcher interface {
	// Run processes every request to completion and returns the aggregate.
	// A failed position never aborts the batch; the error return is reserved
	// for failures to run the batch at all.
	Run(ctx context.Context, reqs []Request) (*BatchResult, error)
}

// 🔧 Options contains the dispatcher's collaborators
type Options struct {
	// Policy authorizes each request before execution
	Policy Policy
	// Executor performs the filesystem actions
	Executor Executor
	// Reporter delivers telemetry to the agent channel, best-effort
	Reporter *telemetry.Reporter
}

// 🏭 New creates a dispatcher with the given options
func New(opts Options) (Dispatcher, error) {
	if opts.Policy == nil {
		return nil, errors.Errorf("policy is required")
	}
	if opts.Executor == nil {
		return nil, errors.Errorf("executor is required")
	}
	if opts.Reporter == nil {
		return nil, errors.Errorf("reporter is required")
	}
	return &dispatcher{
		policy:   opts.Policy,
		executor: opts.Executor,
		reporter: opts.Reporter,
	}, nil
}

type dispatcher struct {
	policy   Policy
	executor Executor
	reporter *telemetry.Reporter
}

func (d *dispatcher) Run(ctx context.Context, reqs []Request) (*BatchResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("requests", len(reqs)).Msg("starting batch")
	d.reporter.Report(ctx, telemetry.NewEvent(telemetry.LevelInfo, fmt.Sprintf("Starting batch of %d operations", len(reqs))))

	batch := &BatchResult{
		Results: make([]Result, 0, len(reqs)),
	}

	for i, req := range reqs {
		res := d.runOne(ctx, req)
		if res.Success {
			batch.Succeeded++
		} else {
			batch.Failed++
			logger.Error().Int("position", i).Str("operation", string(req.Kind)).Str("error", res.Error).Msg("operation failed")
		}
		batch.Results = append(batch.Results, res)
	}

	batch.Total = len(batch.Results)

	d.reporter.Report(ctx, telemetry.NewEvent(telemetry.LevelInfo,
		fmt.Sprintf("Batch finished: %d succeeded, %d failed", batch.Succeeded, batch.Failed)))
	logger.Debug().Int("succeeded", batch.Succeeded).Int("failed", batch.Failed).Msg("batch finished")

	return batch, nil
}

// runOne resolves a single request into its result. Validation runs first,
// then the policy gate, then the executor. A denied request never reaches
// the executor.
func (d *dispatcher) runOne(ctx context.Context, req Request) Result {
	res := Result{
		Operation:   req.Kind,
		Destination: req.Destination,
		Source:      req.Source,
	}

	if err := req.Validate(); err != nil {
		res.Error = err.Error()
		d.reporter.Report(ctx, telemetry.NewEvent(telemetry.LevelError,
			fmt.Sprintf("Invalid operation at %s: %s", req.Destination, res.Error)))
		return res
	}

	if err := d.policy.Authorize(req); err != nil {
		res.Error = err.Error()
		d.reporter.Report(ctx, telemetry.NewEvent(telemetry.LevelWarning,
			fmt.Sprintf("Denied %s on %s: %s", req.Kind, req.Destination, res.Error)))
		return res
	}

	if err := d.executor.Execute(ctx, req); err != nil {
		res.Error = err.Error()
		if res.Error == "" {
			res.Error = "Operation failed"
		}
		d.reporter.Report(ctx, telemetry.NewEvent(telemetry.LevelError,
			fmt.Sprintf("Failed %s on %s: %s", req.Kind, req.Destination, res.Error)))
		return res
	}

	res.Success = true
	d.reporter.Report(ctx, telemetry.NewEvent(telemetry.LevelInfo,
		fmt.Sprintf("Completed %s on %s", req.Kind, req.Destination)))
	return res
}
