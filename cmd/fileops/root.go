package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fileops/pkg/config"
	"github.com/walteh/fileops/pkg/fsops"
	"github.com/walteh/fileops/pkg/telemetry"
	"github.com/walteh/fileops/pkg/userlog"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile       string
	operations       []string
	destinations     []string
	sources          []string
	contents         []string
	allowDestructive bool
	protectedPaths   []string
	agentURL         string
	agentToken       string
	debug            bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fileops",
		Short: "A plugin for performing declarative filesystem operations",
		Long: `fileops executes one or more filesystem operations (create_file,
create_dir, move, delete, rename) described by parallel option lists or a
config file, and reports progress to a monitoring agent.

Destructive operations (move, delete, rename) are disabled by default;
enable them with --allow-destructive only if you understand the risks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (.yaml, .json, .hcl or .fileops)")
	cmd.Flags().StringArrayVar(&operations, "operation", nil, "operations to perform (create_file, create_dir, move, delete, rename)")
	cmd.Flags().StringArrayVar(&destinations, "destination", nil, "destination paths for operations")
	cmd.Flags().StringArrayVar(&sources, "source", nil, "source paths for move/rename operations")
	cmd.Flags().StringArrayVar(&contents, "content", nil, "content for create_file operations")
	cmd.Flags().BoolVar(&allowDestructive, "allow-destructive", false, "enable move, delete and rename operations")
	cmd.Flags().StringArrayVar(&protectedPaths, "protected-path", nil, "doublestar patterns no operation may touch")
	cmd.Flags().StringVar(&agentURL, "agent-url", "", "monitoring agent base URL")
	cmd.Flags().StringVar(&agentToken, "agent-token", "", "monitoring agent bearer token")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	return cmd
}

// buildConfig assembles the configuration from the config file and flags.
// Flags override the file's lists when both are given.
func buildConfig(ctx context.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if configFile != "" {
		loaded, err := config.Load(ctx, configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if len(operations) > 0 {
		cfg.Operations = operations
	}
	if len(destinations) > 0 {
		cfg.Destinations = destinations
	}
	if len(sources) > 0 {
		cfg.Sources = sources
	}
	if len(contents) > 0 {
		cfg.Contents = contents
	}
	if allowDestructive {
		cfg.AllowDestructive = true
	}
	if len(protectedPaths) > 0 {
		cfg.ProtectedPaths = append(cfg.ProtectedPaths, protectedPaths...)
	}
	if agentURL != "" {
		cfg.Agent = &config.AgentConfig{URL: agentURL, Token: agentToken}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBatch(ctx context.Context) error {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.Ctx(ctx).Level(level)
	ctx = logger.WithContext(ctx)
	ulog := userlog.New(logger)

	cfg, err := buildConfig(ctx)
	if err != nil {
		ulog.LogFatal("Failed to build configuration", err)
		return err
	}

	// Connect the agent channel. The channel lifecycle is owned here, not
	// by the dispatcher; a connect failure with a configured endpoint
	// aborts the run before any position is processed.
	var channel telemetry.Channel
	if cfg.Agent != nil && cfg.Agent.URL != "" {
		timeout, err := cfg.Agent.Timeout()
		if err != nil {
			ulog.LogFatal("Invalid agent configuration", err)
			return err
		}
		httpChannel, err := telemetry.NewHTTPChannel(telemetry.AgentOptions{
			URL:            cfg.Agent.URL,
			Token:          cfg.Agent.Token,
			ConnectTimeout: timeout,
		})
		if err != nil {
			ulog.LogFatal("Failed to create agent channel", err)
			return err
		}
		if err := httpChannel.Connect(ctx); err != nil {
			ulog.LogFatal("Failed to connect to agent", err)
			return errors.Errorf("connecting to agent: %w", err)
		}
		defer httpChannel.Teardown()
		channel = httpChannel
	}

	dispatcher, err := fsops.New(fsops.Options{
		Policy: fsops.NewPolicy(fsops.PolicyOptions{
			AllowDestructive: cfg.AllowDestructive,
			ProtectedPaths:   cfg.ProtectedPaths,
		}),
		Executor: fsops.NewExecutor(),
		Reporter: telemetry.NewReporter(channel),
	})
	if err != nil {
		return errors.Errorf("creating dispatcher: %w", err)
	}

	batch, err := dispatcher.Run(ctx, cfg.BuildRequests())
	if err != nil {
		return errors.Errorf("running batch: %w", err)
	}

	for _, res := range batch.Results {
		ulog.LogOperation(res)
	}
	ulog.LogBatch(batch)

	emit(envelope{Status: batchStatus(batch), Data: batch})

	return nil
}

// batchStatus maps a finished batch onto the envelope status. The error
// status never comes from here; it is reserved for runs that fail before
// any position is processed.
func batchStatus(batch *fsops.BatchResult) string {
	if batch.Partial() {
		return "partial"
	}
	return "success"
}

