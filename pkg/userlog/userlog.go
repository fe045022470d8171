// Package userlog provides user-friendly console feedback for batch runs,
// doubled into zerolog for structured logging.
package userlog

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fsops"
)

// 📢 UserLogger prints per-operation and batch-level feedback
type UserLogger struct {
	log zerolog.Logger
}

// 🏭 New creates a user logger backed by the given zerolog logger
func New(log zerolog.Logger) *UserLogger {
	return &UserLogger{log: log}
}

// formatRow renders one result as a colored console line
func formatRow(res fsops.Result) string {
	var symbol string
	if res.Success {
		symbol = color.New(color.FgGreen).Sprint("✓")
	} else {
		symbol = color.New(color.FgRed).Sprint("✗")
	}

	target := res.Destination
	if res.Source != "" {
		target = fmt.Sprintf("%s -> %s", res.Source, res.Destination)
	}

	line := fmt.Sprintf("%s %-12s %s", symbol, res.Operation, target)
	if res.Error != "" {
		line += " " + color.New(color.FgYellow).Sprint(res.Error)
	}
	return line
}

// 📝 LogOperation prints one operation outcome
func (u *UserLogger) LogOperation(res fsops.Result) {
	var printer *pterm.PrefixPrinter
	switch {
	case res.Success:
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"})
	case res.Error == fsops.DenialAdvisory:
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "🛡️"})
	default:
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	}
	printer.Println(formatRow(res))

	if res.Success {
		u.log.Info().Str("operation", string(res.Operation)).Str("destination", res.Destination).Msg("operation succeeded")
	} else {
		u.log.Warn().Str("operation", string(res.Operation)).Str("destination", res.Destination).Str("error", res.Error).Msg("operation failed")
	}
}

// 📊 LogBatch prints the batch summary
func (u *UserLogger) LogBatch(batch *fsops.BatchResult) {
	summary := fmt.Sprintf("%d operations: %d succeeded, %d failed", batch.Total, batch.Succeeded, batch.Failed)
	if batch.Failed == 0 {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(summary)
	} else {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(summary)
	}
	u.log.Info().Int("total", batch.Total).Int("succeeded", batch.Succeeded).Int("failed", batch.Failed).Msg("batch finished")
}

// ❌ LogFatal prints a run-level failure
func (u *UserLogger) LogFatal(description string, err error) {
	pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
	if err != nil {
		pterm.Error.Println(err)
	}
	u.log.Error().Err(err).Msg(description)
}
