package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fsops"
)

// envelope is the plugin's sole externally observable output, printed as
// JSON on stdout.
type envelope struct {
	Status  string             `json:"status"`
	Data    *fsops.BatchResult `json:"data,omitempty"`
	Message string             `json:"message,omitempty"`
}

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	rootCmd := newRootCmd()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		emit(envelope{
			Status:  "error",
			Message: fmt.Sprintf("Plugin execution failed: %s", err),
		})
		os.Exit(1)
	}
}

// emit prints the output envelope to stdout
func emit(out envelope) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encoding output: %s\n", err)
	}
}
