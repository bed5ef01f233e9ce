package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"whisper-api/internal/app"
)

var shutdownTimeout time.Duration

func init() {
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second,
		"How long to wait for in-flight transcriptions when stopping")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP transcription service",
	Long: `Run the HTTP transcription service.

Endpoints: GET /health, GET /info, POST /transcribe, GET /metrics, GET /swagger/index.html.
Listens on HOST:PORT (default 0.0.0.0:5000).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, cleanup, err := app.InitializeServer()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh, err := srv.Start()
		if err != nil {
			return err
		}

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
