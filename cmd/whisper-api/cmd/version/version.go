package version

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"whisper-api/internal/config"
)

// Cmd represents the version command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of whisper-api",
	RunE: func(cmd *cobra.Command, args []string) error {
		printVersion(cmd.OutOrStdout())
		return nil
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s v%s\n", config.ServiceName, config.ServiceVersion)
}
