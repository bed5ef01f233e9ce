package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"whisper-api/cmd/whisper-api/cmd/serve"
	"whisper-api/cmd/whisper-api/cmd/transcribe"
	"whisper-api/cmd/whisper-api/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "whisper-api",
	Short: "Japanese speech-to-text service built on whisper.cpp",
	Long: `Japanese speech-to-text service built on whisper.cpp.
- serve: run the HTTP transcription service
- transcribe: run the same pipeline once over files, URLs or s3:// objects
Configuration comes from .env, CONFIG_FILE (YAML) and the environment.`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
