package transcribe

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"whisper-api/internal/app"
	"whisper-api/internal/app/progress"
	"whisper-api/internal/config"
)

var (
	language     string
	inputDir     string
	outputFile   string
	parallel     int
	showProgress bool
)

func init() {
	Cmd.Flags().StringVarP(&language, "language", "l", "",
		"Recognition language (default: WHISPER_LANGUAGE)")
	Cmd.Flags().StringVarP(&inputDir, "dir", "d", "",
		"Also transcribe every supported audio file in this directory")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"Write the JSON results to this file instead of stdout")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 1,
		"Number of inputs transcribed at the same time")
	Cmd.Flags().BoolVar(&showProgress, "progress", false,
		"Force the progress bar even when stderr is not a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [file|url|s3://bucket/key]...",
	Short: "Transcribe audio once and print the transcripts as JSON",
	Long: `Transcribe audio once and print the transcripts as JSON.

- Local paths, http(s) URLs and s3://bucket/key references are accepted
- Runs the same fetch, convert, recognize and extract pipeline as the HTTP service
- Exits non-zero when any input fails; failed inputs still appear in the output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if language != "" {
			if err := config.ValidateLanguage(language); err != nil {
				return err
			}
		}

		sources, err := collectSources(args, inputDir)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			return fmt.Errorf("no input given: pass references as arguments or use --dir")
		}

		rt, cleanup, err := app.InitializeRuntime()
		if err != nil {
			return err
		}
		defer cleanup()

		pm := progress.NewManager(progress.Config{Enabled: progress.ShouldShow(showProgress)})
		bar := pm.CreateBar(len(sources), "Transcribing")

		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			rt.Logger.Info("transcribing",
				zap.Int("inputs", len(sources)),
				zap.Int("parallel", parallel),
				zap.String("upload_dir", rt.Fetcher.UploadDir()),
			)
		}

		results := runAll(cmd.Context(), rt.Pipeline, sources, language, parallel, bar)
		pm.Wait()

		out := cmd.OutOrStdout()
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		if err := writeResults(out, results); err != nil {
			return err
		}

		if n := failures(results); n > 0 {
			return fmt.Errorf("%d of %d transcriptions failed", n, len(results))
		}
		return nil
	},
}

func writeResults(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}
