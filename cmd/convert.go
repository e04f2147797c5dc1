package main

import (
	"context"
	"io"
	"os"
	"strings"

	"mdconvert/internal/config"
	"mdconvert/pkg/domain"
	"mdconvert/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// convertCommand constructs the 'convert' subcommand that runs one conversion
// locally, without the HTTP server.
func convertCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Converts a markdown file to docx or xlsx",
		Run: func(cmd *cobra.Command, args []string) {
			input, _ := cmd.Flags().GetString("input")
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.RequestTimeout)
			defer cancel()

			source, err := readInput(input)
			if err != nil {
				logger.Fatal(ctx, "could not read markdown", zap.String("input", input), zap.Error(err))
			}

			artifact, err := getConverter(ctx, cfg, nil).Convert(ctx, string(source), format)
			if err != nil {
				logger.Fatal(ctx, "could not convert markdown", zap.Error(err))
			}

			if output == "" {
				output = artifact.Filename
			}
			if err = os.WriteFile(output, artifact.Data, 0o644); err != nil { //nolint: gosec
				logger.Fatal(ctx, "could not write output", zap.String("output", output), zap.Error(err))
			}

			logger.Info(ctx, "markdown converted",
				zap.String("output", output),
				zap.String("format", string(artifact.Format)),
				zap.Int("bytes", artifact.Size()),
			)
		},
	}

	cmd.Flags().StringP("input", "i", "-", "Markdown file to read, - for stdin")
	cmd.Flags().StringP("format", "f", string(domain.FormatDOCX), "Output format ("+formatNames()+")")
	cmd.Flags().StringP("output", "o", "", "Output file, defaults to converted.<format>")

	return cmd
}

func formatNames() string {
	names := make([]string, 0, len(domain.Formats()))
	for _, f := range domain.Formats() {
		names = append(names, string(f))
	}

	return strings.Join(names, ", ")
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path) //nolint: gosec
}
