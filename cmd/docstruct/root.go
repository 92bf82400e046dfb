package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/render"
)

var (
	cfgFile       string
	outputFormat  string
	structureType string
	logFormat     string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docstruct",
	Short: "Build document structure trees from classified lines",
	Long: `docstruct turns a sequence of classified document lines into a
structure: a hierarchy tree (headers, nested lists, paragraphs, tables) or
a flat linear list.

Input is a JSON line document, or JSON Lines with one line per row. Each
line carries its text, inline annotations, and a hierarchy level.

Output formats:
  json, yaml      node tree with node_id, text, annotations, metadata
  html            semantic HTML document
  markdown        markdown outline`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(cmd.ErrOrStderr(), cfg.LogFormat)
		if cfg.ConfigFile != "" {
			logger.Debug("loaded config", "file", cfg.ConfigFile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./docstruct.yaml or ~/.docstruct/docstruct.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "", "output format: json, yaml, html or markdown (default json)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&structureType, "structure", "s", "", "structure type: tree or linear (default tree)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logFormat, "log-format", "", "log format: json or text (default json)",
	)

	rootCmd.AddCommand(buildCmd, batchCmd, chunkCmd, versionCmd)
}

// newLogger writes logs to w so rendered output on stdout stays clean.
func newLogger(w io.Writer, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func format() render.Format {
	f, err := render.ParseFormat(cfg.OutputFormat)
	if err != nil {
		// Validate already rejected unknown formats.
		return render.FormatJSON
	}
	return f
}

// openInput returns the named file, or stdin for "-" or no name.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}
