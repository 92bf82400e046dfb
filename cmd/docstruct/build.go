package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/linesource"
	"github.com/dgallion1/docstruct/internal/render"
	"github.com/dgallion1/docstruct/internal/structure"
)

var (
	inputFormat string
	writeFile   string
)

var buildCmd = &cobra.Command{
	Use:   "build [file|-]",
	Short: "Build the structure of one document",
	Long: `Build reads one line document and writes its structure.

With no file, or "-", the document is read from stdin and --input-format
selects the decoder.

Examples:
  docstruct build report.json
  docstruct build -s linear -o yaml report.jsonl
  cat report.json | docstruct build -o markdown --write report.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := buildFromArgs(cmd, args)
		if err != nil {
			return err
		}

		if writeFile != "" {
			f, err := os.Create(writeFile)
			if err != nil {
				return err
			}
			return writeTree(f, tree)
		}
		if err := render.Write(cmd.OutOrStdout(), format(), tree); err != nil {
			return fmt.Errorf("render %s: %w", format(), err)
		}
		return nil
	},
}

// writeTree renders tree into wc and closes it. A failed close is an error.
func writeTree(wc io.WriteCloser, tree *doctree.Tree) error {
	if err := render.Write(wc, format(), tree); err != nil {
		wc.Close()
		return fmt.Errorf("render %s: %w", format(), err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{buildCmd, chunkCmd} {
		c.Flags().StringVar(&inputFormat, "input-format", "json", "decoder for stdin: json or jsonl")
	}
	buildCmd.Flags().StringVar(&writeFile, "write", "", "write output to this file instead of stdout")
}

// buildFromArgs decodes the input named by args and builds it with the
// configured structure type.
func buildFromArgs(cmd *cobra.Command, args []string) (*doctree.Tree, error) {
	in, name, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	decoderName := name
	if decoderName == "" {
		decoderName = "stdin." + inputFormat
	}
	dec, err := linesource.ForFile(decoderName, linesource.Options{
		Validate: cfg.ValidateSchema,
		MaxBytes: cfg.MaxInputBytes,
	})
	if err != nil {
		return nil, err
	}
	doc, err := dec.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", decoderName, err)
	}

	d, err := cfg.Dispatcher()
	if err != nil {
		return nil, err
	}
	kind, err := d.Resolve(structureType)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	tree, err := d.Build(kind, doc)
	if err != nil {
		logger.Error("build failed", "file", decoderName, "structure", kind.String(), "status", structure.HTTPStatus(err), "error", err)
		return nil, err
	}
	logger.Info("built structure",
		"file", decoderName,
		"structure", kind.String(),
		"lines", len(doc.Lines),
		"tables", len(doc.Tables),
		"nodes", tree.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tree, nil
}
