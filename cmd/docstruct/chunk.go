package main

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/chunker"
	"github.com/dgallion1/docstruct/internal/render"
)

var minChunk int

var chunkCmd = &cobra.Command{
	Use:   "chunk [file|-]",
	Short: "Split a document into section-aligned chunks",
	Long: `Chunk builds the document tree and splits its body text into chunks
that never cross a header. Each chunk carries the header breadcrumb, the
node id of its section and its page range.

Chunk sizes come from chunk_size and chunk_overlap in the config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := buildFromArgs(cmd, args)
		if err != nil {
			return err
		}
		chunks := chunker.ChunkTree(tree, chunker.Config{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			MinChunk:     minChunk,
		})
		logger.Info("chunked document", "chunks", len(chunks))

		f := render.FormatJSON
		if format() == render.FormatYAML {
			f = render.FormatYAML
		}
		if chunks == nil {
			chunks = []chunker.Chunk{}
		}
		return render.Encode(cmd.OutOrStdout(), f, chunks)
	},
}

func init() {
	chunkCmd.Flags().IntVar(&minChunk, "min-chunk", chunker.DefaultConfig().MinChunk, "drop chunks below this many tokens")
}
