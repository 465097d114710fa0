package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/connectors/filesystem"
	"github.com/custodia-labs/kbase/internal/postprocessors"
)

var (
	chunkMaxSize int
	chunkMinSize int
	chunkJSON    bool
	chunkYAML    bool

	// chunkFs is the filesystem chunk reads from. Tests swap in a MemMapFs.
	chunkFs = afero.NewOsFs()
)

// chunkOutput is the structured form of a chunk.
type chunkOutput struct {
	Index    int    `json:"chunk_index" yaml:"chunk_index"`
	Title    string `json:"title" yaml:"title"`
	Section  string `json:"section" yaml:"section"`
	Category string `json:"category" yaml:"category"`
	Length   int    `json:"length" yaml:"length"`
	Content  string `json:"content" yaml:"content"`
}

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Show how a markdown file is split into chunks",
	Long: `Run the ingestion pipeline on a single markdown file and print the chunks
it produces, without embedding or storing anything.

Files inside the knowledge base get the same category they would get
during ingestion.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().IntVar(&chunkMaxSize, "max-size", 0, "maximum characters per chunk (0 uses chunking.max_size)")
	chunkCmd.Flags().IntVar(&chunkMinSize, "min-size", -1, "drop chunks shorter than this (-1 uses chunking.min_size)")
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "output chunks as JSON")
	chunkCmd.Flags().BoolVar(&chunkYAML, "yaml", false, "output chunks as YAML")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	if appConfig == nil {
		return errors.New("configuration not loaded")
	}
	format, err := outputFormat(chunkJSON, chunkYAML)
	if err != nil {
		return err
	}

	maxSize := chunkMaxSize
	if maxSize <= 0 {
		maxSize = appConfig.Chunking.MaxSize
	}
	minSize := chunkMinSize
	if minSize < 0 {
		minSize = appConfig.Chunking.MinSize
	}
	if minSize > maxSize {
		return fmt.Errorf("--min-size %d exceeds max size %d", minSize, maxSize)
	}

	root, rel := chunkLocation(args[0])
	doc, err := filesystem.New(chunkFs, root).Read(cmd.Context(), rel)
	if err != nil {
		return err
	}

	chunks, err := postprocessors.DefaultPipeline(maxSize, minSize).Process(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("chunking %s: %w", args[0], err)
	}

	out := make([]chunkOutput, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, chunkOutput{
			Index:    c.ChunkIndex,
			Title:    c.Title,
			Section:  c.Section,
			Category: c.Category,
			Length:   utf8.RuneCountInString(c.Content),
			Content:  c.Content,
		})
	}

	if format != formatText {
		return writeStructured(cmd, out, format)
	}

	cmd.Printf("%s: %d chunks\n", doc.Path, len(out))
	for _, c := range out {
		cmd.Printf("\n[%d] %s - %s (%s, %d chars)\n", c.Index, c.Title, c.Section, c.Category, c.Length)
		cmd.Println(strings.Repeat("-", 40))
		cmd.Println(c.Content)
	}
	return nil
}

// chunkLocation splits file into a root and a slash-separated relative
// path. Files under the knowledge base are made relative to it so that
// category inference sees their subtree.
func chunkLocation(file string) (root, rel string) {
	if kb := appConfig.KBPath; kb != "" {
		absKB, errKB := filepath.Abs(kb)
		absFile, errFile := filepath.Abs(file)
		if errKB == nil && errFile == nil {
			r, err := filepath.Rel(absKB, absFile)
			if err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) {
				return absKB, filepath.ToSlash(r)
			}
		}
	}
	return filepath.Dir(file), filepath.Base(file)
}
