package domain

// Conventional knowledge-base subtrees, walked in this order.
const (
	// SubtreeTools holds per-category tool documentation: tools/<category>/*.md.
	SubtreeTools = "tools"

	// SubtreeGeneral holds flat general documentation: general/*.md.
	SubtreeGeneral = "general"
)

// DefaultSubtrees returns the subtrees ingested when none are given.
func DefaultSubtrees() []string {
	return []string{SubtreeTools, SubtreeGeneral}
}

// IngestOptions configures a knowledge-base ingestion run.
type IngestOptions struct {
	// ClearExisting removes every stored record before adding new ones.
	ClearExisting bool

	// BatchSize bounds how many chunks are embedded and stored at once.
	// Zero means the store default.
	BatchSize int

	// Subtrees lists the directories under the root to walk.
	// Empty means DefaultSubtrees.
	Subtrees []string
}

// IngestStats summarises an ingestion run.
type IngestStats struct {
	FilesProcessed int        `json:"files_processed" yaml:"files_processed"`
	ChunksCreated  int        `json:"chunks_created" yaml:"chunks_created"`
	ChunksStored   int        `json:"chunks_stored" yaml:"chunks_stored"`
	Store          StoreStats `json:"store" yaml:"store"`
}
