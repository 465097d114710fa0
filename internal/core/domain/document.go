package domain

// Document is a single markdown file read from the knowledge base.
// It is the input to chunking and is never persisted as a whole.
type Document struct {
	// Path is the slash-separated path relative to the knowledge-base root.
	// Category inference reads its directory segments.
	Path string

	// Source identifies where the document came from.
	// Ingestion uses the full file path; it is copied into every chunk.
	Source string

	// FileName is the base name of the file, extension included.
	FileName string

	// Content is the raw markdown text.
	Content string
}

// Chunk is a bounded span of document text tagged with provenance.
// It is the atomic retrievable unit of the knowledge base.
type Chunk struct {
	// Content is the chunk text.
	Content string

	// Source is the originating document identifier.
	Source string

	// Title is the document-level heading.
	Title string

	// Section is the nearest enclosing subheading.
	Section string

	// ChunkIndex is the ordinal position within the source, starting at 0.
	ChunkIndex int

	// Category is the topical tag inferred once at ingestion.
	Category string

	// FileName is the base name of the source file.
	FileName string
}

// Metadata returns every chunk field except the content.
func (c Chunk) Metadata() ChunkMetadata {
	return ChunkMetadata{
		Source:     c.Source,
		Title:      c.Title,
		Section:    c.Section,
		ChunkIndex: c.ChunkIndex,
		Category:   c.Category,
		FileName:   c.FileName,
	}
}

// ChunkMetadata is the stored, content-free view of a chunk.
type ChunkMetadata struct {
	Source     string `json:"source" yaml:"source"`
	Title      string `json:"title" yaml:"title"`
	Section    string `json:"section" yaml:"section"`
	ChunkIndex int    `json:"chunk_index" yaml:"chunk_index"`
	Category   string `json:"category" yaml:"category"`
	FileName   string `json:"file_name" yaml:"file_name"`
}
