package domain

// Record is a chunk as held by a vector collection.
type Record struct {
	// ID is derived from the chunk's source and index, so re-adding
	// the same chunk overwrites it.
	ID string

	// Document is the chunk text.
	Document string

	// Metadata holds all chunk fields except content.
	Metadata ChunkMetadata

	// Embedding is the vector representation of Document.
	Embedding []float32
}

// VectorHit is one nearest-neighbour match from a collection.
type VectorHit struct {
	// ID is the matched record ID.
	ID string `json:"id" yaml:"id"`

	// Content is the matched record's document text.
	Content string `json:"content" yaml:"content"`

	// Metadata is the matched record's metadata.
	Metadata ChunkMetadata `json:"metadata" yaml:"metadata"`

	// Distance is the cosine distance to the query, in [0, 2].
	Distance float64 `json:"distance" yaml:"distance"`

	// Relevance is 1 - Distance, clamped to [0, 1].
	Relevance float64 `json:"relevance" yaml:"relevance"`
}

// StoreStats describes a vector store for introspection.
type StoreStats struct {
	CollectionName     string `json:"collection_name" yaml:"collection_name"`
	DocumentCount      int    `json:"document_count" yaml:"document_count"`
	EmbeddingDimension int    `json:"embedding_dimension" yaml:"embedding_dimension"`
	EmbeddingModel     string `json:"embedding_model" yaml:"embedding_model"`
}

// RelevanceFromDistance converts a cosine distance into a relevance score.
// The result is clamped to [0, 1]; it never increases with distance.
func RelevanceFromDistance(distance float64) float64 {
	r := 1 - distance
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
