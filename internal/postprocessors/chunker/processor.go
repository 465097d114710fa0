// Package chunker provides a markdown-aware chunking processor.
//
// Documents are split at second- to fourth-level headings, then packed
// paragraph by paragraph up to a maximum size. Paragraphs that alone exceed
// the maximum are packed sentence by sentence; a sentence is never split.
package chunker

import (
	"context"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// DefaultMaxChunkSize is the default maximum number of characters per chunk.
const DefaultMaxChunkSize = 1500

// DefaultMinChunkSize is the default minimum number of characters per chunk.
// Shorter chunks are dropped.
const DefaultMinChunkSize = 100

// Section labels used when a document has no usable heading.
const (
	// IntroductionSection labels text before the first subheading.
	IntroductionSection = "Introduction"

	// MainSection labels a document with no subheadings at all.
	MainSection = "Main"
)

var (
	titlePattern     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	headingPattern   = regexp.MustCompile(`(?m)^(#{2,4})\s+(.+)$`)
	rulePattern      = regexp.MustCompile(`\n-{3,}\n`)
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
	paragraphPattern = regexp.MustCompile(`\n\n+`)
	sentenceEnd      = regexp.MustCompile(`[.!?]\s+`)
)

// Processor splits markdown documents into section-aware chunks.
// It implements the PostProcessor interface.
type Processor struct {
	maxChunkSize int
	minChunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxChunkSize sets the maximum chunk size in characters.
func WithMaxChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.maxChunkSize = size
		}
	}
}

// WithMinChunkSize sets the minimum chunk size in characters.
func WithMinChunkSize(size int) Option {
	return func(p *Processor) {
		if size >= 0 {
			p.minChunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxChunkSize: DefaultMaxChunkSize,
		minChunkSize: DefaultMinChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	// A minimum above the maximum would drop every packed chunk.
	if p.minChunkSize > p.maxChunkSize {
		p.minChunkSize = p.maxChunkSize
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxChunkSize returns the configured maximum chunk size.
func (p *Processor) MaxChunkSize() int {
	return p.maxChunkSize
}

// MinChunkSize returns the configured minimum chunk size.
func (p *Processor) MinChunkSize() int {
	return p.minChunkSize
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	title := extractTitle(doc)
	content := clean(doc.Content)

	var chunks []domain.Chunk
	index := 0

	for _, sec := range splitSections(content) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, text := range p.splitSection(sec.body) {
			text = strings.TrimSpace(text)
			if runeLen(text) < p.minChunkSize {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				Content:    text,
				Source:     doc.Source,
				Title:      title,
				Section:    sec.label,
				ChunkIndex: index,
				FileName:   doc.FileName,
			})
			index++
		}
	}

	return chunks, nil
}

// section is one heading-delimited part of a document.
type section struct {
	label string
	body  string
}

// extractTitle returns the first top-level heading, or the file stem.
func extractTitle(doc *domain.Document) string {
	if m := titlePattern.FindStringSubmatch(doc.Content); m != nil {
		return m[1]
	}
	name := doc.FileName
	if name == "" {
		name = path.Base(doc.Path)
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

// clean strips horizontal rules and collapses runs of blank lines.
func clean(content string) string {
	content = rulePattern.ReplaceAllString(content, "\n\n")
	content = blankRunPattern.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// splitSections splits content at ##, ### and #### headings.
func splitSections(content string) []section {
	var sections []section
	label := IntroductionSection
	last := 0

	for _, m := range headingPattern.FindAllStringSubmatchIndex(content, -1) {
		if body := strings.TrimSpace(content[last:m[0]]); body != "" {
			sections = append(sections, section{label: label, body: body})
		}
		label = content[m[4]:m[5]]
		last = m[1]
	}

	if body := strings.TrimSpace(content[last:]); body != "" {
		sections = append(sections, section{label: label, body: body})
	}

	if len(sections) == 0 {
		sections = append(sections, section{label: MainSection, body: content})
	}

	return sections
}

// splitSection packs paragraphs of a section into chunks no larger than
// the maximum, falling back to sentences for oversized paragraphs.
func (p *Processor) splitSection(body string) []string {
	if runeLen(body) <= p.maxChunkSize {
		return []string{body}
	}

	var out []string
	current := ""

	for _, para := range paragraphPattern.Split(body, -1) {
		if runeLen(current)+runeLen(para)+2 <= p.maxChunkSize {
			if current == "" {
				current = para
			} else {
				current += "\n\n" + para
			}
			continue
		}

		if current != "" {
			out = append(out, current)
		}

		if runeLen(para) > p.maxChunkSize {
			out = append(out, p.splitParagraph(para)...)
			current = ""
		} else {
			current = para
		}
	}

	if current != "" {
		out = append(out, current)
	}

	return out
}

// splitParagraph packs the sentences of a paragraph into chunks.
// A sentence longer than the maximum becomes a chunk on its own.
func (p *Processor) splitParagraph(para string) []string {
	var out []string
	current := ""

	for _, sentence := range splitSentences(para) {
		if runeLen(current)+runeLen(sentence)+1 <= p.maxChunkSize {
			if current == "" {
				current = sentence
			} else {
				current += " " + sentence
			}
			continue
		}

		if current != "" {
			out = append(out, current)
		}
		current = sentence
	}

	if current != "" {
		out = append(out, current)
	}

	return out
}

// splitSentences splits text after '.', '!' or '?' followed by whitespace.
// The whitespace itself is dropped.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for _, m := range sentenceEnd.FindAllStringIndex(text, -1) {
		// m[0] is the punctuation byte, kept with its sentence.
		sentences = append(sentences, text[start:m[0]+1])
		start = m[1]
	}

	return append(sentences, text[start:])
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
