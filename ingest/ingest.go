// Package ingest loads the knowledge corpus, splits it into overlapping
// chunks and indexes the chunks with their embeddings. Sources are local text
// and markdown files plus web pages.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/ragscope/ragscope/index"
	"github.com/ragscope/ragscope/log"
)

// Pipeline ingests documents into a vector index.
type Pipeline struct {
	index        index.Index
	embed        index.EmbedFunc
	chunkSize    int
	chunkOverlap int
	logger       log.Logger
}

// Options configures a Pipeline.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	Logger       log.Logger
}

// NewPipeline creates an ingestion pipeline writing into idx.
func NewPipeline(idx index.Index, embed index.EmbedFunc, opts Options) *Pipeline {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 500
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = 0
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Pipeline{
		index:        idx,
		embed:        embed,
		chunkSize:    opts.ChunkSize,
		chunkOverlap: opts.ChunkOverlap,
		logger:       opts.Logger,
	}
}

func (p *Pipeline) splitter() textsplitter.RecursiveCharacter {
	splitter := textsplitter.NewRecursiveCharacter()
	splitter.ChunkSize = p.chunkSize
	splitter.ChunkOverlap = p.chunkOverlap
	splitter.Separators = []string{"\n\n", "\n", ". ", " ", ""}
	return splitter
}

// IngestDir walks dir for .txt and .md files and indexes their chunks.
// Returns the number of chunks indexed.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) (int, error) {
	var docs []schema.Document

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("ingest: open %s: %w", path, err)
		}
		defer f.Close()

		loaded, err := documentloaders.NewText(f).LoadAndSplit(ctx, p.splitter())
		if err != nil {
			return fmt.Errorf("ingest: load %s: %w", path, err)
		}
		for i := range loaded {
			if loaded[i].Metadata == nil {
				loaded[i].Metadata = map[string]any{}
			}
			loaded[i].Metadata["source"] = path
		}
		docs = append(docs, loaded...)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return p.indexChunks(ctx, docs)
}

// IngestText splits raw text and indexes its chunks under the given source
// label. Returns the number of chunks indexed.
func (p *Pipeline) IngestText(ctx context.Context, source, text string) (int, error) {
	chunks, err := p.splitter().SplitText(text)
	if err != nil {
		return 0, fmt.Errorf("ingest: split %s: %w", source, err)
	}

	docs := make([]schema.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, schema.Document{
			PageContent: chunk,
			Metadata:    map[string]any{"source": source},
		})
	}
	return p.indexChunks(ctx, docs)
}

func (p *Pipeline) indexChunks(ctx context.Context, docs []schema.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	out := make([]index.Document, 0, len(docs))
	embeddings := make([][]float32, 0, len(docs))
	for i, doc := range docs {
		content := strings.TrimSpace(doc.PageContent)
		if content == "" {
			continue
		}

		embedding, err := p.embed(ctx, content)
		if err != nil {
			return 0, fmt.Errorf("ingest: embed chunk %d: %w", i, err)
		}

		metadata := map[string]string{}
		for k, v := range doc.Metadata {
			if s, ok := v.(string); ok {
				metadata[k] = s
			}
		}
		out = append(out, index.Document{
			ID:       fmt.Sprintf("%s#%d", metadata["source"], i),
			Content:  content,
			Metadata: metadata,
		})
		embeddings = append(embeddings, embedding)
	}

	if err := p.index.Upsert(ctx, out, embeddings); err != nil {
		return 0, fmt.Errorf("ingest: upsert chunks: %w", err)
	}
	p.logger.Info("indexed %d chunks", len(out))
	return len(out), nil
}
