// Package retrieval indexes booking policies and serves similarity search
// over their embedded chunks. Policies arrive as a markdown file with one
// policy per line; each line becomes a document, and long documents are
// chunked before embedding.
package retrieval

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/bookingsense/plugin/ai"
	"github.com/hrygo/bookingsense/plugin/ai/agent/tools"
	"github.com/hrygo/bookingsense/store"
)

const (
	// Bounded concurrency for embedding calls during indexing.
	maxEmbedConcurrency = 4
)

// PolicyIndex ingests policy files and answers similarity queries.
// It satisfies tools.PolicySearcher.
type PolicyIndex struct {
	store    *store.Store
	embedder ai.EmbeddingService
}

func NewPolicyIndex(st *store.Store, embedder ai.EmbeddingService) *PolicyIndex {
	return &PolicyIndex{store: st, embedder: embedder}
}

// IndexFile replaces the stored policy corpus with the contents of the file
// at path. Existing documents and chunks are dropped first so re-indexing is
// idempotent.
func (p *PolicyIndex) IndexFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open policy file %s", path)
	}
	defer f.Close()
	return p.Index(ctx, path, f)
}

// Index replaces the stored policy corpus with policies read from r, one
// policy per non-empty line.
func (p *PolicyIndex) Index(ctx context.Context, source string, r io.Reader) error {
	policies, err := readPolicies(r)
	if err != nil {
		return err
	}
	if len(policies) == 0 {
		return errors.Errorf("no policies found in %s", source)
	}

	if err := p.store.DeletePolicyDocuments(ctx); err != nil {
		return errors.Wrap(err, "failed to clear existing policies")
	}

	total := 0
	for _, policy := range policies {
		doc, err := p.store.CreatePolicyDocument(ctx, &store.PolicyDocument{
			UID:     shortuuid.New(),
			Source:  source,
			Content: policy,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create policy document")
		}

		chunks := ai.ChunkDocument(markdownToPlain(policy))
		if err := p.embedChunks(ctx, doc.ID, chunks); err != nil {
			return err
		}
		total += len(chunks)
	}

	slog.Info("policy index rebuilt", "source", source, "documents", len(policies), "chunks", total)
	return nil
}

// embedChunks embeds and persists the chunks of one document with bounded
// concurrency. The first failure wins; remaining work still drains.
func (p *PolicyIndex) embedChunks(ctx context.Context, documentID int32, chunks []string) error {
	sem := semaphore.NewWeighted(maxEmbedConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, chunk := range chunks {
		if err := sem.Acquire(ctx, 1); err != nil {
			return errors.Wrap(err, "indexing cancelled")
		}
		wg.Add(1)
		go func(index int, content string) {
			defer wg.Done()
			defer sem.Release(1)

			embedding, err := p.embedder.Embedding(ctx, content)
			if err == nil {
				_, err = p.store.UpsertPolicyChunk(ctx, &store.PolicyChunk{
					DocumentID: documentID,
					ChunkIndex: index,
					Content:    content,
					Embedding:  embedding,
				})
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "failed to index chunk %d", index)
				}
				mu.Unlock()
			}
		}(i, chunk)
	}
	wg.Wait()
	return firstErr
}

// Search embeds the query and returns the closest policy chunks, best first.
func (p *PolicyIndex) Search(ctx context.Context, query string, limit int) ([]tools.PolicyHit, error) {
	embedding, err := p.embedder.Embedding(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed query")
	}

	matches, err := p.store.SearchPolicyChunks(ctx, embedding, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search policy chunks")
	}

	hits := make([]tools.PolicyHit, 0, len(matches))
	for _, match := range matches {
		hits = append(hits, tools.PolicyHit{
			Content: match.Chunk.Content,
			Score:   match.Score,
		})
	}
	return hits, nil
}

func readPolicies(r io.Reader) ([]string, error) {
	policies := []string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		policies = append(policies, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read policy file")
	}
	return policies, nil
}
