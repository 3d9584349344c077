package store

import "context"

// PolicyDocument is one booking policy as ingested from the policy file.
type PolicyDocument struct {
	ID        int32
	UID       string
	Source    string
	Content   string
	CreatedTs int64
}

// FindPolicyDocument is the find condition for policy documents.
type FindPolicyDocument struct {
	ID     *int32
	UID    *string
	Source *string
}

// PolicyChunk is an embedded fragment of a policy document. Short policies
// are a single chunk.
type PolicyChunk struct {
	ID         int64
	DocumentID int32
	ChunkIndex int
	Content    string
	Embedding  []float32
	CreatedTs  int64
}

// PolicyChunkMatch is a chunk with its similarity score against a query.
type PolicyChunkMatch struct {
	Chunk *PolicyChunk
	Score float32
}

// CreatePolicyDocument creates a new policy document.
func (s *Store) CreatePolicyDocument(ctx context.Context, create *PolicyDocument) (*PolicyDocument, error) {
	return s.driver.CreatePolicyDocument(ctx, create)
}

// ListPolicyDocuments lists policy documents with filter.
func (s *Store) ListPolicyDocuments(ctx context.Context, find *FindPolicyDocument) ([]*PolicyDocument, error) {
	return s.driver.ListPolicyDocuments(ctx, find)
}

// DeletePolicyDocuments removes every policy document and, via cascade,
// every chunk. Used when the policy file is re-indexed.
func (s *Store) DeletePolicyDocuments(ctx context.Context) error {
	return s.driver.DeletePolicyDocuments(ctx)
}

// UpsertPolicyChunk inserts or replaces a policy chunk and its embedding.
func (s *Store) UpsertPolicyChunk(ctx context.Context, upsert *PolicyChunk) (*PolicyChunk, error) {
	return s.driver.UpsertPolicyChunk(ctx, upsert)
}

// SearchPolicyChunks performs similarity search over chunk embeddings.
func (s *Store) SearchPolicyChunks(ctx context.Context, embedding []float32, limit int) ([]*PolicyChunkMatch, error) {
	return s.driver.SearchPolicyChunks(ctx, embedding, limit)
}
