package postgres

import (
	"context"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/hrygo/bookingsense/store"
)

func (d *DB) CreatePolicyDocument(ctx context.Context, create *store.PolicyDocument) (*store.PolicyDocument, error) {
	fields := []string{"uid", "source", "content"}
	args := []any{create.UID, create.Source, create.Content}

	stmt := `INSERT INTO policy_document (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create policy document")
	}
	return create, nil
}

func (d *DB) ListPolicyDocuments(ctx context.Context, find *store.FindPolicyDocument) ([]*store.PolicyDocument, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Source; v != nil {
		where, args = append(where, "source = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, uid, source, content, created_ts FROM policy_document
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list policy documents")
	}
	defer rows.Close()

	list := make([]*store.PolicyDocument, 0)
	for rows.Next() {
		var doc store.PolicyDocument
		if err := rows.Scan(&doc.ID, &doc.UID, &doc.Source, &doc.Content, &doc.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan policy document")
		}
		list = append(list, &doc)
	}
	return list, rows.Err()
}

func (d *DB) DeletePolicyDocuments(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM policy_document"); err != nil {
		return errors.Wrap(err, "failed to delete policy documents")
	}
	return nil
}

func (d *DB) UpsertPolicyChunk(ctx context.Context, upsert *store.PolicyChunk) (*store.PolicyChunk, error) {
	vector := pgvector.NewVector(upsert.Embedding)

	stmt := `INSERT INTO policy_chunk (document_id, chunk_index, content, embedding)
		VALUES (` + placeholders(4) + `)
		ON CONFLICT (document_id, chunk_index) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.DocumentID, upsert.ChunkIndex, upsert.Content, vector,
	).Scan(&upsert.ID, &upsert.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert policy chunk")
	}
	return upsert, nil
}

// SearchPolicyChunks performs vector similarity search using pgvector.
// The <=> operator computes cosine distance, so ordering by distance ASC
// yields the most similar chunks first.
func (d *DB) SearchPolicyChunks(ctx context.Context, embedding []float32, limit int) ([]*store.PolicyChunkMatch, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			id, document_id, chunk_index, content, embedding, created_ts,
			1 - (embedding <=> ` + placeholder(1) + `) AS score
		FROM policy_chunk
		ORDER BY embedding <=> ` + placeholder(2) + `
		LIMIT ` + placeholder(3)

	vector := pgvector.NewVector(embedding)
	rows, err := d.db.QueryContext(ctx, query, vector, vector, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search policy chunks")
	}
	defer rows.Close()

	matches := make([]*store.PolicyChunkMatch, 0)
	for rows.Next() {
		var chunk store.PolicyChunk
		var stored pgvector.Vector
		var score float32
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.Content, &stored, &chunk.CreatedTs, &score); err != nil {
			return nil, errors.Wrap(err, "failed to scan policy chunk")
		}
		chunk.Embedding = stored.Slice()
		matches = append(matches, &store.PolicyChunkMatch{Chunk: &chunk, Score: score})
	}
	return matches, rows.Err()
}
