package sqlite

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"

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
	// Chunks go with their documents via ON DELETE CASCADE.
	if _, err := d.db.ExecContext(ctx, "DELETE FROM policy_document"); err != nil {
		return errors.Wrap(err, "failed to delete policy documents")
	}
	return nil
}

func (d *DB) UpsertPolicyChunk(ctx context.Context, upsert *store.PolicyChunk) (*store.PolicyChunk, error) {
	embedding, err := json.Marshal(upsert.Embedding)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode embedding")
	}

	stmt := `INSERT INTO policy_chunk (document_id, chunk_index, content, embedding)
		VALUES (` + placeholders(4) + `)
		ON CONFLICT (document_id, chunk_index) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.DocumentID, upsert.ChunkIndex, upsert.Content, string(embedding),
	).Scan(&upsert.ID, &upsert.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert policy chunk")
	}
	return upsert, nil
}

// SearchPolicyChunks scores every stored chunk against the query embedding
// in Go. SQLite has no vector extension here; the policy corpus is small
// enough that a full scan stays cheap.
func (d *DB) SearchPolicyChunks(ctx context.Context, embedding []float32, limit int) ([]*store.PolicyChunkMatch, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, document_id, chunk_index, content, embedding, created_ts FROM policy_chunk`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query policy chunks")
	}
	defer rows.Close()

	matches := make([]*store.PolicyChunkMatch, 0)
	for rows.Next() {
		var chunk store.PolicyChunk
		var raw string
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.Content, &raw, &chunk.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan policy chunk")
		}
		if err := json.Unmarshal([]byte(raw), &chunk.Embedding); err != nil {
			return nil, errors.Wrapf(err, "failed to decode embedding for chunk %d", chunk.ID)
		}
		matches = append(matches, &store.PolicyChunkMatch{
			Chunk: &chunk,
			Score: cosineSimilarity(embedding, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate policy chunks")
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
