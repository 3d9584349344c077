package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error

	// PolicyDocument model related methods.
	CreatePolicyDocument(ctx context.Context, create *PolicyDocument) (*PolicyDocument, error)
	ListPolicyDocuments(ctx context.Context, find *FindPolicyDocument) ([]*PolicyDocument, error)
	DeletePolicyDocuments(ctx context.Context) error

	// PolicyChunk model related methods.
	UpsertPolicyChunk(ctx context.Context, upsert *PolicyChunk) (*PolicyChunk, error)

	// SearchPolicyChunks performs similarity search over chunk embeddings.
	// Results are ordered by descending similarity.
	SearchPolicyChunks(ctx context.Context, embedding []float32, limit int) ([]*PolicyChunkMatch, error)

	// Conversation model related methods.
	CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error)
	FindConversation(ctx context.Context, uid string) (*Conversation, error)
	CreateConversationMessage(ctx context.Context, create *ConversationMessage) (*ConversationMessage, error)
	ListConversationMessages(ctx context.Context, find *FindConversationMessage) ([]*ConversationMessage, error)
}
