package store

import "context"

// Conversation is one chat session's persistent identity.
type Conversation struct {
	ID        int32
	UID       string
	CreatedTs int64
}

// ConversationMessage is one persisted chat turn.
type ConversationMessage struct {
	ID             int64
	ConversationID int32
	Role           string
	Content        string
	CreatedTs      int64
}

// FindConversationMessage is the find condition for conversation messages.
type FindConversationMessage struct {
	ConversationID *int32
	Limit          *int
}

// CreateConversation creates a new conversation.
func (s *Store) CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error) {
	return s.driver.CreateConversation(ctx, create)
}

// FindConversation finds a conversation by UID. Returns nil when absent.
func (s *Store) FindConversation(ctx context.Context, uid string) (*Conversation, error) {
	return s.driver.FindConversation(ctx, uid)
}

// CreateConversationMessage appends a message to a conversation.
func (s *Store) CreateConversationMessage(ctx context.Context, create *ConversationMessage) (*ConversationMessage, error) {
	return s.driver.CreateConversationMessage(ctx, create)
}

// ListConversationMessages lists a conversation's messages in order.
func (s *Store) ListConversationMessages(ctx context.Context, find *FindConversationMessage) ([]*ConversationMessage, error) {
	return s.driver.ListConversationMessages(ctx, find)
}
