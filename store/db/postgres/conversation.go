package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/bookingsense/store"
)

func (d *DB) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	stmt := `INSERT INTO conversation (uid) VALUES (` + placeholders(1) + `) RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, create.UID).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create conversation")
	}
	return create, nil
}

func (d *DB) FindConversation(ctx context.Context, uid string) (*store.Conversation, error) {
	var conversation store.Conversation
	err := d.db.QueryRowContext(ctx,
		`SELECT id, uid, created_ts FROM conversation WHERE uid = `+placeholder(1), uid,
	).Scan(&conversation.ID, &conversation.UID, &conversation.CreatedTs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find conversation")
	}
	return &conversation, nil
}

func (d *DB) CreateConversationMessage(ctx context.Context, create *store.ConversationMessage) (*store.ConversationMessage, error) {
	stmt := `INSERT INTO conversation_message (conversation_id, role, content)
		VALUES (` + placeholders(3) + `)
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, create.ConversationID, create.Role, create.Content).Scan(
		&create.ID, &create.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create conversation message")
	}
	return create, nil
}

func (d *DB) ListConversationMessages(ctx context.Context, find *store.FindConversationMessage) ([]*store.ConversationMessage, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ConversationID; v != nil {
		where, args = append(where, "conversation_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, conversation_id, role, content, created_ts FROM conversation_message
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list conversation messages")
	}
	defer rows.Close()

	list := make([]*store.ConversationMessage, 0)
	for rows.Next() {
		var message store.ConversationMessage
		if err := rows.Scan(&message.ID, &message.ConversationID, &message.Role, &message.Content, &message.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan conversation message")
		}
		list = append(list, &message)
	}
	return list, rows.Err()
}
