package dead_letter

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"orderflow/internal/entities"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// Create сохраняет письмо. Повтор с тем же id после сбоя игнорируется.
func (r *Repository) Create(ctx context.Context, letter entities.DeadLetter) error {
	query, args, err := qb.
		Insert("dead_letters").
		Columns("id", "topic", "partition", `"offset"`, "key", "event_type", "payload", "reason", "attempts", "created_at").
		Values(
			letter.ID,
			letter.Topic,
			letter.Partition,
			letter.Offset,
			letter.Key,
			letter.EventType,
			letter.Payload,
			letter.Reason,
			letter.Attempts,
			letter.CreatedAt,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected dead letter repository create error: %w", err)
	}

	_, err = r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected dead letter repository create error: %w", err)
	}
	return nil
}
