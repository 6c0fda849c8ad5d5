package courier

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/paulmach/orb"
	"orderflow/internal/entities"
	"orderflow/internal/service/order"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repository read-модель курьеров. Таблицу ведет внешний сервис регистрации.
type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// FindAvailableWithin свободные верифицированные курьеры внутри прямоугольника.
// Точная проверка радиуса на стороне сервиса.
func (r *Repository) FindAvailableWithin(ctx context.Context, bound orb.Bound) ([]entities.Courier, error) {
	query, args, err := qb.
		Select("id", "lat", "lng", "is_available", "is_verified", "location_updated_at").
		From("couriers").
		Where(sq.Eq{
			"is_available": true,
			"is_verified":  true,
		}).
		Where(sq.Expr("lat BETWEEN ? AND ?", bound.Min.Lat(), bound.Max.Lat())).
		Where(lngCondition(bound)).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected courier repository find error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, unexpected(err)
	}
	defer rows.Close()

	couriers := make([]CourierDB, 0, 8)
	for rows.Next() {
		var c CourierDB
		err := rows.Scan(
			&c.ID,
			&c.Lat,
			&c.Lng,
			&c.IsAvailable,
			&c.IsVerified,
			&c.LocationUpdatedAt,
		)
		if err != nil {
			return nil, unexpected(err)
		}
		couriers = append(couriers, c)
	}

	err = rows.Err()
	if err != nil {
		return nil, unexpected(err)
	}

	return ToDomainList(couriers), nil
}

func unexpected(err error) error {
	return fmt.Errorf("unexpected courier repository find error: %w: %w", order.ErrStorageUnavailable, err)
}

// lngCondition у прямоугольника через ±180° Min.Lon > Max.Lon, BETWEEN по нему пуст.
func lngCondition(bound orb.Bound) sq.Sqlizer {
	if bound.Min.Lon() > bound.Max.Lon() {
		return sq.Or{
			sq.Expr("lng >= ?", bound.Min.Lon()),
			sq.Expr("lng <= ?", bound.Max.Lon()),
		}
	}
	return sq.Expr("lng BETWEEN ? AND ?", bound.Min.Lon(), bound.Max.Lon())
}
