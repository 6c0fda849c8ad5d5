package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"orderflow/internal/entities"
	"orderflow/internal/repository"
	"orderflow/internal/service/order"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repository хранилище заказов. Каждое изменение статуса это один условный UPDATE,
// проигравший в гонке получает ноль строк, а не перезаписывает победителя.
type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, o entities.Order) (*entities.Order, error) {
	query, args, err := qb.
		Insert("orders").
		Columns(
			"id", "user_id", "restaurant_id", "status", "payment_status",
			"pickup_lat", "pickup_lng", "delivery_lat", "delivery_lng",
			"expires_at", "created_at", "updated_at",
		).
		Values(
			o.ID, o.UserID, o.RestaurantID, o.Status.String(), o.PaymentStatus.String(),
			o.PickupLocation.Lat, o.PickupLocation.Lng, o.DeliveryLocation.Lat, o.DeliveryLocation.Lng,
			o.ExpiresAt, o.CreatedAt, o.CreatedAt,
		).
		Suffix("RETURNING " + orderColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, order.ErrOrderExists
		}
		return nil, unexpected("create", err)
	}

	return ToDomain(model), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	query, args, err := qb.
		Select(orderColumnList...).
		From("orders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, unexpected("getbyid", err)
	}

	return ToDomain(model), nil
}

// TransitionStatus переводит заказ в to, только если текущий статус входит в from,
// а участник совпадает с owner. Отмена снимает курьера и срок оплаты.
func (r *Repository) TransitionStatus(
	ctx context.Context,
	id string,
	from []entities.OrderStatus,
	to entities.OrderStatus,
	owner entities.OrderOwner,
) (*entities.Order, error) {
	builder := qb.
		Update("orders").
		Set("status", to.String()).
		Set("updated_at", sq.Expr("NOW()"))

	if to == entities.OrderCancelled {
		builder = builder.
			Set("rider_id", nil).
			Set("expires_at", nil)
	}

	if !owner.IsZero() {
		builder = builder.Where(ownerCondition(owner))
	}

	query, args, err := builder.
		Where(sq.Eq{
			"id":     id,
			"status": entities.StatusStrings(from),
		}).
		Suffix("RETURNING " + orderColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository transition error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err == nil {
		return ToDomain(model), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, unexpected("transition", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owner.Matches(current) {
		return nil, order.ErrForbidden
	}
	return nil, fmt.Errorf("%s -> %s: %w", current.Status, to, order.ErrInvalidTransition)
}

func ownerCondition(owner entities.OrderOwner) sq.Eq {
	cond := sq.Eq{}
	if owner.UserID != "" {
		cond["user_id"] = owner.UserID
	}
	if owner.RestaurantID != "" {
		cond["restaurant_id"] = owner.RestaurantID
	}
	if owner.RiderID != "" {
		cond["rider_id"] = owner.RiderID
	}
	return cond
}

// SettlePayment фиксирует оплату одним UPDATE. Повторная доставка того же события
// получает ErrPaymentAlreadySettled и ничего не меняет.
func (r *Repository) SettlePayment(ctx context.Context, id, reference string) (*entities.Order, error) {
	query, args, err := qb.
		Update("orders").
		Set("payment_status", entities.PaymentPaid.String()).
		Set("payment_reference", reference).
		Set("expires_at", nil).
		Set("status", entities.OrderPaid.String()).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":             id,
			"payment_status": entities.PaymentPending.String(),
			"status":         entities.StatusStrings(entities.Predecessors(entities.OrderPaid)),
		}).
		Suffix("RETURNING " + orderColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository settle error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err == nil {
		return ToDomain(model), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, unexpected("settle", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.PaymentStatus == entities.PaymentPaid {
		return nil, order.ErrPaymentAlreadySettled
	}
	return nil, fmt.Errorf("settle payment in %s/%s: %w", current.Status, current.PaymentStatus, order.ErrInvalidTransition)
}

// AssignRider атомарно закрепляет курьера. Повторный accept тем же курьером идемпотентен.
func (r *Repository) AssignRider(ctx context.Context, id, riderID string) (*entities.Order, error) {
	query, args, err := qb.
		Update("orders").
		Set("rider_id", riderID).
		Set("status", entities.OrderRiderAssigned.String()).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":       id,
			"rider_id": nil,
			"status":   entities.OrderReadyForPickup.String(),
		}).
		Suffix("RETURNING " + orderColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository assign error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err == nil {
		return ToDomain(model), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, unexpected("assign", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case current.RiderID != nil && *current.RiderID == riderID:
		return current, nil
	case current.RiderID != nil:
		return nil, order.ErrAssignmentConflict
	default:
		return nil, fmt.Errorf("assign rider in %s: %w", current.Status, order.ErrInvalidTransition)
	}
}

// ExpireOverdue переводит просроченные неоплаченные заказы в expired. Строки,
// захваченные параллельным свипером, пропускаются.
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time, limit int) ([]entities.Order, error) {
	query := `
	UPDATE orders
	SET status = 'expired', payment_status = 'failed', expires_at = NULL, updated_at = NOW()
	WHERE payment_status = 'pending'
	  AND id IN (
		SELECT id FROM orders
		WHERE payment_status = 'pending'
		  AND expires_at <= $1
		  AND status IN ('placed', 'payment_pending')
		ORDER BY expires_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	  )
	RETURNING ` + orderColumns

	rows, err := r.querier.Query(ctx, query, now, limit)
	if err != nil {
		return nil, unexpected("expire", err)
	}
	defer rows.Close()

	expired := make([]entities.Order, 0, limit)
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, unexpected("expire", err)
		}
		expired = append(expired, *ToDomain(model))
	}

	err = rows.Err()
	if err != nil {
		return nil, unexpected("expire", err)
	}

	return expired, nil
}

func unexpected(op string, err error) error {
	return fmt.Errorf("unexpected order repository %s error: %w: %w", op, order.ErrStorageUnavailable, err)
}
