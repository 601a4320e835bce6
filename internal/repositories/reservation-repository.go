package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pharmacy-system/internal/entities"
	apperrors "pharmacy-system/pkg/errors"
)

const reservationTable = "reservations"

var reservationColumns = []string{
	"id", "product_id", "quantity", "date", "created_at", "status",
	"branch_id", "branch_name", "customer_id", "customer_name",
}

type ReservationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReservationRepository(storage *pgxpool.Pool, logger *zap.Logger) ReservationRepositoryInterface {
	return &ReservationRepository{storage: storage, logger: logger}
}

func scanReservation(row pgx.Row) (*entities.Reservation, error) {
	var res entities.Reservation
	var status string
	err := row.Scan(
		&res.ID, &res.ProductID, &res.Quantity, &res.Date, &res.CreatedAt, &status,
		&res.BranchID, &res.BranchName, &res.CustomerID, &res.CustomerName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования reservation: %w", err)
	}
	res.Status = entities.NormalizeReservationStatus(status)
	res.Date = res.Date.UTC()
	res.CreatedAt = res.CreatedAt.UTC()
	return &res, nil
}

// applyReservationFilter переносит ReservationFilter в WHERE.
func applyReservationFilter(builder sq.SelectBuilder, f ReservationFilter) sq.SelectBuilder {
	where := sq.Eq{}
	if f.Status != "" {
		where["status"] = string(f.Status)
	}
	if f.CustomerID != "" {
		where["customer_id"] = f.CustomerID
	}
	if f.BranchID != "" {
		where["branch_id"] = f.BranchID
	}
	if f.ProductID != "" {
		where["product_id"] = f.ProductID
	}
	if len(where) > 0 {
		builder = builder.Where(where)
	}
	return builder
}

func (r *ReservationRepository) GetReservations(ctx context.Context, filter ReservationFilter) ([]entities.Reservation, error) {
	builder := sq.Select(reservationColumns...).From(reservationTable).PlaceholderFormat(sq.Dollar)
	builder = applyReservationFilter(builder, filter).OrderBy("created_at DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения резервов: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

func (r *ReservationRepository) FindReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	query, args, err := sq.Select(reservationColumns...).From(reservationTable).
		Where(sq.Eq{"id": id}).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanReservation(r.storage.QueryRow(ctx, query, args...))
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res entities.Reservation) (*entities.Reservation, error) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	query, args, err := sq.Insert(reservationTable).Columns(reservationColumns...).
		Values(res.ID, res.ProductID, res.Quantity, res.Date, res.CreatedAt, string(res.Status),
			res.BranchID, res.BranchName, res.CustomerID, res.CustomerName).
		Suffix("RETURNING " + joinColumns(reservationColumns)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanReservation(r.storage.QueryRow(ctx, query, args...))
}

func (r *ReservationRepository) UpdateReservation(ctx context.Context, res entities.Reservation) (*entities.Reservation, error) {
	query, args, err := sq.Update(reservationTable).SetMap(map[string]interface{}{
		"product_id":    res.ProductID,
		"quantity":      res.Quantity,
		"date":          res.Date,
		"status":        string(res.Status),
		"branch_id":     res.BranchID,
		"branch_name":   res.BranchName,
		"customer_id":   res.CustomerID,
		"customer_name": res.CustomerName,
	}).Where(sq.Eq{"id": res.ID}).
		Suffix("RETURNING " + joinColumns(reservationColumns)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanReservation(r.storage.QueryRow(ctx, query, args...))
}

func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	return deleteByID(ctx, r.storage, reservationTable, id)
}
