package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pharmacy-system/internal/entities"
	apperrors "pharmacy-system/pkg/errors"
)

const (
	saleTable     = "sales"
	saleLineTable = "sale_lines"
)

// Денежные колонки читаются как text: decimal разбирает их без потери точности.
var saleSelectColumns = []string{
	"id", "date", "customer_name", "total::text", "payment_method", "status", "COALESCE(reservation_id, '')",
}

type SaleRepository struct {
	storage   *pgxpool.Pool
	txManager TxManagerInterface
	logger    *zap.Logger
}

func NewSaleRepository(storage *pgxpool.Pool, txManager TxManagerInterface, logger *zap.Logger) SaleRepositoryInterface {
	return &SaleRepository{storage: storage, txManager: txManager, logger: logger}
}

func scanSale(row pgx.Row) (*entities.Sale, error) {
	var s entities.Sale
	var total string
	err := row.Scan(&s.ID, &s.Date, &s.CustomerName, &total, &s.PaymentMethod, &s.Status, &s.ReservationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования sale: %w", err)
	}
	s.Date = s.Date.UTC()
	if s.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("некорректная сумма продажи %s: %w", s.ID, err)
	}
	return &s, nil
}

func (r *SaleRepository) loadLines(ctx context.Context, q querier, sales []*entities.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*entities.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	query, args, err := sq.Select("sale_id", "product_name", "quantity", "unit_price::text").
		From(saleLineTable).Where(sq.Eq{"sale_id": ids}).OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка получения строк продаж: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var saleID, price string
		var line entities.SaleLine
		if err := rows.Scan(&saleID, &line.ProductName, &line.Quantity, &price); err != nil {
			return fmt.Errorf("ошибка сканирования sale_line: %w", err)
		}
		if line.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("некорректная цена в продаже %s: %w", saleID, err)
		}
		if s, ok := byID[saleID]; ok {
			s.Lines = append(s.Lines, line)
		}
	}
	return rows.Err()
}

func (r *SaleRepository) GetSales(ctx context.Context) ([]entities.Sale, error) {
	query, args, err := sq.Select(saleSelectColumns...).From(saleTable).
		OrderBy("date DESC").PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения продаж: %w", err)
	}
	ptrs := make([]*entities.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		ptrs = append(ptrs, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, r.storage, ptrs); err != nil {
		return nil, err
	}
	sales := make([]entities.Sale, 0, len(ptrs))
	for _, s := range ptrs {
		sales = append(sales, *s)
	}
	return sales, nil
}

func (r *SaleRepository) findOne(ctx context.Context, where sq.Eq) (*entities.Sale, error) {
	query, args, err := sq.Select(saleSelectColumns...).From(saleTable).
		Where(where).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	s, err := scanSale(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, r.storage, []*entities.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepository) FindSale(ctx context.Context, id string) (*entities.Sale, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *SaleRepository) FindSaleByReservation(ctx context.Context, reservationID string) (*entities.Sale, error) {
	return r.findOne(ctx, sq.Eq{"reservation_id": reservationID})
}

// CreateSale пишет продажу и её строки в одной транзакции.
func (r *SaleRepository) CreateSale(ctx context.Context, s entities.Sale) (*entities.Sale, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	var reservationID interface{}
	if s.ReservationID != "" {
		reservationID = s.ReservationID
	}

	err := r.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		query, args, err := sq.Insert(saleTable).
			Columns("id", "date", "customer_name", "total", "payment_method", "status", "reservation_id").
			Values(s.ID, s.Date, s.CustomerName, s.Total.StringFixed(2), s.PaymentMethod, s.Status, reservationID).
			PlaceholderFormat(sq.Dollar).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("продажа по резерву %s уже существует: %w", s.ReservationID, apperrors.ErrConflict)
			}
			return fmt.Errorf("ошибка создания продажи: %w", err)
		}

		if len(s.Lines) == 0 {
			return nil
		}
		lines := sq.Insert(saleLineTable).Columns("sale_id", "product_name", "quantity", "unit_price")
		for _, l := range s.Lines {
			lines = lines.Values(s.ID, l.ProductName, l.Quantity, l.UnitPrice.StringFixed(2))
		}
		query, args, err = lines.PlaceholderFormat(sq.Dollar).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("ошибка создания строк продажи: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindSale(ctx, s.ID)
}

// DeleteSale: строки удаляются каскадом.
func (r *SaleRepository) DeleteSale(ctx context.Context, id string) error {
	return deleteByID(ctx, r.storage, saleTable, id)
}
