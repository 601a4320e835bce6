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

const productTable = "products"

var productColumns = []string{
	"id", "name", "description", "price", "stock", "category", "image",
	"status", "supplier", "expiry_date", "prescription_required", "created_at",
}

type ProductRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProductRepository(storage *pgxpool.Pool, logger *zap.Logger) ProductRepositoryInterface {
	return &ProductRepository{storage: storage, logger: logger}
}

func scanProduct(row pgx.Row) (*entities.Product, error) {
	var p entities.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Image,
		&p.Status, &p.Supplier, &p.ExpiryDate, &p.PrescriptionFlag, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]entities.Product, error) {
	query, args, err := sq.Select(productColumns...).From(productTable).
		OrderBy("name ASC").PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения товаров: %w", err)
	}
	defer rows.Close()

	products := make([]entities.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) FindProduct(ctx context.Context, id string) (*entities.Product, error) {
	query, args, err := sq.Select(productColumns...).From(productTable).
		Where(sq.Eq{"id": id}).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanProduct(r.storage.QueryRow(ctx, query, args...))
}

func (r *ProductRepository) CreateProduct(ctx context.Context, p entities.Product) (*entities.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query, args, err := sq.Insert(productTable).Columns(productColumns...).
		Values(p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.Image,
			p.Status, p.Supplier, p.ExpiryDate, p.PrescriptionFlag, p.CreatedAt).
		Suffix("RETURNING " + joinColumns(productColumns)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanProduct(r.storage.QueryRow(ctx, query, args...))
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, p entities.Product) (*entities.Product, error) {
	query, args, err := sq.Update(productTable).SetMap(map[string]interface{}{
		"name":                  p.Name,
		"description":           p.Description,
		"price":                 p.Price,
		"stock":                 p.Stock,
		"category":              p.Category,
		"image":                 p.Image,
		"status":                p.Status,
		"supplier":              p.Supplier,
		"expiry_date":           p.ExpiryDate,
		"prescription_required": p.PrescriptionFlag,
	}).Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING " + joinColumns(productColumns)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanProduct(r.storage.QueryRow(ctx, query, args...))
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	return deleteByID(ctx, r.storage, productTable, id)
}
