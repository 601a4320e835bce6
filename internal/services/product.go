package services

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/repositories"
	"pharmacy-system/pkg/clock"
	"pharmacy-system/pkg/types"
	"pharmacy-system/pkg/utils"
)

const prescriptionNotRequiredFlag = "No"

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// parseLooseFloat разбирает число в начале строки ("12.5 mg" -> 12.5); без числа - NaN.
func parseLooseFloat(raw string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(raw))
	if m == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseLooseInt - целое в начале строки; ok=false, если числа нет.
func parseLooseInt(raw string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ActiveIngredient - текст описания до первой точки (или всё описание).
func ActiveIngredient(description string) string {
	if i := strings.Index(description, "."); i >= 0 {
		return description[:i]
	}
	return description
}

// AdaptProduct превращает сырую запись каталога в вид для клиента. Отрицательные
// значения не отсекаются: некорректные строки дают NaN в цене и stock_valid=false.
func AdaptProduct(p entities.Product) dto.ProductDTO {
	stock, stockValid := parseLooseInt(p.Stock)
	maxReservable := 0
	if stockValid && stock > 0 {
		maxReservable = stock
	}
	return dto.ProductDTO{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		ActiveIngredient:     ActiveIngredient(p.Description),
		Price:                dto.JSONFloat(parseLooseFloat(p.Price)),
		Stock:                stock,
		StockValid:           stockValid,
		Category:             p.Category,
		Image:                p.Image,
		Status:               p.Status,
		Supplier:             p.Supplier,
		ExpiryDate:           p.ExpiryDate,
		RequiresPrescription: p.PrescriptionFlag == entities.PrescriptionRequiredFlag,
		CreatedAt:            p.CreatedAt,
		MaxReservable:        maxReservable,
	}
}

func shortProduct(p dto.ProductDTO) *dto.ShortProductDTO {
	return &dto.ShortProductDTO{
		ID:                   p.ID,
		Name:                 p.Name,
		ActiveIngredient:     p.ActiveIngredient,
		Price:                p.Price,
		Image:                p.Image,
		RequiresPrescription: p.RequiresPrescription,
	}
}

func prescriptionFlag(required bool) string {
	if required {
		return entities.PrescriptionRequiredFlag
	}
	return prescriptionNotRequiredFlag
}

type ProductServiceInterface interface {
	GetProducts(ctx context.Context, filter types.Filter) ([]dto.ProductDTO, uint64, error)
	FindProduct(ctx context.Context, id string) (*dto.ProductDTO, error)
	CreateProduct(ctx context.Context, payload dto.CreateProductDTO) (*dto.ProductDTO, error)
	UpdateProduct(ctx context.Context, id string, payload dto.UpdateProductDTO) (*dto.ProductDTO, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ProductService struct {
	productRepository repositories.ProductRepositoryInterface
	clock             clock.Clock
	logger            *zap.Logger
}

func NewProductService(productRepository repositories.ProductRepositoryInterface, clk clock.Clock, logger *zap.Logger) ProductServiceInterface {
	return &ProductService{productRepository: productRepository, clock: clk, logger: logger}
}

func matchesProductFilter(p dto.ProductDTO, filter types.Filter) bool {
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.ActiveIngredient), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	if c := filter.FilterString("category"); c != "" && !strings.EqualFold(c, p.Category) {
		return false
	}
	if rx := filter.FilterString("requires_prescription"); rx != "" {
		want, err := strconv.ParseBool(rx)
		if err == nil && want != p.RequiresPrescription {
			return false
		}
	}
	if filter.FilterString("in_stock") == "true" && p.MaxReservable == 0 {
		return false
	}
	return true
}

func (s *ProductService) GetProducts(ctx context.Context, filter types.Filter) ([]dto.ProductDTO, uint64, error) {
	products, err := s.productRepository.GetProducts(ctx)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		adapted := AdaptProduct(p)
		if matchesProductFilter(adapted, filter) {
			list = append(list, adapted)
		}
	}
	return utils.Paginate(list, filter), uint64(len(list)), nil
}

func (s *ProductService) FindProduct(ctx context.Context, id string) (*dto.ProductDTO, error) {
	p, err := s.productRepository.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	adapted := AdaptProduct(*p)
	return &adapted, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, payload dto.CreateProductDTO) (*dto.ProductDTO, error) {
	created, err := s.productRepository.CreateProduct(ctx, entities.Product{
		Name:             payload.Name,
		Description:      payload.Description,
		Price:            payload.Price,
		Stock:            payload.Stock,
		Category:         payload.Category,
		Image:            payload.Image,
		Status:           payload.Status,
		Supplier:         payload.Supplier,
		ExpiryDate:       payload.ExpiryDate,
		PrescriptionFlag: prescriptionFlag(payload.RequiresPrescription),
		CreatedAt:        s.clock.Now().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Товар создан", zap.String("id", created.ID), zap.String("name", created.Name))
	adapted := AdaptProduct(*created)
	return &adapted, nil
}

// UpdateProduct читает запись и отправляет её целиком с изменёнными полями.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, payload dto.UpdateProductDTO) (*dto.ProductDTO, error) {
	p, err := s.productRepository.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name.Valid {
		p.Name = payload.Name.String
	}
	if payload.Description.Valid {
		p.Description = payload.Description.String
	}
	if payload.Price.Valid {
		p.Price = payload.Price.String
	}
	if payload.Stock.Valid {
		p.Stock = payload.Stock.String
	}
	if payload.Category.Valid {
		p.Category = payload.Category.String
	}
	if payload.Image.Valid {
		p.Image = payload.Image.String
	}
	if payload.Status.Valid {
		p.Status = payload.Status.String
	}
	if payload.Supplier.Valid {
		p.Supplier = payload.Supplier.String
	}
	if payload.ExpiryDate.Valid {
		p.ExpiryDate = payload.ExpiryDate.String
	}
	if payload.RequiresPrescription.Valid {
		p.PrescriptionFlag = prescriptionFlag(payload.RequiresPrescription.Bool)
	}

	updated, err := s.productRepository.UpdateProduct(ctx, *p)
	if err != nil {
		return nil, err
	}
	adapted := AdaptProduct(*updated)
	return &adapted, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepository.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Товар удалён", zap.String("id", id))
	return nil
}
