package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/repositories"
	"pharmacy-system/pkg/clock"
	apperrors "pharmacy-system/pkg/errors"
	"pharmacy-system/pkg/types"
	"pharmacy-system/pkg/utils"
)

// ReservationPaymentMethod - способ оплаты продажи, созданной из выданного резерва.
const ReservationPaymentMethod = "Pago en sucursal"

type SaleServiceInterface interface {
	GetSales(ctx context.Context, filter types.Filter) ([]dto.SaleDTO, uint64, error)
	FindSale(ctx context.Context, id string) (*dto.SaleDTO, error)
	CreateSale(ctx context.Context, payload dto.CreateSaleDTO) (*dto.SaleDTO, error)
	CreateSaleFromReservation(ctx context.Context, reservation entities.Reservation, product entities.Product) (*dto.SaleDTO, error)
	DeleteSale(ctx context.Context, id string) error
}

type SaleService struct {
	saleRepository repositories.SaleRepositoryInterface
	clock          clock.Clock
	logger         *zap.Logger
}

func NewSaleService(saleRepository repositories.SaleRepositoryInterface, clk clock.Clock, logger *zap.Logger) SaleServiceInterface {
	return &SaleService{saleRepository: saleRepository, clock: clk, logger: logger}
}

func saleToDTO(s entities.Sale) dto.SaleDTO {
	lines := make([]dto.SaleLineDTO, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SaleLineDTO{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Amount:      l.Amount().StringFixed(2),
		})
	}
	return dto.SaleDTO{
		ID:            s.ID,
		Date:          s.Date,
		CustomerName:  s.CustomerName,
		Lines:         lines,
		Total:         s.Total.StringFixed(2),
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		ReservationID: s.ReservationID,
	}
}

func (s *SaleService) GetSales(ctx context.Context, filter types.Filter) ([]dto.SaleDTO, uint64, error) {
	sales, err := s.saleRepository.GetSales(ctx)
	if err != nil {
		return nil, 0, err
	}

	search := strings.ToLower(filter.Search)
	status := filter.FilterString("status")
	list := make([]dto.SaleDTO, 0, len(sales))
	for _, sale := range sales {
		if search != "" && !strings.Contains(strings.ToLower(sale.CustomerName), search) {
			continue
		}
		if status != "" && !strings.EqualFold(sale.Status, status) {
			continue
		}
		list = append(list, saleToDTO(sale))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return utils.Paginate(list, filter), uint64(len(list)), nil
}

func (s *SaleService) FindSale(ctx context.Context, id string) (*dto.SaleDTO, error) {
	sale, err := s.saleRepository.FindSale(ctx, id)
	if err != nil {
		return nil, err
	}
	res := saleToDTO(*sale)
	return &res, nil
}

// CreateSale пересчитывает итог на сервере: присланная клиентом сумма не принимается.
func (s *SaleService) CreateSale(ctx context.Context, payload dto.CreateSaleDTO) (*dto.SaleDTO, error) {
	sale := entities.Sale{
		Date:          s.clock.Now(),
		CustomerName:  payload.CustomerName,
		PaymentMethod: payload.PaymentMethod,
		Status:        payload.Status,
	}
	if sale.Status == "" {
		sale.Status = entities.SaleStatusCompleted
	}
	for i, l := range payload.Lines {
		price, err := decimal.NewFromString(strings.TrimSpace(l.UnitPrice))
		if err != nil {
			return nil, apperrors.NewInvalidInputError("строка %d: некорректная цена %q", i+1, l.UnitPrice)
		}
		if l.Quantity < 1 {
			return nil, apperrors.NewInvalidInputError("строка %d: %s", i+1, apperrors.ErrInvalidQuantity)
		}
		sale.Lines = append(sale.Lines, entities.SaleLine{ProductName: l.ProductName, Quantity: l.Quantity, UnitPrice: price})
	}
	sale.Total = sale.ComputeTotal()

	created, err := s.saleRepository.CreateSale(ctx, sale)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Продажа создана", zap.String("id", created.ID), zap.String("total", created.Total.StringFixed(2)))
	res := saleToDTO(*created)
	return &res, nil
}

// CreateSaleFromReservation идемпотентна: по одному резерву создаётся не больше одной продажи.
func (s *SaleService) CreateSaleFromReservation(ctx context.Context, reservation entities.Reservation, product entities.Product) (*dto.SaleDTO, error) {
	existing, err := s.saleRepository.FindSaleByReservation(ctx, reservation.ID)
	if err == nil {
		res := saleToDTO(*existing)
		return &res, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	price := parseLooseFloat(product.Price)
	if math.IsNaN(price) {
		return nil, fmt.Errorf("цена товара %s не число (%q): %w", product.ID, product.Price, apperrors.ErrBadRequest)
	}

	sale := entities.Sale{
		Date:          s.clock.Now(),
		CustomerName:  reservation.CustomerName,
		PaymentMethod: ReservationPaymentMethod,
		Status:        entities.SaleStatusCompleted,
		ReservationID: reservation.ID,
		Lines: []entities.SaleLine{{
			ProductName: product.Name,
			Quantity:    reservation.Quantity,
			UnitPrice:   decimal.NewFromFloat(price).Round(2),
		}},
	}
	sale.Total = sale.ComputeTotal()

	created, err := s.saleRepository.CreateSale(ctx, sale)
	if errors.Is(err, apperrors.ErrConflict) {
		if existing, findErr := s.saleRepository.FindSaleByReservation(ctx, reservation.ID); findErr == nil {
			res := saleToDTO(*existing)
			return &res, nil
		}
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("Продажа создана по резерву",
		zap.String("sale_id", created.ID), zap.String("reservation_id", reservation.ID))
	res := saleToDTO(*created)
	return &res, nil
}

func (s *SaleService) DeleteSale(ctx context.Context, id string) error {
	return s.saleRepository.DeleteSale(ctx, id)
}
