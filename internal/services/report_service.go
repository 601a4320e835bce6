package services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/repositories"
	"pharmacy-system/pkg/clock"
	"pharmacy-system/pkg/types"
)

type ReportServiceInterface interface {
	GetSummary(ctx context.Context) (*dto.ReportSummaryDTO, error)
	GetReservationsForExport(ctx context.Context, filter types.Filter) ([]dto.ReservationDTO, error)
	GetSalesForExport(ctx context.Context, filter types.Filter) ([]dto.SaleDTO, error)
}

type reportService struct {
	reservationService    ReservationServiceInterface
	saleService           SaleServiceInterface
	reservationRepository repositories.ReservationRepositoryInterface
	productRepository     repositories.ProductRepositoryInterface
	branchRepository      repositories.BranchRepositoryInterface
	saleRepository        repositories.SaleRepositoryInterface
	clock                 clock.Clock
	logger                *zap.Logger
}

func NewReportService(
	reservationService ReservationServiceInterface,
	saleService SaleServiceInterface,
	reservationRepository repositories.ReservationRepositoryInterface,
	productRepository repositories.ProductRepositoryInterface,
	branchRepository repositories.BranchRepositoryInterface,
	saleRepository repositories.SaleRepositoryInterface,
	clk clock.Clock,
	logger *zap.Logger,
) ReportServiceInterface {
	return &reportService{
		reservationService:    reservationService,
		saleService:           saleService,
		reservationRepository: reservationRepository,
		productRepository:     productRepository,
		branchRepository:      branchRepository,
		saleRepository:        saleRepository,
		clock:                 clk,
		logger:                logger,
	}
}

// GetSummary считает резервы по отображаемому статусу и выручку по завершённым продажам.
func (s *reportService) GetSummary(ctx context.Context) (*dto.ReportSummaryDTO, error) {
	now := s.clock.Now()
	summary := &dto.ReportSummaryDTO{GeneratedAt: now}

	reservations, err := s.reservationRepository.GetReservations(ctx, repositories.ReservationFilter{})
	if err != nil {
		return nil, err
	}
	for _, r := range reservations {
		summary.Reservations.Total++
		switch r.DisplayStatus(now) {
		case entities.DisplayStatusActive:
			summary.Reservations.Active++
		case entities.DisplayStatusExpired:
			summary.Reservations.Expired++
		case entities.DisplayStatusCollected:
			summary.Reservations.Collected++
		case entities.DisplayStatusCancelled:
			summary.Reservations.Cancelled++
		}
	}

	sales, err := s.saleRepository.GetSales(ctx)
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for _, sale := range sales {
		if sale.Status == entities.SaleStatusCancelled {
			continue
		}
		summary.Sales.Count++
		revenue = revenue.Add(sale.Total)
	}
	summary.Sales.Revenue = revenue.StringFixed(2)

	products, err := s.productRepository.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	summary.Products = len(products)

	branches, err := s.branchRepository.GetBranches(ctx)
	if err != nil {
		return nil, err
	}
	summary.Branches = len(branches)
	for _, b := range branches {
		if b.IsActive() {
			summary.ActiveBranch++
		}
	}

	return summary, nil
}

// Выгрузка берёт все записи без пагинации.
func (s *reportService) GetReservationsForExport(ctx context.Context, filter types.Filter) ([]dto.ReservationDTO, error) {
	filter.WithPagination = false
	list, _, err := s.reservationService.ListReservations(ctx, filter)
	return list, err
}

func (s *reportService) GetSalesForExport(ctx context.Context, filter types.Filter) ([]dto.SaleDTO, error) {
	filter.WithPagination = false
	list, _, err := s.saleService.GetSales(ctx, filter)
	return list, err
}
