package repositories

import (
	"context"

	"pharmacy-system/internal/entities"
)

// Интерфейсы хранилища одинаковы для всех бэкендов (mockapi, postgres, memory);
// бэкенд выбирается в main по STORAGE_BACKEND.

type ProductRepositoryInterface interface {
	GetProducts(ctx context.Context) ([]entities.Product, error)
	FindProduct(ctx context.Context, id string) (*entities.Product, error)
	CreateProduct(ctx context.Context, product entities.Product) (*entities.Product, error)
	// UpdateProduct заменяет запись целиком.
	UpdateProduct(ctx context.Context, product entities.Product) (*entities.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type BranchRepositoryInterface interface {
	GetBranches(ctx context.Context) ([]entities.Branch, error)
	FindBranch(ctx context.Context, id string) (*entities.Branch, error)
	CreateBranch(ctx context.Context, branch entities.Branch) (*entities.Branch, error)
	UpdateBranch(ctx context.Context, branch entities.Branch) (*entities.Branch, error)
	DeleteBranch(ctx context.Context, id string) error
}

type ReservationRepositoryInterface interface {
	GetReservations(ctx context.Context, filter ReservationFilter) ([]entities.Reservation, error)
	FindReservation(ctx context.Context, id string) (*entities.Reservation, error)
	CreateReservation(ctx context.Context, reservation entities.Reservation) (*entities.Reservation, error)
	UpdateReservation(ctx context.Context, reservation entities.Reservation) (*entities.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

type SaleRepositoryInterface interface {
	GetSales(ctx context.Context) ([]entities.Sale, error)
	FindSale(ctx context.Context, id string) (*entities.Sale, error)
	// FindSaleByReservation возвращает apperrors.ErrNotFound, если продажи по резерву нет.
	FindSaleByReservation(ctx context.Context, reservationID string) (*entities.Sale, error)
	CreateSale(ctx context.Context, sale entities.Sale) (*entities.Sale, error)
	DeleteSale(ctx context.Context, id string) error
}

type UserRepositoryInterface interface {
	FindByUsername(ctx context.Context, userType, username string) (*entities.User, error)
	FindUser(ctx context.Context, userType, id string) (*entities.User, error)
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
}

// ReservationFilter - единственное место, где живёт отбор резервов
// "по клиенту / по статусу / по филиалу / по товару". Пустое поле не фильтрует.
type ReservationFilter struct {
	Status     entities.ReservationStatus
	CustomerID string
	BranchID   string
	ProductID  string
}

func (f ReservationFilter) Matches(r entities.Reservation) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.CustomerID != "" && r.CustomerID != f.CustomerID {
		return false
	}
	if f.BranchID != "" && r.BranchID != f.BranchID {
		return false
	}
	if f.ProductID != "" && r.ProductID != f.ProductID {
		return false
	}
	return true
}

func (f ReservationFilter) Apply(list []entities.Reservation) []entities.Reservation {
	out := make([]entities.Reservation, 0, len(list))
	for _, r := range list {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
