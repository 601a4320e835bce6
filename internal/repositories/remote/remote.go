// Package remote реализует хранилище поверх внешнего REST-сервиса коллекций (mockapi).
// Фильтров на стороне сервиса нет: списки забираются целиком и фильтруются здесь.
package remote

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/integrations/mockapi"
	"pharmacy-system/internal/repositories"
	apperrors "pharmacy-system/pkg/errors"
)

type ProductRepository struct {
	client *mockapi.Client
}

func NewProductRepository(client *mockapi.Client) repositories.ProductRepositoryInterface {
	return &ProductRepository{client: client}
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]entities.Product, error) {
	list, err := mockapi.List[mockapi.ProductoDTO](ctx, r.client, mockapi.CollectionProducts)
	if err != nil {
		return nil, err
	}
	products := make([]entities.Product, 0, len(list))
	for _, d := range list {
		products = append(products, mockapi.ProductToEntity(d))
	}
	return products, nil
}

func (r *ProductRepository) FindProduct(ctx context.Context, id string) (*entities.Product, error) {
	d, err := mockapi.Get[mockapi.ProductoDTO](ctx, r.client, mockapi.CollectionProducts, id)
	if err != nil {
		return nil, err
	}
	p := mockapi.ProductToEntity(*d)
	return &p, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product entities.Product) (*entities.Product, error) {
	d, err := mockapi.Create(ctx, r.client, mockapi.CollectionProducts, mockapi.ProductFromEntity(product))
	if err != nil {
		return nil, err
	}
	p := mockapi.ProductToEntity(*d)
	return &p, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product entities.Product) (*entities.Product, error) {
	d, err := mockapi.Replace(ctx, r.client, mockapi.CollectionProducts, product.ID, mockapi.ProductFromEntity(product))
	if err != nil {
		return nil, err
	}
	p := mockapi.ProductToEntity(*d)
	return &p, nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	return mockapi.Delete(ctx, r.client, mockapi.CollectionProducts, id)
}

type BranchRepository struct {
	client *mockapi.Client
}

func NewBranchRepository(client *mockapi.Client) repositories.BranchRepositoryInterface {
	return &BranchRepository{client: client}
}

func (r *BranchRepository) GetBranches(ctx context.Context) ([]entities.Branch, error) {
	list, err := mockapi.List[mockapi.SucursalDTO](ctx, r.client, mockapi.CollectionBranches)
	if err != nil {
		return nil, err
	}
	branches := make([]entities.Branch, 0, len(list))
	for _, d := range list {
		branches = append(branches, mockapi.BranchToEntity(d))
	}
	return branches, nil
}

func (r *BranchRepository) FindBranch(ctx context.Context, id string) (*entities.Branch, error) {
	d, err := mockapi.Get[mockapi.SucursalDTO](ctx, r.client, mockapi.CollectionBranches, id)
	if err != nil {
		return nil, err
	}
	b := mockapi.BranchToEntity(*d)
	return &b, nil
}

func (r *BranchRepository) CreateBranch(ctx context.Context, branch entities.Branch) (*entities.Branch, error) {
	d, err := mockapi.Create(ctx, r.client, mockapi.CollectionBranches, mockapi.BranchFromEntity(branch))
	if err != nil {
		return nil, err
	}
	b := mockapi.BranchToEntity(*d)
	return &b, nil
}

func (r *BranchRepository) UpdateBranch(ctx context.Context, branch entities.Branch) (*entities.Branch, error) {
	d, err := mockapi.Replace(ctx, r.client, mockapi.CollectionBranches, branch.ID, mockapi.BranchFromEntity(branch))
	if err != nil {
		return nil, err
	}
	b := mockapi.BranchToEntity(*d)
	return &b, nil
}

func (r *BranchRepository) DeleteBranch(ctx context.Context, id string) error {
	return mockapi.Delete(ctx, r.client, mockapi.CollectionBranches, id)
}

type ReservationRepository struct {
	client *mockapi.Client
	logger *zap.Logger
}

func NewReservationRepository(client *mockapi.Client, logger *zap.Logger) repositories.ReservationRepositoryInterface {
	return &ReservationRepository{client: client, logger: logger}
}

// GetReservations пропускает записи, по которым нельзя вычислить срок (битая дата или количество).
func (r *ReservationRepository) GetReservations(ctx context.Context, filter repositories.ReservationFilter) ([]entities.Reservation, error) {
	list, err := mockapi.List[mockapi.ReservaDTO](ctx, r.client, mockapi.CollectionReservations)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Reservation, 0, len(list))
	for _, d := range list {
		res, err := mockapi.ReservationToEntity(d)
		if err != nil {
			r.logger.Warn("Пропущена некорректная запись резерва", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		if filter.Matches(res) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *ReservationRepository) FindReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	d, err := mockapi.Get[mockapi.ReservaDTO](ctx, r.client, mockapi.CollectionReservations, id)
	if err != nil {
		return nil, err
	}
	res, err := mockapi.ReservationToEntity(*d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUpstream, err)
	}
	return &res, nil
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation entities.Reservation) (*entities.Reservation, error) {
	d, err := mockapi.Create(ctx, r.client, mockapi.CollectionReservations, mockapi.ReservationFromEntity(reservation))
	if err != nil {
		return nil, err
	}
	res, err := mockapi.ReservationToEntity(*d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUpstream, err)
	}
	return &res, nil
}

// UpdateReservation отправляет запись целиком: PATCH сервис не умеет.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, reservation entities.Reservation) (*entities.Reservation, error) {
	d, err := mockapi.Replace(ctx, r.client, mockapi.CollectionReservations, reservation.ID, mockapi.ReservationFromEntity(reservation))
	if err != nil {
		return nil, err
	}
	res, err := mockapi.ReservationToEntity(*d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUpstream, err)
	}
	return &res, nil
}

func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	return mockapi.Delete(ctx, r.client, mockapi.CollectionReservations, id)
}

type SaleRepository struct {
	client *mockapi.Client
	logger *zap.Logger
}

func NewSaleRepository(client *mockapi.Client, logger *zap.Logger) repositories.SaleRepositoryInterface {
	return &SaleRepository{client: client, logger: logger}
}

func saleEntity(d *mockapi.VentaDTO) (*entities.Sale, error) {
	s, err := mockapi.SaleToEntity(*d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUpstream, err)
	}
	return &s, nil
}

func (r *SaleRepository) GetSales(ctx context.Context) ([]entities.Sale, error) {
	list, err := mockapi.List[mockapi.VentaDTO](ctx, r.client, mockapi.CollectionSales)
	if err != nil {
		return nil, err
	}
	sales := make([]entities.Sale, 0, len(list))
	for _, d := range list {
		sale, err := mockapi.SaleToEntity(d)
		if err != nil {
			r.logger.Warn("Пропущена некорректная запись продажи", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func (r *SaleRepository) FindSale(ctx context.Context, id string) (*entities.Sale, error) {
	d, err := mockapi.Get[mockapi.VentaDTO](ctx, r.client, mockapi.CollectionSales, id)
	if err != nil {
		return nil, err
	}
	return saleEntity(d)
}

func (r *SaleRepository) FindSaleByReservation(ctx context.Context, reservationID string) (*entities.Sale, error) {
	sales, err := r.GetSales(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		if sales[i].ReservationID == reservationID {
			return &sales[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *SaleRepository) CreateSale(ctx context.Context, sale entities.Sale) (*entities.Sale, error) {
	d, err := mockapi.Create(ctx, r.client, mockapi.CollectionSales, mockapi.SaleFromEntity(sale))
	if err != nil {
		return nil, err
	}
	return saleEntity(d)
}

func (r *SaleRepository) DeleteSale(ctx context.Context, id string) error {
	return mockapi.Delete(ctx, r.client, mockapi.CollectionSales, id)
}

type UserRepository struct {
	client *mockapi.Client
}

func NewUserRepository(client *mockapi.Client) repositories.UserRepositoryInterface {
	return &UserRepository{client: client}
}

// FindByUsername ищет точное совпадение логина в коллекции, соответствующей типу пользователя.
func (r *UserRepository) FindByUsername(ctx context.Context, userType, username string) (*entities.User, error) {
	list, err := mockapi.List[mockapi.UsuarioDTO](ctx, r.client, mockapi.CollectionForUserType(userType))
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		if d.Username == username {
			u := mockapi.UserToEntity(d, userType)
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *UserRepository) FindUser(ctx context.Context, userType, id string) (*entities.User, error) {
	d, err := mockapi.Get[mockapi.UsuarioDTO](ctx, r.client, mockapi.CollectionForUserType(userType), id)
	if err != nil {
		return nil, err
	}
	u := mockapi.UserToEntity(*d, userType)
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	if _, err := r.FindByUsername(ctx, user.Type, user.Username); err == nil {
		return nil, fmt.Errorf("пользователь %s уже существует: %w", user.Username, apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	d, err := mockapi.Create(ctx, r.client, mockapi.CollectionForUserType(user.Type), mockapi.UserFromEntity(user))
	if err != nil {
		return nil, err
	}
	u := mockapi.UserToEntity(*d, user.Type)
	return &u, nil
}
