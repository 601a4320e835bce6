// Package memory - хранилище в памяти процесса для локальной разработки и тестов.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/repositories"
	apperrors "pharmacy-system/pkg/errors"
)

// collection хранит записи и порядок вставки, чтобы списки были стабильными.
type collection[T any] struct {
	items map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) put(id string, v T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Store - объединённое in-memory хранилище и простой генератор ID.
type Store struct {
	mu           sync.RWMutex
	nextID       int64
	products     *collection[entities.Product]
	branches     *collection[entities.Branch]
	reservations *collection[entities.Reservation]
	sales        *collection[entities.Sale]
	users        *collection[entities.User]
}

var (
	_ repositories.ProductRepositoryInterface     = (*Store)(nil)
	_ repositories.BranchRepositoryInterface      = (*Store)(nil)
	_ repositories.ReservationRepositoryInterface = (*Store)(nil)
	_ repositories.SaleRepositoryInterface        = (*Store)(nil)
	_ repositories.UserRepositoryInterface        = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		nextID:       1,
		products:     newCollection[entities.Product](),
		branches:     newCollection[entities.Branch](),
		reservations: newCollection[entities.Reservation](),
		sales:        newCollection[entities.Sale](),
		users:        newCollection[entities.User](),
	}
}

// newID вызывается под блокировкой на запись.
func (s *Store) newID() string {
	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++
	return id
}

// Products

func (s *Store) GetProducts(_ context.Context) ([]entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.list(), nil
}

func (s *Store) FindProduct(_ context.Context, id string) (*entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products.get(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(_ context.Context, p entities.Product) (*entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID()
	}
	s.products.put(p.ID, p)
	return &p, nil
}

func (s *Store) UpdateProduct(_ context.Context, p entities.Product) (*entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products.get(p.ID); !ok {
		return nil, apperrors.ErrNotFound
	}
	s.products.put(p.ID, p)
	return &p, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.products.remove(id) {
		return apperrors.ErrNotFound
	}
	return nil
}

// Branches

func (s *Store) GetBranches(_ context.Context) ([]entities.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.branches.list(), nil
}

func (s *Store) FindBranch(_ context.Context, id string) (*entities.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches.get(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (s *Store) CreateBranch(_ context.Context, b entities.Branch) (*entities.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = s.newID()
	}
	s.branches.put(b.ID, b)
	return &b, nil
}

func (s *Store) UpdateBranch(_ context.Context, b entities.Branch) (*entities.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.branches.get(b.ID); !ok {
		return nil, apperrors.ErrNotFound
	}
	s.branches.put(b.ID, b)
	return &b, nil
}

func (s *Store) DeleteBranch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.branches.remove(id) {
		return apperrors.ErrNotFound
	}
	return nil
}

// Reservations

func (s *Store) GetReservations(_ context.Context, filter repositories.ReservationFilter) ([]entities.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.reservations.list()), nil
}

func (s *Store) FindReservation(_ context.Context, id string) (*entities.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations.get(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (s *Store) CreateReservation(_ context.Context, r entities.Reservation) (*entities.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = s.newID()
	}
	s.reservations.put(r.ID, r)
	return &r, nil
}

func (s *Store) UpdateReservation(_ context.Context, r entities.Reservation) (*entities.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations.get(r.ID); !ok {
		return nil, apperrors.ErrNotFound
	}
	s.reservations.put(r.ID, r)
	return &r, nil
}

func (s *Store) DeleteReservation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reservations.remove(id) {
		return apperrors.ErrNotFound
	}
	return nil
}

// Sales

func copySale(sale entities.Sale) entities.Sale {
	sale.Lines = append([]entities.SaleLine(nil), sale.Lines...)
	return sale
}

func (s *Store) GetSales(_ context.Context) ([]entities.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.sales.list()
	for i := range list {
		list[i] = copySale(list[i])
	}
	return list, nil
}

func (s *Store) FindSale(_ context.Context, id string) (*entities.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales.get(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	sale = copySale(sale)
	return &sale, nil
}

func (s *Store) FindSaleByReservation(_ context.Context, reservationID string) (*entities.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sale := range s.sales.list() {
		if sale.ReservationID == reservationID {
			sale = copySale(sale)
			return &sale, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) CreateSale(_ context.Context, sale entities.Sale) (*entities.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale.ReservationID != "" {
		for _, existing := range s.sales.list() {
			if existing.ReservationID == sale.ReservationID {
				return nil, fmt.Errorf("продажа по резерву %s уже существует: %w", sale.ReservationID, apperrors.ErrConflict)
			}
		}
	}
	if sale.ID == "" {
		sale.ID = s.newID()
	}
	sale = copySale(sale)
	s.sales.put(sale.ID, sale)
	return &sale, nil
}

func (s *Store) DeleteSale(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sales.remove(id) {
		return apperrors.ErrNotFound
	}
	return nil
}

// Users

func (s *Store) FindByUsername(_ context.Context, userType, username string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users.list() {
		if u.Type == userType && u.Username == username {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindUser(_ context.Context, userType, id string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.get(id)
	if !ok || u.Type != userType {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (s *Store) CreateUser(_ context.Context, u entities.User) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users.list() {
		if existing.Type == u.Type && existing.Username == u.Username {
			return nil, fmt.Errorf("пользователь %s уже существует: %w", u.Username, apperrors.ErrConflict)
		}
	}
	if u.ID == "" {
		u.ID = s.newID()
	}
	s.users.put(u.ID, u)
	return &u, nil
}
