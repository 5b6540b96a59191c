package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/db/repository"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/storage"
)

// fakeUserStore is an in-memory UserStore for service tests
type fakeUserStore struct {
	users map[uuid.UUID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]models.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user models.User) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return &user, nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) UpdateProfile(ctx context.Context, id uuid.UUID, req models.UserUpdateRequest) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	s.users[id] = u
	return &u, nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	count := 0
	for _, u := range s.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

// fakeProductStore is an in-memory ProductStore for service tests
type fakeProductStore struct {
	products map[uuid.UUID]models.Product
}

func newFakeProductStore(products ...models.Product) *fakeProductStore {
	s := &fakeProductStore{products: make(map[uuid.UUID]models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	s.products[product.ID] = product
	return &product, nil
}

func (s *fakeProductStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *fakeProductStore) List(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProductStore) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProductStore) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (s *fakeProductStore) RandomPerCategory(ctx context.Context) ([]models.Product, error) {
	seen := make(map[string]bool)
	var out []models.Product
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProductStore) Update(ctx context.Context, product models.Product) (*models.Product, error) {
	if _, ok := s.products[product.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	s.products[product.ID] = product
	return &product, nil
}

func (s *fakeProductStore) SetStock(ctx context.Context, id uuid.UUID, quantity int) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Quantity = quantity
	s.products[id] = p
	return &p, nil
}

func (s *fakeProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// fakeOrderStore mirrors the transactional store: Create decrements
// stock in the shared product store conditionally, all or nothing.
type fakeOrderStore struct {
	products *fakeProductStore
	orders   map[uuid.UUID]models.Order

	createCalls int
}

func newFakeOrderStore(products *fakeProductStore) *fakeOrderStore {
	return &fakeOrderStore{
		products: products,
		orders:   make(map[uuid.UUID]models.Order),
	}
}

func (s *fakeOrderStore) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	s.createCalls++

	for _, line := range order.Lines {
		p, ok := s.products.products[line.ProductID]
		if !ok || p.Quantity < line.Quantity {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, repository.ErrInsufficientStock)
		}
	}
	for i := range order.Lines {
		p := s.products.products[order.Lines[i].ProductID]
		p.Quantity -= order.Lines[i].Quantity
		s.products.products[p.ID] = p

		order.Lines[i].ID = uuid.New()
		order.Lines[i].Status = models.OrderStatusPending
	}

	order.ID = uuid.New()
	order.Status = models.OrderStatusPending
	order.OrderedAt = time.Now()
	s.orders[order.ID] = order
	return &order, nil
}

func (s *fakeOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := o
	out.Lines = append([]models.OrderLine(nil), o.Lines...)
	return &out, nil
}

func (s *fakeOrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *fakeOrderStore) SaveStatus(ctx context.Context, order *models.Order) error {
	if _, ok := s.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	saved := *order
	saved.Lines = append([]models.OrderLine(nil), order.Lines...)
	s.orders[order.ID] = saved
	return nil
}

func (s *fakeOrderStore) SetLineStatusByProduct(ctx context.Context, orderID, productID uuid.UUID, status models.OrderStatus) error {
	o, ok := s.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			o.Lines[i].Status = status
			s.orders[orderID] = o
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeOrderStore) GetLine(ctx context.Context, orderID, lineID uuid.UUID) (*models.OrderLine, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, line := range o.Lines {
		if line.ID == lineID {
			return &line, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeMedia is an in-memory storage.Store
type fakeMedia struct {
	objects map[string][]byte
	deleted []string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: make(map[string][]byte)}
}

func (m *fakeMedia) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.objects[key] = data
	return nil
}

func (m *fakeMedia) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, "", storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), "application/octet-stream", nil
}

func (m *fakeMedia) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *fakeMedia) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://media.test/" + key, nil
}
