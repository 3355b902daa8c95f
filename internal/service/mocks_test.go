package service

import (
	"context"
	"sort"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// Map-backed repository fakes shared by the service tests.

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository(products ...*domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	var out []*domain.Product
	for _, p := range m.products {
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		if filter.OnSaleOnly && !p.OnSale() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (m *mockProductRepository) Recommended(ctx context.Context, categoryID, exclude uuid.UUID, limit int) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range m.products {
		if p.CategoryID == categoryID && p.ID != exclude && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

type cartKey struct {
	cartID    uuid.UUID
	productID uuid.UUID
	size      string
}

type mockCartRepository struct {
	carts     map[string]*domain.Cart
	items     map[cartKey]*domain.CartItem
	clearErr  error
	clearSeen int
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts: make(map[string]*domain.Cart),
		items: make(map[cartKey]*domain.CartItem),
	}
}

func (m *mockCartRepository) GetOrCreate(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if cart, ok := m.carts[sessionID]; ok {
		return cart, nil
	}
	cart := &domain.Cart{ID: uuid.New(), SessionID: sessionID, CreatedAt: time.Now()}
	m.carts[sessionID] = cart
	return cart, nil
}

func (m *mockCartRepository) Find(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, ok := m.carts[sessionID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockCartRepository) Items(ctx context.Context, cartID uuid.UUID) ([]*domain.CartItem, error) {
	var out []*domain.CartItem
	for _, item := range m.items {
		if item.CartID == cartID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockCartRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID, size string) (*domain.CartItem, error) {
	item, ok := m.items[cartKey{cartID, productID, size}]
	if !ok {
		return nil, repository.ErrCartItemNotFound
	}
	return item, nil
}

func (m *mockCartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, size string, quantity int) error {
	key := cartKey{cartID, productID, size}
	if item, ok := m.items[key]; ok {
		item.Quantity += quantity
		item.UpdatedAt = time.Now()
		return nil
	}
	now := time.Now()
	m.items[key] = &domain.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (m *mockCartRepository) SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	for _, item := range m.items {
		if item.ID == itemID {
			item.Quantity = quantity
			item.UpdatedAt = time.Now()
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) RemoveItems(ctx context.Context, cartID, productID uuid.UUID, size *string) error {
	for key, item := range m.items {
		if item.CartID != cartID || item.ProductID != productID {
			continue
		}
		if size != nil && item.Size != *size {
			continue
		}
		delete(m.items, key)
	}
	return nil
}

func (m *mockCartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	m.clearSeen++
	if m.clearErr != nil {
		return m.clearErr
	}
	for key, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, key)
		}
	}
	return nil
}

type mockOrderRepository struct {
	orders            map[uuid.UUID]*domain.Order
	purchaseLookupErr error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range m.orders {
		if order.SessionID == sessionID {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockOrderRepository) SaveFulfillment(ctx context.Context, order *domain.Order) error {
	stored, ok := m.orders[order.ID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	stored.IsPaid = order.IsPaid
	stored.IsDelivered = order.IsDelivered
	if stored.PaidAt == nil {
		stored.PaidAt = order.PaidAt
	}
	if stored.DeliveredAt == nil {
		stored.DeliveredAt = order.DeliveredAt
	}
	return nil
}

func (m *mockOrderRepository) HasPaidOrderWithProduct(ctx context.Context, sessionID string, productID uuid.UUID) (bool, error) {
	if m.purchaseLookupErr != nil {
		return false, m.purchaseLookupErr
	}
	for _, order := range m.orders {
		if order.SessionID != sessionID || !order.IsPaid {
			continue
		}
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

type reviewKey struct {
	productID uuid.UUID
	userID    uuid.UUID
}

type mockReviewRepository struct {
	reviews map[uuid.UUID]*domain.Review
	byUser  map[reviewKey]uuid.UUID
	creates int
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{
		reviews: make(map[uuid.UUID]*domain.Review),
		byUser:  make(map[reviewKey]uuid.UUID),
	}
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	m.creates++
	key := reviewKey{review.ProductID, review.UserID}
	if _, ok := m.byUser[key]; ok {
		return repository.ErrReviewAlreadyExists
	}
	m.reviews[review.ID] = review
	m.byUser[key] = review.ID
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	return review, nil
}

func (m *mockReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*domain.Review, error) {
	id, ok := m.byUser[reviewKey{productID, userID}]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	return m.reviews[id], nil
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	if _, ok := m.reviews[review.ID]; !ok {
		return repository.ErrReviewNotFound
	}
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	review, ok := m.reviews[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	delete(m.byUser, reviewKey{review.ProductID, review.UserID})
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, sort string, page, limit int) ([]*domain.Review, int, error) {
	var out []*domain.Review
	for _, review := range m.reviews {
		if review.ProductID == productID {
			out = append(out, review)
		}
	}
	return out, len(out), nil
}

func (m *mockReviewRepository) Histogram(ctx context.Context, productID uuid.UUID) ([]domain.RatingBucket, error) {
	counts := map[int]int{}
	for _, review := range m.reviews {
		if review.ProductID == productID {
			counts[review.Rating]++
		}
	}
	var out []domain.RatingBucket
	for rating := 5; rating >= 1; rating-- {
		if counts[rating] > 0 {
			out = append(out, domain.RatingBucket{Rating: rating, Count: counts[rating]})
		}
	}
	return out, nil
}

type mockAddressRepository struct {
	addresses map[uuid.UUID]*domain.Address
}

func newMockAddressRepository() *mockAddressRepository {
	return &mockAddressRepository{addresses: make(map[uuid.UUID]*domain.Address)}
}

func (m *mockAddressRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Address, error) {
	var out []*domain.Address
	for _, a := range m.addresses {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockAddressRepository) FindByID(ctx context.Context, sessionID string, id uuid.UUID) (*domain.Address, error) {
	a, ok := m.addresses[id]
	if !ok || a.SessionID != sessionID {
		return nil, repository.ErrAddressNotFound
	}
	return a, nil
}

func (m *mockAddressRepository) clearDefaults(sessionID string, except uuid.UUID) {
	for _, a := range m.addresses {
		if a.SessionID == sessionID && a.ID != except {
			a.IsDefault = false
		}
	}
}

func (m *mockAddressRepository) Create(ctx context.Context, address *domain.Address) error {
	if address.IsDefault {
		m.clearDefaults(address.SessionID, address.ID)
	}
	m.addresses[address.ID] = address
	return nil
}

func (m *mockAddressRepository) Update(ctx context.Context, address *domain.Address) error {
	if _, ok := m.addresses[address.ID]; !ok {
		return repository.ErrAddressNotFound
	}
	if address.IsDefault {
		m.clearDefaults(address.SessionID, address.ID)
	}
	m.addresses[address.ID] = address
	return nil
}

func (m *mockAddressRepository) Delete(ctx context.Context, sessionID string, id uuid.UUID) error {
	a, ok := m.addresses[id]
	if ok && a.SessionID == sessionID {
		delete(m.addresses, id)
	}
	return nil
}

type wishlistKey struct {
	sessionID string
	productID uuid.UUID
}

type mockWishlistRepository struct {
	items map[wishlistKey]*domain.WishlistItem
}

func newMockWishlistRepository() *mockWishlistRepository {
	return &mockWishlistRepository{items: make(map[wishlistKey]*domain.WishlistItem)}
}

func (m *mockWishlistRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.WishlistItem, error) {
	var out []*domain.WishlistItem
	for _, item := range m.items {
		if item.SessionID == sessionID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockWishlistRepository) Add(ctx context.Context, sessionID string, productID uuid.UUID) error {
	key := wishlistKey{sessionID, productID}
	if _, ok := m.items[key]; ok {
		return repository.ErrWishlistDuplicate
	}
	m.items[key] = &domain.WishlistItem{
		ID:        uuid.New(),
		SessionID: sessionID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	return nil
}

func (m *mockWishlistRepository) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	delete(m.items, wishlistKey{sessionID, productID})
	return nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository(categories ...*domain.Category) *mockCategoryRepository {
	m := &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	return m
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}
