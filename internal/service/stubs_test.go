package service_test

// In-memory repository stubs shared by the service unit tests. They mirror
// the SQL behavior the services rely on: case-insensitive name lookups,
// guarded quantity updates, newest-first history ordering.

import (
	"context"
	"sort"
	"strings"

	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── CategoryRepository ────────────────────────────────────────────────────────

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	result := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		result = append(result, *c)
	}
	return result, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

// ── SupplierRepository ────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	result := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		result = append(result, *s)
	}
	return result, nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) FindByName(_ context.Context, name string) (*model.Supplier, error) {
	for _, s := range r.suppliers {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// ── ProductRepository ─────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode != nil && strings.EqualFold(*p.Barcode, barcode) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindByNameInCategory(_ context.Context, name string, categoryID uuid.UUID, exclude *uuid.UUID) (*model.Product, error) {
	for _, p := range r.products {
		if exclude != nil && p.ID == *exclude {
			continue
		}
		if p.CategoryID == categoryID && strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var result []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var result []model.Product
	for _, p := range r.products {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.CategoryID != "" && p.CategoryID.String() != filter.CategoryID {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	result := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SaveAll(_ context.Context, products []model.Product) error {
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
	}
	return nil
}

func (r *stubProductRepo) UpdatePriceAll(_ context.Context, ids []uuid.UUID, price decimal.Decimal) error {
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			p.Price = price
		}
	}
	return nil
}

func (r *stubProductRepo) ExistsByCategory(_ context.Context, categoryID uuid.UUID) (bool, error) {
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) ApplyQuantityDeltaTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := p.Quantity.Add(delta)
	if next.IsNegative() {
		return repository.ErrInsufficientStock
	}
	p.Quantity = next
	return nil
}

func (r *stubProductRepo) SetQuantityTx(_ *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Quantity = quantity
	return nil
}

func (r *stubProductRepo) UpdateCostTx(_ *gorm.DB, id uuid.UUID, cost decimal.Decimal, supplierID *uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CostPrice = &cost
	if supplierID != nil {
		p.PrimarySupplierID = *supplierID
	}
	return nil
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── ProductSupplierRepository ─────────────────────────────────────────────────

type stubLinkRepo struct {
	links   map[uuid.UUID]*model.ProductSupplier
	history []model.ProductSupplierHistory
}

func newStubLinkRepo() *stubLinkRepo {
	return &stubLinkRepo{links: make(map[uuid.UUID]*model.ProductSupplier)}
}

func (r *stubLinkRepo) FindLink(_ context.Context, productID, supplierID uuid.UUID) (*model.ProductSupplier, error) {
	for _, l := range r.links {
		if l.ProductID == productID && l.SupplierID == supplierID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLinkRepo) SaveLink(_ context.Context, link *model.ProductSupplier) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	r.links[link.ID] = link
	return nil
}

func (r *stubLinkRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.ProductSupplier, error) {
	var result []model.ProductSupplier
	for _, l := range r.links {
		if l.ProductID == productID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (r *stubLinkRepo) ListBySupplier(_ context.Context, supplierID uuid.UUID) ([]model.ProductSupplier, error) {
	var result []model.ProductSupplier
	for _, l := range r.links {
		if l.SupplierID == supplierID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (r *stubLinkRepo) CreateHistory(_ context.Context, h *model.ProductSupplierHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.history = append(r.history, *h)
	return nil
}

func (r *stubLinkRepo) HistoryByProduct(_ context.Context, productID uuid.UUID) ([]model.ProductSupplierHistory, error) {
	var result []model.ProductSupplierHistory
	for _, h := range r.history {
		if h.ProductID == productID {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EffectiveAt.After(result[j].EffectiveAt) })
	return result, nil
}

func (r *stubLinkRepo) DeleteByProductTx(_ *gorm.DB, productID uuid.UUID) error {
	for id, l := range r.links {
		if l.ProductID == productID {
			delete(r.links, id)
		}
	}
	kept := r.history[:0]
	for _, h := range r.history {
		if h.ProductID != productID {
			kept = append(kept, h)
		}
	}
	r.history = kept
	return nil
}

var _ repository.ProductSupplierRepository = (*stubLinkRepo)(nil)

// ── BatchRepository ───────────────────────────────────────────────────────────

type stubBatchRepo struct {
	batches map[uuid.UUID]*model.InventoryBatch
}

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{batches: make(map[uuid.UUID]*model.InventoryBatch)}
}

func (r *stubBatchRepo) CreateTx(_ *gorm.DB, b *model.InventoryBatch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) FindForProduct(_ context.Context, batchID, productID uuid.UUID) (*model.InventoryBatch, error) {
	b, ok := r.batches[batchID]
	if !ok || b.ProductID != productID {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBatchRepo) LatestByProduct(_ context.Context, productID uuid.UUID) (*model.InventoryBatch, error) {
	var latest *model.InventoryBatch
	for _, b := range r.batches {
		if b.ProductID != productID {
			continue
		}
		if latest == nil || b.ReceivedAt.After(latest.ReceivedAt) {
			latest = b
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *stubBatchRepo) ListByProduct(_ context.Context, productID uuid.UUID, availableOnly bool) ([]model.InventoryBatch, error) {
	var result []model.InventoryBatch
	for _, b := range r.batches {
		if b.ProductID != productID {
			continue
		}
		if availableOnly && !b.QuantityRemaining.IsPositive() {
			continue
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReceivedAt.After(result[j].ReceivedAt) })
	return result, nil
}

func (r *stubBatchRepo) DecrementRemainingTx(_ *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	b, ok := r.batches[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if b.QuantityRemaining.LessThan(qty) {
		return repository.ErrInsufficientStock
	}
	b.QuantityRemaining = b.QuantityRemaining.Sub(qty)
	return nil
}

func (r *stubBatchRepo) DeleteByProductTx(_ *gorm.DB, productID uuid.UUID) error {
	for id, b := range r.batches {
		if b.ProductID == productID {
			delete(r.batches, id)
		}
	}
	return nil
}

var _ repository.BatchRepository = (*stubBatchRepo)(nil)

// ── MovementRepository ────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, page, size int) ([]model.StockMovement, int64, error) {
	var all []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			all = append(all, m)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := page * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubMovementRepo) SumDeltas(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.ProductID == productID {
			sum = sum.Add(m.Delta)
		}
	}
	return sum, nil
}

func (r *stubMovementRepo) DeleteByProductTx(_ *gorm.DB, productID uuid.UUID) error {
	kept := r.movements[:0]
	for _, m := range r.movements {
		if m.ProductID != productID {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

// ── SaleRepository ────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales []model.Sale
}

func newStubSaleRepo() *stubSaleRepo { return &stubSaleRepo{} }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales = append(r.sales, *s)
	return nil
}

func (r *stubSaleRepo) List(_ context.Context, productID *uuid.UUID, page, size int) ([]model.Sale, int64, error) {
	var all []model.Sale
	for _, s := range r.sales {
		if productID != nil && s.ProductID != *productID {
			continue
		}
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SaleDate.After(all[j].SaleDate) })
	total := int64(len(all))
	start := page * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubSaleRepo) DeleteByProductTx(_ *gorm.DB, productID uuid.UUID) error {
	kept := r.sales[:0]
	for _, s := range r.sales {
		if s.ProductID != productID {
			kept = append(kept, s)
		}
	}
	r.sales = kept
	return nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── UserRepository ────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.AppUser
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.AppUser)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.AppUser) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AppUser, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.AppUser, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Shared fixtures ───────────────────────────────────────────────────────────

type fixture struct {
	categories *stubCategoryRepo
	suppliers  *stubSupplierRepo
	products   *stubProductRepo
	links      *stubLinkRepo
	batches    *stubBatchRepo
	movements  *stubMovementRepo
	sales      *stubSaleRepo
}

func newFixture() *fixture {
	return &fixture{
		categories: newStubCategoryRepo(),
		suppliers:  newStubSupplierRepo(),
		products:   newStubProductRepo(),
		links:      newStubLinkRepo(),
		batches:    newStubBatchRepo(),
		movements:  newStubMovementRepo(),
		sales:      newStubSaleRepo(),
	}
}

func (f *fixture) seedCategory(name string, threshold *decimal.Decimal) *model.Category {
	c := &model.Category{ID: uuid.New(), Name: name, DefaultLowStockThreshold: threshold}
	f.categories.categories[c.ID] = c
	return c
}

func (f *fixture) seedSupplier(name string) *model.Supplier {
	s := &model.Supplier{ID: uuid.New(), Name: name}
	f.suppliers.suppliers[s.ID] = s
	return s
}

func (f *fixture) seedProduct(name string, categoryID, supplierID uuid.UUID, quantity decimal.Decimal) *model.Product {
	p := &model.Product{
		ID:                uuid.New(),
		Name:              name,
		CategoryID:        categoryID,
		PrimarySupplierID: supplierID,
		Price:             decimal.NewFromFloat(2.50),
		Quantity:          quantity,
		Unit:              model.UnitKG,
	}
	f.products.products[p.ID] = p
	return p
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
