package service

// stubs_test.go holds the in-memory repository stubs shared by the service
// unit tests. DB() returns nil on every stub, which makes runTx call the
// transaction body directly — the services under test never notice.

import (
	"context"
	"sort"

	"lojalink/internal/dto"
	"lojalink/internal/model"
	"lojalink/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	byID    map[uuid.UUID]*model.User
	byEmail map[string]*model.User
	created int

	// raceWith simulates a concurrent transaction winning the unique-index
	// race: the first CreateTx for that email fails with ErrDuplicatedKey and
	// the winner's row becomes visible for the recovery re-read.
	raceWith map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (r *stubUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error { return r.CreateTx(nil, u) }

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.FindByEmailTx(nil, email)
}

func (r *stubUserRepo) List(_ context.Context, role string, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.byID {
		if role != "" && string(u.Role) != role {
			continue
		}
		if !includeInactive && !u.Active {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.byID[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.byID[id]; ok {
		u.Active = true
	}
	return nil
}

func (r *stubUserRepo) CreateTx(_ *gorm.DB, u *model.User) error {
	if winner, ok := r.raceWith[u.Email]; ok {
		delete(r.raceWith, u.Email)
		r.add(winner)
		return gorm.ErrDuplicatedKey
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.add(u)
	r.created++
	return nil
}

func (r *stubUserRepo) FindByEmailTx(_ *gorm.DB, email string) (*model.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) DB() *gorm.DB { return nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── stores ───────────────────────────────────────────────────────────────────

type stubStoreRepo struct {
	bySlug map[string]*model.Store
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{bySlug: make(map[string]*model.Store)}
}

func (r *stubStoreRepo) FindBySlug(_ context.Context, slug string) (*model.Store, error) {
	s, ok := r.bySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubStoreRepo) FirstOrCreateTx(_ *gorm.DB, s *model.Store) error {
	if existing, ok := r.bySlug[s.Slug]; ok {
		*s = *existing
		return nil
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	copied := *s
	r.bySlug[s.Slug] = &copied
	return nil
}

func (r *stubStoreRepo) DB() *gorm.DB { return nil }

var _ repository.StoreRepository = (*stubStoreRepo)(nil)

// ── products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	byID  map[uuid.UUID]*model.Product
	bySKU map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		byID:  make(map[uuid.UUID]*model.Product),
		bySKU: make(map[string]*model.Product),
	}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.byID[p.ID] = p
	r.bySKU[p.SKU] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error { return r.CreateTx(nil, p) }

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	p, ok := r.bySKU[sku]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.byID {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListCatalog(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.byID {
		if p.Active && p.SKU != model.SentinelSKU {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.byID[p.ID] = p
	r.bySKU[p.SKU] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.byID[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.byID[id]; ok {
		p.Active = true
	}
	return nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	if _, exists := r.bySKU[p.SKU]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) FirstOrCreateBySKUTx(_ *gorm.DB, p *model.Product) error {
	if existing, ok := r.bySKU[p.SKU]; ok {
		*p = *existing
		return nil
	}
	copied := *p
	added := r.add(&copied)
	*p = *added
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── orders ───────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders   map[uuid.UUID]*model.Order
	logs     []model.OrderLog
	sequence []uuid.UUID // creation order, for ListRecent
	users    *stubUserRepo
}

func newStubOrderRepo(users *stubUserRepo) *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order), users: users}
}

func (r *stubOrderRepo) hydrate(o *model.Order) *model.Order {
	copied := *o
	if r.users != nil {
		if c, ok := r.users.byID[o.ClientID]; ok {
			copied.Client = c
		}
		if s, ok := r.users.byID[o.SellerID]; ok {
			copied.Seller = s
		}
	}
	return &copied
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(o), nil
}

func (r *stubOrderRepo) List(_ context.Context, _ dto.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, id := range r.sequence {
		if o, ok := r.orders[id]; ok {
			out = append(out, *r.hydrate(o))
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) ListRecent(_ context.Context, limit int) ([]model.Order, error) {
	var out []model.Order
	for i := len(r.sequence) - 1; i >= 0 && len(out) < limit; i-- {
		if o, ok := r.orders[r.sequence[i]]; ok {
			out = append(out, *r.hydrate(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListLogs(_ context.Context, orderID uuid.UUID) ([]model.OrderLog, error) {
	var out []model.OrderLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].OrderID == orderID {
			out = append(out, r.logs[i])
		}
	}
	return out, nil
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	r.sequence = append(r.sequence, o.ID)
	return nil
}

func (r *stubOrderRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status model.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) CreateLogTx(_ *gorm.DB, l *model.OrderLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.logs = append(r.logs, *l)
	return nil
}

func (r *stubOrderRepo) FindIDsByItemProductTx(_ *gorm.DB, productID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, o := range r.orders {
		for _, item := range o.Items {
			if item.ProductID == productID {
				ids = append(ids, o.ID)
				break
			}
		}
	}
	return ids, nil
}

func (r *stubOrderRepo) DeleteByIDsTx(_ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.orders, id)
		var kept []model.OrderLog
		for _, l := range r.logs {
			if l.OrderID != id {
				kept = append(kept, l)
			}
		}
		r.logs = kept
	}
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── stock movements ──────────────────────────────────────────────────────────

type stubStockRepo struct {
	movements []model.StockMovement
}

func (r *stubStockRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubStockRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.ProductID != "" && m.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = (*stubStockRepo)(nil)

// ── payment methods ──────────────────────────────────────────────────────────

type stubPaymentMethodRepo struct {
	byID map[uuid.UUID]*model.PaymentMethod
}

func newStubPaymentMethodRepo() *stubPaymentMethodRepo {
	return &stubPaymentMethodRepo{byID: make(map[uuid.UUID]*model.PaymentMethod)}
}

func (r *stubPaymentMethodRepo) Create(_ context.Context, m *model.PaymentMethod) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.byID[m.ID] = m
	return nil
}

func (r *stubPaymentMethodRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PaymentMethod, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubPaymentMethodRepo) List(_ context.Context) ([]model.PaymentMethod, error) {
	var out []model.PaymentMethod
	for _, m := range r.byID {
		if m.Active {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubPaymentMethodRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if m, ok := r.byID[id]; ok {
		m.Active = false
	}
	return nil
}

var _ repository.PaymentMethodRepository = (*stubPaymentMethodRepo)(nil)

// ── reports ──────────────────────────────────────────────────────────────────

type stubReportRepo struct {
	total   decimal.Decimal
	pedidos int64
	sellers []dto.SellerTotal
}

func (r *stubReportRepo) Totals(_ context.Context, _ dto.DateRange) (decimal.Decimal, int64, error) {
	return r.total, r.pedidos, nil
}

func (r *stubReportRepo) TopSellers(_ context.Context, _ dto.DateRange, limit int) ([]dto.SellerTotal, error) {
	if len(r.sellers) > limit {
		return r.sellers[:limit], nil
	}
	return r.sellers, nil
}

func (r *stubReportRepo) ByPaymentMethod(_ context.Context, _ dto.DateRange) ([]dto.PaymentMethodTotal, error) {
	return nil, nil
}

func (r *stubReportRepo) ByProduct(_ context.Context, _ dto.DateRange) ([]dto.ProductTotal, error) {
	return nil, nil
}

func (r *stubReportRepo) ByDay(_ context.Context, _ dto.DateRange) ([]dto.DailyTotal, error) {
	return nil, nil
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)
