package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lojalink/internal/dto"
	"lojalink/internal/infra"
	"lojalink/internal/model"
	"lojalink/internal/repository"
	"lojalink/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Actor is the identity taking an action, derived from the JWT claims.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

type OrderService interface {
	Create(ctx context.Context, sellerID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	ChangeStatus(ctx context.Context, orderID uuid.UUID, toStatus string, actor Actor) (*dto.OrderResponse, error)
	Logs(ctx context.Context, orderID uuid.UUID) ([]dto.OrderLogResponse, error)
}

type orderService struct {
	repo        repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	methodRepo  repository.PaymentMethodRepository
	storeRepo   repository.StoreRepository
	stockRepo   repository.StockMovementRepository
	dispatcher  *worker.Dispatcher
	storeName   string
	currency    string
}

func NewOrderService(
	repo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	methodRepo repository.PaymentMethodRepository,
	storeRepo repository.StoreRepository,
	stockRepo repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
	storeName, currency string,
) OrderService {
	return &orderService{
		repo:        repo,
		productRepo: productRepo,
		userRepo:    userRepo,
		methodRepo:  methodRepo,
		storeRepo:   storeRepo,
		stockRepo:   stockRepo,
		dispatcher:  dispatcher,
		storeName:   storeName,
		currency:    currency,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// runNested executes fn inside a savepoint on tx. A failed insert then rolls
// back only to the savepoint instead of aborting the whole surrounding
// transaction, which Postgres would otherwise do on a unique violation.
func runNested(tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx == nil {
		return fn(nil)
	}
	return tx.Transaction(fn)
}

// ── Create ───────────────────────────────────────────────────────────────────
// One ACID transaction: resolve products, decrement stock with paired
// movements, create order + items + payments, append the "create" log row.

func (s *orderService) Create(ctx context.Context, sellerID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("client_id invalido: %w", err)
	}
	if _, err := s.userRepo.FindByID(ctx, clientID); err != nil {
		return nil, ErrUserNotFound
	}

	// Pre-flight: resolve products and compute the total outside the tx.
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		price     decimal.Decimal
		qty       int
		note      string
	}
	var resolved []resolvedItem
	total := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id invalido: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, ErrProductNotFound
		}
		if !p.Active {
			return nil, fmt.Errorf("produto %s esta inativo", p.Name)
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			price:     p.Price,
			qty:       item.Qty,
			note:      item.Note,
		})
	}

	// Payments, when present, must cover the total exactly.
	if len(req.Payments) > 0 {
		paid := decimal.Zero
		for _, pay := range req.Payments {
			paid = paid.Add(pay.Amount)
		}
		if !paid.Equal(total) {
			return nil, errors.New("soma dos pagamentos difere do total do pedido")
		}
	}

	var order model.Order
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		store := &model.Store{Slug: model.DefaultStoreSlug, Name: s.storeName, Active: true}
		if err := s.storeRepo.FirstOrCreateTx(tx, store); err != nil {
			return err
		}

		order = model.Order{
			ClientID: clientID,
			SellerID: sellerID,
			StoreID:  store.ID,
			Status:   model.StatusPending,
			Total:    total,
		}
		for _, r := range resolved {
			order.Items = append(order.Items, model.OrderItem{
				ProductID: r.productID,
				Qty:       r.qty,
				UnitPrice: r.price,
				Note:      r.note,
			})
		}
		for _, pay := range req.Payments {
			mid, err := uuid.Parse(pay.PaymentMethodID)
			if err != nil {
				return fmt.Errorf("payment_method_id invalido: %w", err)
			}
			order.Payments = append(order.Payments, model.OrderPayment{
				PaymentMethodID: mid,
				Amount:          pay.Amount,
			})
		}

		if err := s.repo.CreateTx(tx, &order); err != nil {
			return err
		}

		// Decrement stock, one movement per line
		for _, r := range resolved {
			before, err := s.productRepo.FindByIDTx(tx, r.productID)
			if err != nil {
				return err
			}
			if before.Stock < r.qty {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, r.name)
			}
			if err := s.productRepo.UpdateStockTx(tx, r.productID, -r.qty); err != nil {
				return err
			}
			refType := "order"
			refID := order.ID
			mov := &model.StockMovement{
				ProductID:     r.productID,
				Qty:           r.qty,
				Kind:          model.MovementOut,
				StockBefore:   before.Stock,
				StockAfter:    before.Stock - r.qty,
				ReferenceType: &refType,
				ReferenceID:   &refID,
			}
			if err := s.stockRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		return s.repo.CreateLogTx(tx, &model.OrderLog{
			OrderID:  order.ID,
			Action:   model.LogActionCreate,
			ByUserID: sellerID,
			ToStatus: model.StatusPending,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, order.ID)
}

// ── ChangeStatus ─────────────────────────────────────────────────────────────
// Validates the target against the closed enum and the transition table, then
// updates status + appends the audit row in one transaction. Canceling
// restores stock with paired movements. Reaching a final status fires the
// purchase-conversion event through the worker queue — best-effort, its
// failure can never fail this call.

func (s *orderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, toStatus string, actor Actor) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	to, ok := model.ParseOrderStatus(toStatus)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, toStatus)
	}

	edgeExists, roleAllowed := model.CanTransition(order.Status, to, actor.Role)
	if !edgeExists {
		return nil, fmt.Errorf("%w: %s → %s", ErrIllegalTransition, order.Status, to)
	}
	if !roleAllowed {
		return nil, fmt.Errorf("%w: %s", ErrTransitionDenied, actor.Role)
	}

	// Fallback actor: the order's own seller (import replays, system calls)
	byUser := actor.ID
	if byUser == uuid.Nil {
		byUser = order.SellerID
	}

	from := order.Status
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusTx(tx, orderID, to); err != nil {
			return err
		}

		if to == model.StatusCanceled {
			if err := s.restoreStockTx(tx, order); err != nil {
				return err
			}
		}

		fromCopy := from
		return s.repo.CreateLogTx(tx, &model.OrderLog{
			OrderID:    orderID,
			Action:     model.LogActionStatusChange,
			ByUserID:   byUser,
			FromStatus: &fromCopy,
			ToStatus:   to,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	order.Status = to

	if model.IsFinalStatus(string(to)) {
		s.notifyPurchase(ctx, order)
	}
	if to == model.StatusDelivered {
		s.notifyReceipt(ctx, order)
	}

	return s.Get(ctx, orderID)
}

// restoreStockTx puts every line's quantity back with a paired "in" movement.
func (s *orderService) restoreStockTx(tx *gorm.DB, order *model.Order) error {
	for _, item := range order.Items {
		before, err := s.productRepo.FindByIDTx(tx, item.ProductID)
		if err != nil {
			return err
		}
		if err := s.productRepo.UpdateStockTx(tx, item.ProductID, item.Qty); err != nil {
			return err
		}
		refType := "order_cancel"
		refID := order.ID
		mov := &model.StockMovement{
			ProductID:     item.ProductID,
			Qty:           item.Qty,
			Kind:          model.MovementIn,
			StockBefore:   before.Stock,
			StockAfter:    before.Stock + item.Qty,
			ReferenceType: &refType,
			ReferenceID:   &refID,
		}
		if err := s.stockRepo.CreateTx(tx, mov); err != nil {
			return err
		}
	}
	return nil
}

// notifyPurchase enqueues the GA4 purchase event. Fire-and-forget.
func (s *orderService) notifyPurchase(ctx context.Context, order *model.Order) {
	if s.dispatcher == nil {
		return
	}
	items := make([]infra.PurchaseItem, 0, len(order.Items))
	for _, item := range order.Items {
		name := "item"
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, infra.PurchaseItem{
			ItemName: name,
			Quantity: item.Qty,
			Price:    item.UnitPrice.InexactFloat64(),
		})
	}
	payload := worker.AnalyticsJobPayload{
		OrderID:  order.ID.String(),
		Value:    order.Total.InexactFloat64(),
		Currency: s.currency,
		Items:    items,
	}
	if err := s.dispatcher.EnqueueAnalytics(ctx, payload); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to enqueue purchase event")
	}
}

// notifyReceipt enqueues the receipt email when the client has a real
// address. Importer-synthesized mailboxes are never mailed.
func (s *orderService) notifyReceipt(ctx context.Context, order *model.Order) {
	if s.dispatcher == nil || order.Client == nil {
		return
	}
	addr := order.Client.Email
	if addr == "" || strings.HasSuffix(addr, ImportEmailDomain) {
		return
	}
	payload := worker.EmailJobPayload{OrderID: order.ID.String(), ToEmail: addr}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to enqueue receipt email")
	}
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *orderService) Logs(ctx context.Context, orderID uuid.UUID) ([]dto.OrderLogResponse, error) {
	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		return nil, ErrOrderNotFound
	}
	logs, err := s.repo.ListLogs(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.OrderLogResponse, 0, len(logs))
	for _, l := range logs {
		byUser := l.ByUserID.String()
		if l.ByUser != nil {
			byUser = l.ByUser.Name
		}
		var from *string
		if l.FromStatus != nil {
			f := string(*l.FromStatus)
			from = &f
		}
		resp = append(resp, dto.OrderLogResponse{
			Action:     l.Action,
			ByUser:     byUser,
			FromStatus: from,
			ToStatus:   string(l.ToStatus),
			CreatedAt:  formatTimestamp(l.CreatedAt),
		})
	}
	return resp, nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			Product:   name,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			Note:      item.Note,
		})
	}
	payments := make([]dto.OrderPaymentResponse, 0, len(o.Payments))
	for _, p := range o.Payments {
		method := ""
		if p.PaymentMethod != nil {
			method = p.PaymentMethod.Name
		}
		payments = append(payments, dto.OrderPaymentResponse{Method: method, Amount: p.Amount})
	}
	client, seller := "", ""
	if o.Client != nil {
		client = o.Client.Name
	}
	if o.Seller != nil {
		seller = o.Seller.Name
	}
	return &dto.OrderResponse{
		ID:        o.ID.String(),
		Client:    client,
		Seller:    seller,
		Status:    string(o.Status),
		Total:     o.Total,
		Items:     items,
		Payments:  payments,
		CreatedAt: formatTimestamp(o.CreatedAt),
		UpdatedAt: formatTimestamp(o.UpdatedAt),
	}
}

// formatTimestamp renders API timestamps as UTC RFC3339. Postgres hands back
// local-zone values, so the conversion matters.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
