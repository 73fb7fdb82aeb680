package service

import (
	"context"
	"strings"

	"lojalink/internal/dto"
	"lojalink/internal/model"
	"lojalink/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	topSellersLimit    = 5
	recentOrdersLimit  = 20
	recentOrdersMaxCap = 500
)

type ReportService interface {
	KPIs(ctx context.Context, rng dto.DateRange) (*dto.KPIResponse, error)
	RecentOrders(ctx context.Context, limit int) (*dto.RecentOrdersResponse, error)
	TopSellers(ctx context.Context, rng dto.DateRange, limit int) ([]dto.SellerTotal, error)
	ByPaymentMethod(ctx context.Context, rng dto.DateRange) ([]dto.PaymentMethodTotal, error)
	ByProduct(ctx context.Context, rng dto.DateRange) ([]dto.ProductTotal, error)
	ByDay(ctx context.Context, rng dto.DateRange) ([]dto.DailyTotal, error)
}

type reportService struct {
	repo      repository.ReportRepository
	orderRepo repository.OrderRepository
}

func NewReportService(repo repository.ReportRepository, orderRepo repository.OrderRepository) ReportService {
	return &reportService{repo: repo, orderRepo: orderRepo}
}

// KPIs aggregates total revenue, order count, average ticket and the
// top-sellers ranking. Canceled orders never count.
func (s *reportService) KPIs(ctx context.Context, rng dto.DateRange) (*dto.KPIResponse, error) {
	total, pedidos, err := s.repo.Totals(ctx, rng)
	if err != nil {
		return nil, err
	}

	ticket := decimal.Zero
	if pedidos > 0 {
		ticket = total.Div(decimal.NewFromInt(pedidos)).Round(2)
	}

	top, err := s.repo.TopSellers(ctx, rng, topSellersLimit)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []dto.SellerTotal{}
	}

	return &dto.KPIResponse{
		Total:         total,
		Pedidos:       pedidos,
		Ticket:        ticket,
		TopVendedores: top,
	}, nil
}

// RecentOrders returns the latest orders in the public feed shape. Imported
// orders expand their single sentinel line back into the original item
// descriptions carried in the note.
func (s *reportService) RecentOrders(ctx context.Context, limit int) (*dto.RecentOrdersResponse, error) {
	if limit < 1 {
		limit = recentOrdersLimit
	}
	if limit > recentOrdersMaxCap {
		limit = recentOrdersMaxCap
	}

	orders, err := s.orderRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.RecentOrder, 0, len(orders))
	for i := range orders {
		rows = append(rows, recentOrderRow(&orders[i]))
	}
	return &dto.RecentOrdersResponse{Data: rows}, nil
}

func recentOrderRow(o *model.Order) dto.RecentOrder {
	itens := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Note != "" {
			itens = append(itens, strings.Split(item.Note, "; ")...)
			continue
		}
		if item.Product != nil {
			itens = append(itens, item.Product.Name)
		}
	}
	cliente, vendedor := "", ""
	if o.Client != nil {
		cliente = o.Client.Name
	}
	if o.Seller != nil {
		vendedor = o.Seller.Name
	}
	return dto.RecentOrder{
		Cliente:   cliente,
		Vendedor:  vendedor,
		Total:     o.Total,
		Itens:     itens,
		Status:    string(o.Status),
		CreatedAt: formatTimestamp(o.CreatedAt),
	}
}

func (s *reportService) TopSellers(ctx context.Context, rng dto.DateRange, limit int) ([]dto.SellerTotal, error) {
	if limit < 1 {
		limit = topSellersLimit
	}
	return s.repo.TopSellers(ctx, rng, limit)
}

func (s *reportService) ByPaymentMethod(ctx context.Context, rng dto.DateRange) ([]dto.PaymentMethodTotal, error) {
	return s.repo.ByPaymentMethod(ctx, rng)
}

func (s *reportService) ByProduct(ctx context.Context, rng dto.DateRange) ([]dto.ProductTotal, error) {
	return s.repo.ByProduct(ctx, rng)
}

func (s *reportService) ByDay(ctx context.Context, rng dto.DateRange) ([]dto.DailyTotal, error) {
	return s.repo.ByDay(ctx, rng)
}
