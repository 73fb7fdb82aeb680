package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lojalink/internal/dto"
	"lojalink/internal/model"
	"lojalink/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ImportEmailDomain is the synthetic mailbox domain given to users created by
// the importer. Nothing is ever mailed to these addresses.
const ImportEmailDomain = "@import.local"

// Placeholders for blank names in legacy rows.
const (
	placeholderClient = "CLIENTE"
	placeholderSeller = "VENDEDOR"
)

// disabledPasswordHash can never match any bcrypt comparison, so
// importer-created accounts cannot log in until an admin resets them.
const disabledPasswordHash = "!"

// ErrInvalidImportRow wraps per-row validation failures. The row index in the
// message is 1-based because that is how the spreadsheet shows it.
var ErrInvalidImportRow = errors.New("linha de importacao invalida")

type ImportService interface {
	Import(ctx context.Context, actor Actor, req dto.ImportRequest) (*dto.ImportResponse, error)
}

type importService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	storeRepo   repository.StoreRepository
	storeName   string
}

func NewImportService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	storeName string,
) ImportService {
	return &importService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		storeName:   storeName,
	}
}

type importRow struct {
	client    string
	seller    string
	items     []string
	total     decimal.Decimal
	createdAt time.Time
}

// Import runs the whole batch inside one transaction. Either every row lands
// or none does; a bad row aborts with its 1-based index in the error.
func (s *importService) Import(ctx context.Context, actor Actor, req dto.ImportRequest) (*dto.ImportResponse, error) {
	rows, err := s.normalizeRows(req.Rows)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.orderRepo.DB(), func(tx *gorm.DB) error {
		store := &model.Store{Slug: model.DefaultStoreSlug, Name: s.storeName, Active: true}
		if err := s.storeRepo.FirstOrCreateTx(tx, store); err != nil {
			return err
		}

		sentinel := &model.Product{
			SKU:    model.SentinelSKU,
			Name:   "Venda importada",
			Price:  decimal.Zero,
			Cost:   decimal.Zero,
			Unit:   "un",
			Active: false,
		}
		if err := s.productRepo.FirstOrCreateBySKUTx(tx, sentinel); err != nil {
			return err
		}

		if req.Mode == "replace" {
			ids, err := s.orderRepo.FindIDsByItemProductTx(tx, sentinel.ID)
			if err != nil {
				return err
			}
			if err := s.orderRepo.DeleteByIDsTx(tx, ids); err != nil {
				return err
			}
			log.Info().Int("count", len(ids)).Msg("import: replaced previous imported orders")
		}

		userCache := map[string]*model.User{}
		for _, row := range rows {
			client, err := s.resolveUserTx(tx, userCache, row.client, model.RoleClient)
			if err != nil {
				return err
			}
			seller, err := s.resolveUserTx(tx, userCache, row.seller, model.RoleSeller)
			if err != nil {
				return err
			}

			order := model.Order{
				ClientID:  client.ID,
				SellerID:  seller.ID,
				StoreID:   store.ID,
				Status:    model.StatusDelivered,
				Total:     row.total,
				CreatedAt: row.createdAt,
				Items: []model.OrderItem{{
					ProductID: sentinel.ID,
					Qty:       1,
					UnitPrice: row.total,
					Note:      strings.Join(row.items, "; "),
				}},
			}
			if err := s.orderRepo.CreateTx(tx, &order); err != nil {
				return err
			}
			// The audit actor is the resolved seller, not whoever ran the
			// import — the row answers "who sold this", not "who typed it in".
			if err := s.orderRepo.CreateLogTx(tx, &model.OrderLog{
				OrderID:  order.ID,
				Action:   model.LogActionImport,
				ByUserID: seller.ID,
				ToStatus: model.StatusDelivered,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.ImportResponse{
		Inserted: len(rows),
		Ignored:  0,
		ImportID: strconv.FormatInt(time.Now().UnixMilli(), 10),
	}, nil
}

// normalizeRows validates the whole batch up front, before any database work.
func (s *importService) normalizeRows(raw []dto.ImportRow) ([]importRow, error) {
	rows := make([]importRow, 0, len(raw))
	for i, r := range raw {
		total, err := parseTotal(r.Total)
		if err != nil {
			return nil, fmt.Errorf("%w: linha %d: %v", ErrInvalidImportRow, i+1, err)
		}
		if total.IsNegative() {
			return nil, fmt.Errorf("%w: linha %d: total negativo", ErrInvalidImportRow, i+1)
		}

		client := strings.TrimSpace(r.Cliente)
		if client == "" {
			client = placeholderClient
		}
		seller := strings.TrimSpace(r.Vendedor)
		if seller == "" {
			seller = placeholderSeller
		}

		items := make([]string, 0, len(r.Itens))
		for _, it := range r.Itens {
			if t := strings.TrimSpace(it); t != "" {
				items = append(items, t)
			}
		}

		rows = append(rows, importRow{
			client:    client,
			seller:    seller,
			items:     items,
			total:     total,
			createdAt: parseImportDate(r.CreatedAt),
		})
	}
	return rows, nil
}

// parseTotal accepts a JSON number or a numeric string ("42.5" and 42.5 both
// appear in legacy exports).
func parseTotal(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Zero, errors.New("total ausente")
	}
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err != nil {
			return decimal.Zero, errors.New("total invalido")
		}
		text = strings.TrimSpace(unquoted)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total invalido: %q", text)
	}
	return d, nil
}

func parseImportDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now()
}

// resolveUserTx maps a display name onto a user row deterministically: the
// slugified name becomes a synthetic mailbox and the lookup key. A concurrent
// insert of the same slug loses the unique-index race and re-fetches.
func (s *importService) resolveUserTx(tx *gorm.DB, cache map[string]*model.User, name string, role model.Role) (*model.User, error) {
	email := slugEmail(name)
	if u, ok := cache[email]; ok {
		return u, nil
	}

	u, err := s.userRepo.FindByEmailTx(tx, email)
	if err == nil {
		cache[email] = u
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: disabledPasswordHash,
		Role:         role,
		Active:       true,
	}
	// Insert under a savepoint: losing the unique-index race must not abort
	// the batch transaction, or the recovery read below would fail too.
	err = runNested(tx, func(inner *gorm.DB) error {
		return s.userRepo.CreateTx(inner, created)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.userRepo.FindByEmailTx(tx, email)
			if ferr != nil {
				return nil, ferr
			}
			cache[email] = existing
			return existing, nil
		}
		return nil, err
	}
	cache[email] = created
	return created, nil
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e", "ë", "e",
	"í", "i", "î", "i", "ì", "i",
	"ó", "o", "õ", "o", "ô", "o", "ò", "o", "ö", "o",
	"ú", "u", "û", "u", "ù", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// slugEmail turns "João da Silva" into "joao.da.silva@import.local".
func slugEmail(name string) string {
	lower := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	var b strings.Builder
	lastDot := true // suppress a leading dot
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDot = false
		default:
			if !lastDot {
				b.WriteByte('.')
				lastDot = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), ".")
	if slug == "" {
		slug = "cliente"
	}
	return slug + ImportEmailDomain
}
