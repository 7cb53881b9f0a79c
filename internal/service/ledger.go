package service

import (
	"context"
	"encoding/json"
	"errors"

	"go-inventory-ledger/internal/metrics"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor identifies who runs an operation and on behalf of which tenant
type Actor struct {
	TenantID string
	UserID   string
	Name     string
	Email    string
}

func (a Actor) check() error {
	if a.TenantID == "" {
		return invalid("tenant is required")
	}
	return nil
}

// Notifier receives ledger events once the transaction has committed
type Notifier interface {
	Publish(tenantID string, payload []byte)
}

// Event is the JSON pushed to websocket subscribers
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data"`
	User    EventUser   `json:"user"`
	Message string      `json:"message"`
}

type EventUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Repositories bundles the data access used by the engines
type Repositories struct {
	Products    repository.ProductRepository
	Movements   repository.StockMovementRepository
	Customers   repository.CustomerRepository
	Suppliers   repository.SupplierRepository
	Orders      repository.OrderRepository
	Payments    repository.PaymentRepository
	Purchases   repository.PurchaseRepository
	Idempotency repository.IdempotencyRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Products:    repository.NewProductRepo(db),
		Movements:   repository.NewStockMovementRepo(db),
		Customers:   repository.NewCustomerRepo(db),
		Suppliers:   repository.NewSupplierRepo(db),
		Orders:      repository.NewOrderRepo(db),
		Payments:    repository.NewPaymentRepo(db),
		Purchases:   repository.NewPurchaseRepo(db),
		Idempotency: repository.NewIdempotencyRepo(db),
	}
}

// Deps is what every engine is built from. Log, Metrics and Notifier may be nil.
type Deps struct {
	DB       *gorm.DB
	Repos    *Repositories
	Log      *zap.Logger
	Metrics  *metrics.Recorder
	Notifier Notifier
	Config   config.LedgerConfig
}

type engine struct {
	db       *gorm.DB
	repos    *Repositories
	log      *zap.Logger
	metrics  *metrics.Recorder
	notifier Notifier
	cfg      config.LedgerConfig
	stock    *stockLedger
	numbers  numberGenerator
}

func newEngine(d Deps) *engine {
	if d.Repos == nil {
		d.Repos = NewRepositories(d.DB)
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Config.OrderPrefix == "" {
		d.Config.OrderPrefix = "INV"
	}
	if d.Config.PurchasePrefix == "" {
		d.Config.PurchasePrefix = "PO"
	}
	if d.Config.DefaultLowStockThreshold <= 0 {
		d.Config.DefaultLowStockThreshold = 5
	}
	return &engine{
		db:       d.DB,
		repos:    d.Repos,
		log:      d.Log,
		metrics:  d.Metrics,
		notifier: d.Notifier,
		cfg:      d.Config,
		stock:    &stockLedger{products: d.Repos.Products, movements: d.Repos.Movements},
		numbers:  defaultNumberGenerator(),
	}
}

// inTx runs fn as one database transaction and records its outcome.
// Nothing is retried: conflicts surface to the caller as ErrConflict.
func (e *engine) inTx(ctx context.Context, actor Actor, op string, fn func(tx *gorm.DB) error) error {
	done := e.metrics.TrackOperation(op)
	err := actor.check()
	if err == nil {
		if e.cfg.OperationTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.cfg.OperationTimeout)
			defer cancel()
		}
		err = translateDBError(e.db.WithContext(ctx).Transaction(fn))
	}
	done(resultLabel(err))

	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("tenant_id", actor.TenantID),
		zap.String("user_id", actor.UserID),
	}
	switch class := Classify(err); {
	case err == nil:
		e.log.Info("ledger operation committed", fields...)
	case class == ClassInternal:
		e.log.Error("ledger operation failed", append(fields, zap.Error(err))...)
	default:
		e.log.Warn("ledger operation rejected", append(fields, zap.String("class", class.String()), zap.Error(err))...)
	}
	return err
}

// claim reserves an idempotency key inside tx. An empty key means the caller opted out.
func (e *engine) claim(tx *gorm.DB, actor Actor, op, key string) (*model.IdempotencyKey, error) {
	if key == "" {
		return nil, nil
	}
	claim, err := e.repos.Idempotency.Claim(tx, actor.TenantID, op, key)
	if errors.Is(err, repository.ErrKeyClaimed) {
		return nil, &DuplicateRequestError{Operation: op, Key: key, ReferenceID: claim.ReferenceID}
	}
	return claim, err
}

func (e *engine) settle(tx *gorm.DB, claim *model.IdempotencyKey, referenceID string) error {
	if claim == nil {
		return nil
	}
	return e.repos.Idempotency.SetReference(tx, claim, referenceID)
}

// publish sends an event to the tenant's subscribers. Call it only after commit.
func (e *engine) publish(actor Actor, event Event) {
	if e.notifier == nil {
		return
	}
	event.User = EventUser{ID: actor.UserID, Name: actor.Name, Email: actor.Email}
	msg, err := json.Marshal(event)
	if err != nil {
		e.log.Error("marshal ledger event", zap.String("action", event.Action), zap.Error(err))
		return
	}
	e.notifier.Publish(actor.TenantID, msg)
}

// afterMovements records committed movements and announces products that became low on stock
func (e *engine) afterMovements(actor Actor, movements []*model.StockMovement, products map[uuid.UUID]*model.Product) {
	for _, m := range movements {
		e.metrics.RecordStockMovement(string(m.Type))
	}
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		e.metrics.RecordLowStock()
		e.publish(actor, Event{
			Type:   "stock_alert",
			Action: "low_stock",
			Data: map[string]interface{}{
				"product_id":          p.ID,
				"sku":                 p.SKU,
				"name":                p.Name,
				"stock_quantity":      p.StockQuantity,
				"low_stock_threshold": p.LowStockThreshold,
			},
			Message: "'" + p.Name + "' is low on stock",
		})
	}
}
