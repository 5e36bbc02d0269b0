package service

import (
	"context"
	"errors"
	"time"

	"payin-bridge/config"
	"payin-bridge/internal/gateway"
	"payin-bridge/internal/models"
	"payin-bridge/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Catalog is the read-only product lookup the orchestrator validates against
type Catalog interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// PaymentGateway is the provider boundary the orchestrator drives
type PaymentGateway interface {
	ListAccounts(ctx context.Context) ([]models.MerchantAccount, error)
	CreatePayin(ctx context.Context, params gateway.PayinParams) (*models.PayinResult, error)
}

// OutcomePublisher receives purchase outcome events for downstream
// reconciliation. Publishing is best-effort and never fails a purchase.
type OutcomePublisher interface {
	PublishPurchaseSucceeded(ctx context.Context, event *models.PurchaseSucceededEvent) error
	PublishPurchaseFailed(ctx context.Context, event *models.PurchaseFailedEvent) error
}

// PurchaseService orchestrates a single purchase attempt: validate the
// request, resolve a merchant account, convert the amount and request a
// payin. Each call is independent and creates at most one payin at the
// provider; nothing is retried here.
type PurchaseService struct {
	catalog   Catalog
	gateway   PaymentGateway
	converter *RateConverter
	publisher OutcomePublisher
	cfg       config.GatewayConfig
	logger    *zap.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	catalog Catalog,
	gw PaymentGateway,
	converter *RateConverter,
	publisher OutcomePublisher,
	cfg config.GatewayConfig,
) *PurchaseService {
	return &PurchaseService{
		catalog:   catalog,
		gateway:   gw,
		converter: converter,
		publisher: publisher,
		cfg:       cfg,
		logger:    util.GetLogger(),
	}
}

// PurchaseRequest represents a request to purchase a product. AmountUSDC may
// exceed the product's unit price (cart totals are validated upstream).
type PurchaseRequest struct {
	ProductID  int64           `json:"product_id" binding:"required"`
	AmountUSDC decimal.Decimal `json:"amount_usdc"`
}

const successMessage = "Payin created successfully. Please complete the payment using the provided instructions."

// Purchase runs one purchase attempt. On success the returned outcome
// carries the provider's payin fields verbatim plus a freshly generated
// transaction id; on failure it returns a typed error and no payin exists
// unless the error is an indeterminate gateway failure.
func (s *PurchaseService) Purchase(ctx context.Context, req *PurchaseRequest) (*models.PurchaseOutcome, error) {
	ctx, span := util.StartSpan(ctx, "PurchaseService.Purchase")
	defer span.End()

	util.PurchaseAttemptsTotal.Inc()
	start := time.Now()
	defer func() {
		util.PurchaseLatency.Observe(time.Since(start).Seconds())
	}()

	product, err := s.catalog.GetProductByID(ctx, req.ProductID)
	if err != nil {
		util.PurchasesFailedTotal.WithLabelValues("catalog_error").Inc()
		return nil, err
	}
	if product == nil {
		util.PurchasesFailedTotal.WithLabelValues("product_not_found").Inc()
		return nil, ErrProductNotFound
	}

	if !req.AmountUSDC.IsPositive() {
		util.PurchasesFailedTotal.WithLabelValues("invalid_amount").Inc()
		return nil, ErrInvalidAmount
	}

	accounts, err := s.gateway.ListAccounts(ctx)
	if err != nil {
		return nil, s.failed(ctx, req.ProductID, err)
	}

	accountID, ok := SelectAccount(accounts)
	if !ok {
		return nil, s.failed(ctx, req.ProductID, ErrNoAccountAvailable)
	}

	fiatAmount := s.converter.Convert(req.AmountUSDC)

	result, err := s.gateway.CreatePayin(ctx, gateway.PayinParams{
		AccountID:        accountID,
		FiatAmount:       fiatAmount,
		FiatCurrencyCode: s.cfg.FiatCurrencyCode,
		TokenSymbol:      s.cfg.TokenSymbol,
		TokenBlockchain:  s.cfg.TokenBlockchain,
	})
	if err != nil {
		return nil, s.failed(ctx, req.ProductID, err)
	}

	transactionID := uuid.New().String()
	util.PurchasesSucceededTotal.Inc()
	util.PayinsCreatedTotal.Inc()

	s.logger.Info("Purchase succeeded",
		zap.String("transaction_id", transactionID),
		zap.Int64("product_id", req.ProductID),
		zap.String("payin_id", result.ID),
		zap.String("amount_usdc", req.AmountUSDC.String()),
		zap.String("fiat_amount", fiatAmount.String()))

	s.publishSucceeded(ctx, transactionID, req, result.ID, fiatAmount)

	fiat := fiatAmount.InexactFloat64()
	return &models.PurchaseOutcome{
		Success:       true,
		Message:       successMessage,
		TransactionID: transactionID,
		PayinID:       result.ID,
		PayinStatus:   result.Status,
		Instructions:  result.Instructions,
		FiatAmountCOP: &fiat,
	}, nil
}

// failed records metrics and publishes the failure event, then passes the
// error through unchanged.
func (s *PurchaseService) failed(ctx context.Context, productID int64, err error) error {
	reason, indeterminate := classifyFailure(err)
	util.PurchasesFailedTotal.WithLabelValues(reason).Inc()

	s.logger.Warn("Purchase failed",
		zap.Int64("product_id", productID),
		zap.String("reason", reason),
		zap.Bool("indeterminate", indeterminate),
		zap.Error(err))

	if s.publisher != nil {
		event := &models.PurchaseFailedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePurchaseFailed,
				Timestamp: time.Now(),
			},
			ProductID:     productID,
			Reason:        err.Error(),
			Indeterminate: indeterminate,
		}
		if pubErr := s.publisher.PublishPurchaseFailed(ctx, event); pubErr != nil {
			s.logger.Error("Failed to publish PurchaseFailed event", zap.Error(pubErr))
		}
	}

	return err
}

func (s *PurchaseService) publishSucceeded(ctx context.Context, transactionID string, req *PurchaseRequest, payinID string, fiatAmount decimal.Decimal) {
	if s.publisher == nil {
		return
	}

	event := &models.PurchaseSucceededEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePurchaseSucceeded,
			Timestamp: time.Now(),
		},
		TransactionID: transactionID,
		ProductID:     req.ProductID,
		PayinID:       payinID,
		AmountUSDC:    req.AmountUSDC.String(),
		FiatAmountCOP: fiatAmount.String(),
	}

	if err := s.publisher.PublishPurchaseSucceeded(ctx, event); err != nil {
		s.logger.Error("Failed to publish PurchaseSucceeded event", zap.Error(err))
	}
}

// classifyFailure maps an orchestration error onto a metrics reason and the
// indeterminate flag for gateway failures whose side effect is unknown.
func classifyFailure(err error) (string, bool) {
	var unavailable *gateway.UnavailableError
	if errors.As(err, &unavailable) {
		return "gateway_unavailable", unavailable.Indeterminate
	}

	var rejected *gateway.RejectedError
	if errors.As(err, &rejected) {
		return "gateway_rejected", false
	}

	var configErr *gateway.ConfigurationError
	if errors.As(err, &configErr) {
		return "configuration", false
	}

	if errors.Is(err, ErrNoAccountAvailable) {
		return "no_account", false
	}

	return "internal", false
}
