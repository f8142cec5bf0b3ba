package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slicehaven/storefront-backend/internal/catalog"
	"github.com/slicehaven/storefront-backend/internal/pricing"
	"github.com/slicehaven/storefront-backend/internal/session"
	"github.com/slicehaven/storefront-backend/internal/shipping"
	"github.com/slicehaven/storefront-backend/pkg/db/models"
	"github.com/slicehaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/slicehaven/storefront-backend/pkg/errors"
	"github.com/slicehaven/storefront-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	WithTx(tx *gorm.DB) catalog.Repository
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

type sessionState interface {
	SetFulfillment(ctx context.Context, sessionID string, choice enums.FulfillmentType) error
	Fulfillment(ctx context.Context, sessionID string) (enums.FulfillmentType, error)
	SetShippingMethod(ctx context.Context, sessionID, methodID string) error
	ShippingMethod(ctx context.Context, sessionID string) (string, error)
}

// Service rebuilds and prices the session cart from client submissions.
type Service interface {
	Reconcile(ctx context.Context, sessionID string, input ReconcileInput) (*Summary, error)
	Quote(ctx context.Context, sessionID string, pass *session.CalcPass, input QuoteInput) (*QuoteResult, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	products    productLoader
	sessions    sessionState
	rates       shipping.Source
	recalc      *pricing.Recalculator
	checkoutURL string
	maxLines    int
}

// NewService builds a cart service backed by the provided stack.
func NewService(
	repo Repository,
	tx txRunner,
	products productLoader,
	sessions sessionState,
	rates shipping.Source,
	recalc *pricing.Recalculator,
	checkoutURL string,
	maxLines int,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session state required")
	}
	if rates == nil {
		return nil, fmt.Errorf("rate source required")
	}
	if recalc == nil {
		return nil, fmt.Errorf("recalculator required")
	}
	if maxLines <= 0 {
		maxLines = 100
	}
	return &service{
		repo:        repo,
		tx:          tx,
		products:    products,
		sessions:    sessions,
		rates:       rates,
		recalc:      recalc,
		checkoutURL: checkoutURL,
		maxLines:    maxLines,
	}, nil
}

// LineRequest is one client-submitted cart line.
type LineRequest struct {
	ProductID      int64
	Quantity       int
	FinalPrice     decimal.NullDecimal
	Customizations types.CustomizationSelection
}

// ReconcileInput captures one full cart submission.
type ReconcileInput struct {
	Lines       []LineRequest
	Fulfillment enums.FulfillmentType
}

// Summary reports the rebuilt cart and where to send the client next.
type Summary struct {
	CartID      uuid.UUID
	LineCount   int
	RedirectURL string
}

// Reconcile rebuilds the authoritative cart from the submitted lines. The
// fulfillment choice is recorded first with overwrite semantics, existing
// lines are cleared unconditionally, and each valid line is inserted with its
// price and customization metadata attached. Lines with a non-positive
// product id or quantity are skipped silently; a failed catalog resolution
// aborts the submission and rolls the whole rebuild back.
func (s *service) Reconcile(ctx context.Context, sessionID string, input ReconcileInput) (*Summary, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if len(input.Lines) > s.maxLines {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many cart lines")
	}

	fulfillment := input.Fulfillment
	if fulfillment == "" {
		fulfillment = enums.FulfillmentDelivery
	}
	if !fulfillment.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}

	for _, line := range input.Lines {
		if line.FinalPrice.Valid && line.FinalPrice.Decimal.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "final price cannot be negative")
		}
	}

	if err := s.sessions.SetFulfillment(ctx, sessionID, fulfillment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store not available")
	}

	var summary *Summary
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txProducts := s.products.WithTx(tx)

		record, err := txRepo.FindActiveBySession(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			record, err = txRepo.Create(ctx, &models.CartRecord{SessionID: sessionID})
			if err != nil {
				return err
			}
		}

		lines, err := s.buildLines(ctx, txProducts, input.Lines)
		if err != nil {
			return err
		}

		if err := txRepo.ReplaceLines(ctx, record.ID, lines); err != nil {
			return err
		}

		summary = &Summary{
			CartID:      record.ID,
			LineCount:   len(lines),
			RedirectURL: s.checkoutURL,
		}
		return nil
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}

	return summary, nil
}

func (s *service) buildLines(ctx context.Context, products catalog.Repository, requests []LineRequest) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0, len(requests))
	for _, req := range requests {
		if req.ProductID <= 0 || req.Quantity <= 0 {
			continue
		}

		product, err := products.FindByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeDependency,
					fmt.Sprintf("error adding items to cart: product %d not found", req.ProductID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "error adding items to cart")
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeDependency,
				fmt.Sprintf("error adding items to cart: product %d is not available", req.ProductID))
		}

		line := models.CartLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   product.BasePrice,
			FinalPrice:  req.FinalPrice,
		}
		if !req.Customizations.IsEmpty() {
			selection := req.Customizations
			line.Customizations = &selection
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// QuoteInput tunes one recalculation pass.
type QuoteInput struct {
	// ShippingMethod optionally records a newly chosen shipping method before
	// the pass runs. Empty leaves the session's current choice untouched.
	ShippingMethod string
}

// QuoteResult is the outcome of one logical recalculation pass.
type QuoteResult struct {
	CartID       uuid.UUID
	Fulfillment  enums.FulfillmentType
	Lines        []pricing.PricedLine
	Subtotal     decimal.Decimal
	Fees         []pricing.Fee
	Total        decimal.Decimal
	Rates        []shipping.Rate
	ChosenMethod string
}

// Quote runs one logical recalculation: re-applies the stored price
// overrides, evaluates the conditional delivery fee, and narrows the shipping
// rate candidates to those consistent with the session's fulfillment choice.
// The caller owns the pass; invoking Quote steps through the same pass more
// than once leaves the state unchanged.
func (s *service) Quote(ctx context.Context, sessionID string, pass *session.CalcPass, input QuoteInput) (*QuoteResult, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if pass == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "recalculation pass is required")
	}

	if input.ShippingMethod != "" {
		if _, err := shipping.ParseMethodID(input.ShippingMethod); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method")
		}
		if err := s.sessions.SetShippingMethod(ctx, sessionID, input.ShippingMethod); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store not available")
		}
	}

	record, err := s.repo.FindActiveBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	fulfillment, err := s.sessions.Fulfillment(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store not available")
	}

	chosenRaw, err := s.sessions.ShippingMethod(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store not available")
	}
	var chosen *shipping.MethodID
	if chosenRaw != "" {
		parsed, err := shipping.ParseMethodID(chosenRaw)
		if err == nil {
			chosen = &parsed
		}
	}

	state := &pricing.State{}
	s.recalc.Apply(pass, state, record.Lines, chosen)

	candidates, err := s.rates.CandidateRates(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping rates")
	}

	return &QuoteResult{
		CartID:       record.ID,
		Fulfillment:  fulfillment,
		Lines:        state.Lines,
		Subtotal:     state.Subtotal,
		Fees:         state.Fees,
		Total:        state.Total(),
		Rates:        shipping.FilterRates(candidates, fulfillment),
		ChosenMethod: chosenRaw,
	}, nil
}
