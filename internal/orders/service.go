package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/slicehaven/storefront-backend/internal/cart"
	"github.com/slicehaven/storefront-backend/internal/pricing"
	"github.com/slicehaven/storefront-backend/internal/session"
	"github.com/slicehaven/storefront-backend/internal/shipping"
	"github.com/slicehaven/storefront-backend/pkg/db/models"
	"github.com/slicehaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/slicehaven/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	WithTx(tx *gorm.DB) cart.Repository
	FindActiveBySession(ctx context.Context, sessionID string) (*models.CartRecord, error)
}

type sessionState interface {
	Fulfillment(ctx context.Context, sessionID string) (enums.FulfillmentType, error)
	ShippingMethod(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
}

// Service converts the session cart into an immutable order.
type Service interface {
	Finalize(ctx context.Context, sessionID string, pass *session.CalcPass) (*models.Order, error)
}

type service struct {
	repo     Repository
	carts    cartStore
	tx       txRunner
	sessions sessionState
	recalc   *pricing.Recalculator
}

// NewService builds the order finalization service.
func NewService(
	repo Repository,
	carts cartStore,
	tx txRunner,
	sessions sessionState,
	recalc *pricing.Recalculator,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session state required")
	}
	if recalc == nil {
		return nil, fmt.Errorf("recalculator required")
	}
	return &service{
		repo:     repo,
		carts:    carts,
		tx:       tx,
		sessions: sessions,
		recalc:   recalc,
	}, nil
}

// Finalize prices the active cart one last time, snapshots every line with
// its projected customization metadata, writes the order, and marks the cart
// converted. Order creation and cart conversion commit together.
func (s *service) Finalize(ctx context.Context, sessionID string, pass *session.CalcPass) (*models.Order, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if pass == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "recalculation pass is required")
	}

	record, err := s.carts.FindActiveBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(record.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
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
		if parsed, perr := shipping.ParseMethodID(chosenRaw); perr == nil {
			chosen = &parsed
		}
	}

	state := &pricing.State{}
	s.recalc.Apply(pass, state, record.Lines, chosen)

	order := s.buildOrder(sessionID, fulfillment, chosenRaw, state)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.carts.WithTx(tx).MarkConverted(ctx, record.ID)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	// Checkout state is stale once the cart converts. The order is already
	// committed, so a failed cleanup only leaves values to expire with the TTL.
	_ = s.sessions.Clear(ctx, sessionID)

	return order, nil
}

func (s *service) buildOrder(sessionID string, fulfillment enums.FulfillmentType, chosenRaw string, state *pricing.State) *models.Order {
	feeTotal := state.Total().Sub(state.Subtotal)

	order := &models.Order{
		SessionID:   sessionID,
		Fulfillment: fulfillment,
		Subtotal:    state.Subtotal,
		FeeTotal:    feeTotal,
		Total:       state.Total(),
		Status:      enums.OrderStatusPending,
	}
	if chosenRaw != "" {
		order.ShippingMethod = &chosenRaw
	}

	order.LineItems = make([]models.OrderLineItem, 0, len(state.Lines))
	for _, priced := range state.Lines {
		item := models.OrderLineItem{
			ProductID: priced.Line.ProductID,
			Name:      priced.Line.ProductName,
			Quantity:  priced.Line.Quantity,
			UnitPrice: priced.UnitPrice,
			LineTotal: priced.LineTotal,
		}
		for _, entry := range ProjectLineMetadata(priced.Line.Customizations) {
			item.Meta = append(item.Meta, models.OrderLineItemMeta{
				Key:   entry.Key,
				Value: entry.Value,
			})
		}
		order.LineItems = append(order.LineItems, item)
	}
	return order
}
