package storefront

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/slicehaven/storefront-backend/internal/assets"
	cartsvc "github.com/slicehaven/storefront-backend/internal/cart"
	"github.com/slicehaven/storefront-backend/internal/orders"
	"github.com/slicehaven/storefront-backend/internal/pricing"
	"github.com/slicehaven/storefront-backend/internal/shipping"
	"github.com/slicehaven/storefront-backend/pkg/db/models"
	"github.com/slicehaven/storefront-backend/pkg/enums"
)

// MenuResponse is the mount payload for the storefront page: the active
// catalog, the session identity, and the hashed bundle to load.
type MenuResponse struct {
	SessionID   string         `json:"sessionId"`
	Nonce       string         `json:"nonce"`
	Products    []ProductView  `json:"products"`
	Bundle      *assets.Bundle `json:"bundle,omitempty"`
	CheckoutURL string         `json:"checkoutUrl"`
	AccountURL  string         `json:"accountUrl"`
}

type ProductView struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

func newProductViews(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, ProductView{
			ID:       product.ID,
			Name:     product.Name,
			Category: product.Category,
			Price:    product.BasePrice,
		})
	}
	return views
}

// SubmitCartResponse reports the rebuilt cart.
type SubmitCartResponse struct {
	CartID      uuid.UUID `json:"cartId"`
	LineCount   int       `json:"lineCount"`
	RedirectURL string    `json:"redirectUrl"`
}

func newSubmitCartResponse(summary *cartsvc.Summary) SubmitCartResponse {
	return SubmitCartResponse{
		CartID:      summary.CartID,
		LineCount:   summary.LineCount,
		RedirectURL: summary.RedirectURL,
	}
}

// QuoteResponse is one priced view of the active cart.
type QuoteResponse struct {
	CartID       uuid.UUID             `json:"cartId"`
	Fulfillment  enums.FulfillmentType `json:"fulfillment"`
	Lines        []QuoteLineView       `json:"lines"`
	Subtotal     decimal.Decimal       `json:"subtotal"`
	Fees         []pricing.Fee         `json:"fees"`
	Total        decimal.Decimal       `json:"total"`
	Rates        []RateView            `json:"rates"`
	ChosenMethod string                `json:"chosenMethod,omitempty"`
}

type QuoteLineView struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Meta      []MetaView      `json:"meta,omitempty"`
}

type MetaView struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type RateView struct {
	Method string          `json:"method"`
	Label  string          `json:"label"`
	Cost   decimal.Decimal `json:"cost"`
}

func newQuoteResponse(result *cartsvc.QuoteResult) QuoteResponse {
	view := QuoteResponse{
		CartID:       result.CartID,
		Fulfillment:  result.Fulfillment,
		Lines:        make([]QuoteLineView, 0, len(result.Lines)),
		Subtotal:     result.Subtotal,
		Fees:         result.Fees,
		Total:        result.Total,
		Rates:        make([]RateView, 0, len(result.Rates)),
		ChosenMethod: result.ChosenMethod,
	}
	if view.Fees == nil {
		view.Fees = []pricing.Fee{}
	}
	for _, priced := range result.Lines {
		line := QuoteLineView{
			ProductID: priced.Line.ProductID,
			Name:      priced.Line.ProductName,
			Quantity:  priced.Line.Quantity,
			UnitPrice: priced.UnitPrice,
			LineTotal: priced.LineTotal,
		}
		for _, entry := range orders.ProjectLineMetadata(priced.Line.Customizations) {
			line.Meta = append(line.Meta, MetaView{Key: entry.Key, Value: entry.Value})
		}
		view.Lines = append(view.Lines, line)
	}
	for _, rate := range result.Rates {
		view.Rates = append(view.Rates, newRateView(rate))
	}
	return view
}

func newRateView(rate shipping.Rate) RateView {
	return RateView{
		Method: rate.Method.String(),
		Label:  rate.Label,
		Cost:   rate.Cost,
	}
}

// CheckoutResponse reports the finalized order.
type CheckoutResponse struct {
	OrderID        uuid.UUID             `json:"orderId"`
	Status         enums.OrderStatus     `json:"status"`
	Fulfillment    enums.FulfillmentType `json:"fulfillment"`
	ShippingMethod *string               `json:"shippingMethod,omitempty"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	FeeTotal       decimal.Decimal       `json:"feeTotal"`
	Total          decimal.Decimal       `json:"total"`
}

func newCheckoutResponse(order *models.Order) CheckoutResponse {
	return CheckoutResponse{
		OrderID:        order.ID,
		Status:         order.Status,
		Fulfillment:    order.Fulfillment,
		ShippingMethod: order.ShippingMethod,
		Subtotal:       order.Subtotal,
		FeeTotal:       order.FeeTotal,
		Total:          order.Total,
	}
}
