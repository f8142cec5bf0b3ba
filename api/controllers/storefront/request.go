package storefront

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	cartsvc "github.com/slicehaven/storefront-backend/internal/cart"
	pkgerrors "github.com/slicehaven/storefront-backend/pkg/errors"
	"github.com/slicehaven/storefront-backend/pkg/types"
)

// SubmitCartRequest is the cart submission body. The client serializes its
// working cart into the cart_data string, so the outer body stays stable even
// as the line shape evolves.
type SubmitCartRequest struct {
	CartData  string `json:"cart_data" validate:"required"`
	OrderType string `json:"order_type" validate:"omitempty,oneof=delivery pickup"`
	Nonce     string `json:"nonce" validate:"required"`
}

// CheckoutRequest finalizes the active cart into an order.
type CheckoutRequest struct {
	Nonce string `json:"nonce" validate:"required"`
}

// cartLinePayload mirrors the client line shape. Clients send richer objects;
// only the fields named here survive ingestion.
type cartLinePayload struct {
	ProductID      int64            `json:"productId"`
	Quantity       int              `json:"quantity"`
	FinalPrice     *decimal.Decimal `json:"finalPrice"`
	Customizations json.RawMessage  `json:"customizations"`
}

func decodeCartData(raw string) ([]cartsvc.LineRequest, error) {
	var payload []cartLinePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed cart payload")
	}
	// JSON null decodes into a nil slice without error; only an actual
	// sequence is an acceptable cart.
	if payload == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed cart payload")
	}

	lines := make([]cartsvc.LineRequest, 0, len(payload))
	for _, item := range payload {
		line := cartsvc.LineRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.FinalPrice != nil {
			line.FinalPrice = decimal.NullDecimal{Decimal: *item.FinalPrice, Valid: true}
		}
		selection, err := types.DecodeCustomizations(item.Customizations)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed cart payload")
		}
		line.Customizations = selection
		lines = append(lines, line)
	}
	return lines, nil
}
