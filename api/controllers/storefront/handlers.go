package storefront

import (
	"net/http"
	"time"

	"github.com/slicehaven/storefront-backend/api/middleware"
	"github.com/slicehaven/storefront-backend/api/responses"
	"github.com/slicehaven/storefront-backend/api/validators"
	"github.com/slicehaven/storefront-backend/internal/assets"
	cartsvc "github.com/slicehaven/storefront-backend/internal/cart"
	"github.com/slicehaven/storefront-backend/internal/catalog"
	ordersvc "github.com/slicehaven/storefront-backend/internal/orders"
	"github.com/slicehaven/storefront-backend/internal/session"
	"github.com/slicehaven/storefront-backend/pkg/config"
	"github.com/slicehaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/slicehaven/storefront-backend/pkg/errors"
	"github.com/slicehaven/storefront-backend/pkg/logger"
	"github.com/slicehaven/storefront-backend/pkg/metrics"
	"github.com/slicehaven/storefront-backend/pkg/security"
)

const sessionHeader = "X-Storefront-Session"

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Menu serves the storefront mount payload: the active catalog, a session id
// (minting one for first-time visitors), a nonce bound to that session, and
// the hashed asset bundle.
func Menu(
	products catalog.Repository,
	issuer *security.NonceIssuer,
	resolver *assets.Resolver,
	cfg *config.Config,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil || issuer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		ctx := r.Context()

		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			sessionID = session.NewSessionID()
		}
		w.Header().Set(sessionHeader, sessionID)

		nonce, err := issuer.Issue(sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue nonce"))
			return
		}

		active, err := products.ListActive(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu"))
			return
		}

		payload := MenuResponse{
			SessionID:   sessionID,
			Nonce:       nonce,
			Products:    newProductViews(active),
			CheckoutURL: cfg.Checkout.CheckoutURL,
			AccountURL:  cfg.Assets.AccountURL,
		}

		if resolver != nil {
			bundle, err := resolver.Resolve()
			if err != nil {
				// The menu still mounts without the bundle; the page falls
				// back to its server-rendered shell.
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "manifest_error", err.Error()), "asset bundle unresolved")
				}
			} else {
				payload.Bundle = bundle
				checkoutMetrics.IncAssetRegistration()
			}
		}

		responses.WriteSuccess(w, payload)
	}
}

// SubmitCart ingests one full cart submission. The nonce is verified before
// any state changes; a forged or stale token leaves the cart untouched.
func SubmitCart(
	svc cartsvc.Service,
	issuer *security.NonceIssuer,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || issuer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ctx := r.Context()

		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			checkoutMetrics.IncSubmission(outcomeRejected)
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}

		var payload SubmitCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			checkoutMetrics.IncSubmission(outcomeRejected)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := issuer.Verify(payload.Nonce, sessionID); err != nil {
			checkoutMetrics.IncSubmission(outcomeRejected)
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid nonce"))
			return
		}

		lines, err := decodeCartData(payload.CartData)
		if err != nil {
			checkoutMetrics.IncSubmission(outcomeRejected)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		fulfillment, err := enums.ParseFulfillmentType(payload.OrderType)
		if err != nil {
			checkoutMetrics.IncSubmission(outcomeRejected)
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
			return
		}

		summary, err := svc.Reconcile(ctx, sessionID, cartsvc.ReconcileInput{
			Lines:       lines,
			Fulfillment: fulfillment,
		})
		if err != nil {
			checkoutMetrics.IncSubmission(outcomeFailed)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		checkoutMetrics.IncSubmission(outcomeAccepted)
		if logg != nil {
			logg.Info(logg.WithCartID(ctx, summary.CartID.String()), "cart.reconciled")
		}
		responses.WriteSuccess(w, newSubmitCartResponse(summary))
	}
}

// Quote prices the active cart: overrides applied, conditional fee evaluated,
// and rate candidates filtered for the session's fulfillment. Each request is
// one logical pass.
func Quote(
	svc cartsvc.Service,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ctx := r.Context()

		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}

		pass := session.NewCalcPass()
		start := time.Now()
		result, err := svc.Quote(ctx, sessionID, pass, cartsvc.QuoteInput{
			ShippingMethod: validators.SanitizeString(r.URL.Query().Get("shipping_method"), 64),
		})
		checkoutMetrics.ObserveRecalculation(time.Since(start))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		for range result.Fees {
			checkoutMetrics.IncFeeApplied()
		}

		responses.WriteSuccess(w, newQuoteResponse(result))
	}
}

// Checkout finalizes the active cart into an order. Like SubmitCart, the
// nonce gates all mutation.
func Checkout(
	svc ordersvc.Service,
	issuer *security.NonceIssuer,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || issuer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		ctx := r.Context()

		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}

		var payload CheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := issuer.Verify(payload.Nonce, sessionID); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid nonce"))
			return
		}

		pass := session.NewCalcPass()
		start := time.Now()
		order, err := svc.Finalize(ctx, sessionID, pass)
		checkoutMetrics.ObserveRecalculation(time.Since(start))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithField(ctx, "order_id", order.ID.String()), "order.finalized")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(order))
	}
}
