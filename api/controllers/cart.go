package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/pricing"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

type deliveryReader interface {
	Delivery(ctx context.Context) (pricing.Delivery, error)
}

type productLookup interface {
	GetPurchasable(ctx context.Context, id uint) (*models.Product, error)
}

type addCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Qty       int  `json:"qty" validate:"required,min=1,max=999"`
}

type setCartItemRequest struct {
	Qty *int `json:"qty" validate:"required,max=999"`
}

type cartLineResponse struct {
	ProductID uint        `json:"product_id"`
	Name      string      `json:"name"`
	Image     string      `json:"image,omitempty"`
	UnitPrice money.Money `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	LineTotal money.Money `json:"line_total"`
}

type cartResponse struct {
	Items        []cartLineResponse `json:"items"`
	Quote        pricing.Quote      `json:"quote"`
	FreeDelivery bool               `json:"free_delivery"`
	Delivery     pricing.Delivery   `json:"delivery"`
}

func newCartResponse(c *cart.Cart, delivery pricing.Delivery) cartResponse {
	snapshot := c.Snapshot()
	quote := pricing.QuoteEntries(snapshot, delivery)
	out := cartResponse{
		Items:        make([]cartLineResponse, 0, len(snapshot)),
		Quote:        quote,
		FreeDelivery: !c.IsEmpty() && quote.FreeDelivery(),
		Delivery:     delivery,
	}
	for _, entry := range snapshot {
		out.Items = append(out.Items, cartLineResponse{
			ProductID: entry.ProductID,
			Name:      entry.Name,
			Image:     entry.ImageRef,
			UnitPrice: entry.UnitPrice,
			Quantity:  entry.Quantity,
			LineTotal: entry.LineTotal(),
		})
	}
	return out
}

// CartFetch returns the visitor's cart with a fresh quote.
func CartFetch(store cart.Store, settings deliveryReader, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(store, settings, logg, func(r *http.Request, c *cart.Cart) error {
		return nil
	})
}

// CartAddItem snapshots a purchasable product into the cart.
func CartAddItem(store cart.Store, products productLookup, settings deliveryReader, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(store, settings, logg, func(r *http.Request, c *cart.Cart) error {
		if products == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
		}
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return err
		}
		product, err := products.GetPurchasable(r.Context(), payload.ProductID)
		if err != nil {
			return err
		}
		return c.Add(product.ID, product.Name, pricing.EffectivePrice(*product), product.Image, payload.Qty)
	})
}

// CartSetItem replaces an entry's quantity; zero or less removes it.
func CartSetItem(store cart.Store, settings deliveryReader, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(store, settings, logg, func(r *http.Request, c *cart.Cart) error {
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			return err
		}
		var payload setCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return err
		}
		return c.SetQuantity(productID, *payload.Qty)
	})
}

// CartRemoveItem drops an entry. Removing an absent product is not an error.
func CartRemoveItem(store cart.Store, settings deliveryReader, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(store, settings, logg, func(r *http.Request, c *cart.Cart) error {
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			return err
		}
		c.Remove(productID)
		return nil
	})
}

// CartClear empties the cart.
func CartClear(store cart.Store, settings deliveryReader, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(store, settings, logg, func(r *http.Request, c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// cartHandler loads the session cart, applies mutate, persists it when it
// changed and answers with the cart view.
func cartHandler(store cart.Store, settings deliveryReader, logg *logger.Logger, mutate func(*http.Request, *cart.Cart) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || settings == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.Load(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := mutate(r, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := cart.SaveIfDirty(r.Context(), store, sessionID, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := settings.Delivery(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(c, delivery))
	}
}

func sessionIDFromRequest(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	return sessionID, nil
}
