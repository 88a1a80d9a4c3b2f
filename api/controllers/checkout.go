package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const maxNotesLength = 2000

type checkoutRunner interface {
	Checkout(ctx context.Context, sessionID string, customer checkout.CustomerInfo) (*models.Order, error)
}

type orderLookup interface {
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
}

// Field presence is checked by the checkout service so every missing field
// is reported together.
type checkoutRequest struct {
	Name       string `json:"name" validate:"max=200"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
	Phone      string `json:"phone" validate:"max=40"`
	Address    string `json:"address" validate:"max=500"`
	City       string `json:"city" validate:"max=120"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"max=120"`
	Notes      string `json:"notes"`
}

func (r checkoutRequest) customer() checkout.CustomerInfo {
	return checkout.CustomerInfo{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		Notes:      validators.SanitizeString(r.Notes, maxNotesLength),
	}
}

// CheckoutCreate turns the session cart into an order.
func CheckoutCreate(svc checkoutRunner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), sessionID, payload.customer())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.NewOrderDTO(order, false))
	}
}

// OrderConfirmation looks an order up by its public number.
func OrderConfirmation(svc orderLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		order, err := svc.GetByNumber(r.Context(), chi.URLParam(r, "orderNumber"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDTO(order, false))
	}
}
