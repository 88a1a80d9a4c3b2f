package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

type deliverySettings interface {
	Delivery(ctx context.Context) (pricing.Delivery, error)
	UpdateDelivery(ctx context.Context, input pricing.Delivery) (pricing.Delivery, error)
}

type dashboardSource interface {
	Dashboard(ctx context.Context) (*orders.Dashboard, error)
}

type deliveryUpdateRequest struct {
	Cost          *money.Money `json:"delivery_cost" validate:"required"`
	FreeThreshold *money.Money `json:"free_delivery_threshold" validate:"required"`
}

// AdminDeliveryGet returns the delivery cost and free-delivery threshold.
func AdminDeliveryGet(svc deliverySettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		delivery, err := svc.Delivery(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, delivery)
	}
}

// AdminDeliveryUpdate replaces both delivery values.
func AdminDeliveryUpdate(svc deliverySettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var payload deliveryUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		delivery, err := svc.UpdateDelivery(r.Context(), pricing.Delivery{
			Cost:          *payload.Cost,
			FreeThreshold: *payload.FreeThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, delivery)
	}
}

func AdminDashboard(svc dashboardSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
