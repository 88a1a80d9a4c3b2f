package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

type adminOrderService interface {
	Get(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filters orders.ListFilters, params pagination.Params) (*orders.OrderList, error)
	Update(ctx context.Context, id uint, input orders.AdminUpdateInput) (*models.Order, error)
	Delete(ctx context.Context, id uint) error
}

type adminOrderUpdateRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"tracking_number" validate:"omitempty,max=100"`
	AdminNotes     *string `json:"admin_notes" validate:"omitempty,max=4000"`
}

func (r adminOrderUpdateRequest) toInput() (orders.AdminUpdateInput, error) {
	input := orders.AdminUpdateInput{
		TrackingNumber: r.TrackingNumber,
		AdminNotes:     r.AdminNotes,
	}
	if r.Status != nil {
		status, err := enums.ParseOrderStatus(strings.TrimSpace(*r.Status))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
				WithDetails(map[string]any{"allowed": enums.OrderStatuses()})
		}
		input.Status = &status
	}
	if input.Status == nil && input.TrackingNumber == nil && input.AdminNotes == nil {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "no changes requested")
	}
	return input, nil
}

const maxOrderSearchLength = 100

// AdminOrderList returns orders newest first, filtered by status and a
// free-text query over number, customer name and email.
func AdminOrderList(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := r.URL.Query()
		filters := orders.ListFilters{Query: validators.ParseQueryText(r, "q", maxOrderSearchLength)}
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(query.Get("cursor")),
		}

		list, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminOrderDetail returns one order including admin notes.
func AdminOrderDetail(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDTO(order, true))
	}
}

// AdminOrderUpdate edits status, tracking number and admin notes.
func AdminOrderUpdate(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminOrderUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDTO(order, true))
	}
}

// AdminOrderDelete removes an order and its items.
func AdminOrderDelete(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
