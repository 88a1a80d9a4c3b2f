package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type deleter interface {
	Delete(ctx context.Context, id uint) error
}

// AdminProductDelete deletes a product. Order items keep their snapshot and
// lose the product reference.
func AdminProductDelete(svc deleter, logg *logger.Logger) http.HandlerFunc {
	return adminDelete(svc, "productId", "product service unavailable", logg)
}

// AdminCategoryDelete deletes a category and unassigns its products.
func AdminCategoryDelete(svc deleter, logg *logger.Logger) http.HandlerFunc {
	return adminDelete(svc, "categoryId", "category service unavailable", logg)
}

func adminDelete(svc deleter, param, unavailable string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, unavailable))
			return
		}
		id, err := validators.ParseIDParam(r, param)
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
