package orders

import (
	"github.com/angelmondragon/storefront-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const (
	orderNumberConstraint = "orders_order_number_key"
	orderNumberColumn     = "orders.order_number"
)

var (
	ErrOrderNotFound     = pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	ErrInvalidTransition = pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed")
)

// IsOrderNumberConflict reports whether err is a duplicate order_number
// insert. postgres names the constraint; sqlite names the column.
func IsOrderNumberConflict(err error) bool {
	return db.IsUniqueViolation(err, orderNumberConstraint) || db.IsUniqueViolation(err, orderNumberColumn)
}
