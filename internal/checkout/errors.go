package checkout

import pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"

var (
	// ErrEmptyCart is returned before any side effect when there is nothing to order.
	ErrEmptyCart = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	// ErrOrderNumberExhausted means every attempt collided with an existing order number.
	ErrOrderNumberExhausted = pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique order number")
	// ErrQuoteMismatch means the quote was computed for a different cart.
	ErrQuoteMismatch = pkgerrors.New(pkgerrors.CodeValidation, "quote does not match cart contents")
)
