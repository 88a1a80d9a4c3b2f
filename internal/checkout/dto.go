package checkout

import (
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// CustomerInfo is the contact and shipping data captured at checkout.
type CustomerInfo struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
	Notes      string
}

func (c CustomerInfo) normalized() CustomerInfo {
	return CustomerInfo{
		Name:       strings.TrimSpace(c.Name),
		Email:      strings.TrimSpace(c.Email),
		Phone:      strings.TrimSpace(c.Phone),
		Address:    strings.TrimSpace(c.Address),
		City:       strings.TrimSpace(c.City),
		PostalCode: strings.TrimSpace(c.PostalCode),
		Country:    strings.TrimSpace(c.Country),
		Notes:      strings.TrimSpace(c.Notes),
	}
}

func (c CustomerInfo) validate() error {
	missing := []string{}
	required := []struct {
		field string
		value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"address", c.Address},
		{"city", c.City},
		{"postal_code", c.PostalCode},
		{"country", c.Country},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer details incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}
