package cart

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

// MaxQuantity caps the units of one product held in a cart.
const MaxQuantity = 999

var (
	// ErrInvalidQuantity is returned by Add for a non-positive quantity.
	ErrInvalidQuantity = pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	// ErrQuantityLimit is returned when an entry would exceed MaxQuantity.
	ErrQuantityLimit = pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must not exceed %d", MaxQuantity))
)

// Entry is a snapshot of a product taken when it was first added.
// Quantity is always >= 1 while the entry lives in a Cart.
type Entry struct {
	ProductID uint
	Name      string
	ImageRef  string
	UnitPrice money.Money
	Quantity  int
}

// LineTotal is UnitPrice x Quantity.
func (e Entry) LineTotal() money.Money {
	return e.UnitPrice.MulInt(e.Quantity)
}

// Cart is a visitor's pending selection. It is a plain value owned by one
// request at a time; persistence goes through a Store.
type Cart struct {
	entries map[uint]Entry
	dirty   bool
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{entries: map[uint]Entry{}}
}

// Add puts qty units of a product in the cart. An existing entry keeps its
// original snapshot and accumulates quantity.
func (c *Cart) Add(productID uint, name string, unitPrice money.Money, imageRef string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	c.ensure()
	if existing, ok := c.entries[productID]; ok {
		if qty > MaxQuantity-existing.Quantity {
			return ErrQuantityLimit
		}
		existing.Quantity += qty
		c.entries[productID] = existing
	} else {
		if qty > MaxQuantity {
			return ErrQuantityLimit
		}
		c.entries[productID] = Entry{
			ProductID: productID,
			Name:      name,
			ImageRef:  imageRef,
			UnitPrice: unitPrice,
			Quantity:  qty,
		}
	}
	c.dirty = true
	return nil
}

// SetQuantity replaces the quantity of an existing entry. A non-positive qty
// removes it. Unknown products are ignored.
func (c *Cart) SetQuantity(productID uint, qty int) error {
	if qty > MaxQuantity {
		return ErrQuantityLimit
	}
	existing, ok := c.entries[productID]
	if !ok {
		return nil
	}
	if qty <= 0 {
		delete(c.entries, productID)
	} else {
		existing.Quantity = qty
		c.entries[productID] = existing
	}
	c.dirty = true
	return nil
}

// Remove drops an entry. Removing an absent product is a no-op.
func (c *Cart) Remove(productID uint) {
	if _, ok := c.entries[productID]; !ok {
		return
	}
	delete(c.entries, productID)
	c.dirty = true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.entries = map[uint]Entry{}
	c.dirty = true
}

// Snapshot returns a copy of the entries ordered by product id.
func (c *Cart) Snapshot() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Get returns the entry for productID.
func (c *Cart) Get(productID uint) (Entry, bool) {
	entry, ok := c.entries[productID]
	return entry, ok
}

// Len is the number of distinct products.
func (c *Cart) Len() int { return len(c.entries) }

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool { return len(c.entries) == 0 }

// Dirty reports whether the cart changed since it was loaded or saved.
func (c *Cart) Dirty() bool { return c.dirty }

// MarkClean is called by stores after a successful save.
func (c *Cart) MarkClean() { c.dirty = false }

func (c *Cart) ensure() {
	if c.entries == nil {
		c.entries = map[uint]Entry{}
	}
}

type storedEntry struct {
	Name  string      `json:"name"`
	Price money.Money `json:"price"`
	Image string      `json:"image"`
	Qty   int         `json:"qty"`
}

type storedCart struct {
	Items map[string]storedEntry `json:"items"`
}

// MarshalJSON writes the session shape {"items":{"<id>":{name,price,image,qty}}}.
// Map keys are sorted by encoding/json so equal carts encode identically.
func (c *Cart) MarshalJSON() ([]byte, error) {
	payload := storedCart{Items: make(map[string]storedEntry, len(c.entries))}
	for id, entry := range c.entries {
		payload.Items[strconv.FormatUint(uint64(id), 10)] = storedEntry{
			Name:  entry.Name,
			Price: entry.UnitPrice,
			Image: entry.ImageRef,
			Qty:   entry.Quantity,
		}
	}
	return json.Marshal(payload)
}

// UnmarshalJSON reads the session shape. Entries with a quantity outside
// 1..MaxQuantity or a malformed id are dropped.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var payload storedCart
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}
	c.entries = make(map[uint]Entry, len(payload.Items))
	for key, item := range payload.Items {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil || id == 0 || item.Qty <= 0 || item.Qty > MaxQuantity {
			continue
		}
		c.entries[uint(id)] = Entry{
			ProductID: uint(id),
			Name:      item.Name,
			ImageRef:  item.Image,
			UnitPrice: item.Price,
			Quantity:  item.Qty,
		}
	}
	c.dirty = false
	return nil
}
