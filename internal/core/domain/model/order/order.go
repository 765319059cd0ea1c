package order

import (
	"errors"
	"time"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through the NewOrder factory method.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrVersionIsRequired is returned when an order is constructed with a
	// non-positive version. Every mutation against the store needs the
	// entity's current version, so an order without one is unusable.
	ErrVersionIsRequired = errs.NewValueIsRequiredError("version")
)

// Order is the client-side projection of a platform order. The commerce
// platform remains the system of record: this type carries exactly what the
// fulfillment core needs to decide and issue transitions — the identity, the
// optimistic-concurrency version read together with it, the state reference,
// and the display payload the boards render.
//
// Invariants:
//   - Must have a valid unique identifier and a positive version
//   - The version must match the store's current version at mutation time,
//     or the mutation is rejected with a VersionConflict
//   - Stage changes are requested through the transition engine only; the
//     struct itself never mutates its state reference
type Order struct {
	// id is the opaque, stable platform identifier
	id kernel.UUID

	// orderNumber is the human-facing number; sequential-looking but not
	// guaranteed unique across stores
	orderNumber string

	// version is the optimistic-concurrency token read from the store
	version int64

	// stateID references the pipeline state definition; zero if the order
	// has no state reference
	stateID kernel.UUID

	// orderState is the platform's coarse status ("Open", "Complete", ...)
	orderState string

	// details is the display payload (addresses, items, prices)
	details Details

	isConstructed bool
}

// Details is the display payload carried alongside the fulfillment fields.
// It has no invariants of its own; fields mirror what the platform returns.
type Details struct {
	Method          string
	DriverID        *kernel.UUID
	CustomerEmail   string
	CreatedAt       time.Time
	LastModifiedAt  time.Time
	ShippingAddress Address
	LineItems       []LineItem
	TotalPrice      Money
	TaxedPrice      *Money
}

// Address is a shipping destination as the platform stores it.
type Address struct {
	FirstName    string
	LastName     string
	StreetName   string
	StreetNumber string
	Apartment    string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// LineItem is one ordered product with its topping composition.
type LineItem struct {
	ID          string
	Name        string
	Quantity    int
	Ingredients []string
	UnitPrice   Money
	TotalPrice  Money
}

// Money is a platform money value: an amount in cents plus a currency code.
type Money struct {
	CentAmount   int64
	CurrencyCode string
}

// NewOrder creates an Order projection from the fields every store read
// returns. stateID may be zero when the platform order carries no state
// reference; callers resolve it against the catalog and treat a miss as
// an unknown stage.
func NewOrder(id kernel.UUID, orderNumber string, version int64, stateID kernel.UUID, orderState string) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if version <= 0 {
		return nil, ErrVersionIsRequired
	}

	return &Order{
		id:            id,
		orderNumber:   orderNumber,
		version:       version,
		stateID:       stateID,
		orderState:    orderState,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// SetDetails attaches the display payload. Separate from construction because
// partial reads (the transition path) never need it.
func (o *Order) SetDetails(details Details) {
	o.details = details
}

// ID returns the order's platform identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-facing order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// Version returns the optimistic-concurrency token read from the store.
func (o *Order) Version() int64 {
	return o.version
}

// StateID returns the referenced state definition id; zero when the order has
// no state reference.
func (o *Order) StateID() kernel.UUID {
	return o.stateID
}

// OrderState returns the platform's coarse order status.
func (o *Order) OrderState() string {
	return o.orderState
}

// Details returns the display payload attached via SetDetails.
func (o *Order) Details() Details {
	return o.details
}

// Method returns the fulfillment method tag (e.g. "delivery").
func (o *Order) Method() string {
	return o.details.Method
}

// DriverID returns the assigned driver reference, nil when unassigned. The
// reference survives delivery: it is the audit trail of who ran the order.
func (o *Order) DriverID() *kernel.UUID {
	return o.details.DriverID
}

// IsEqual compares two orders by their platform identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}
