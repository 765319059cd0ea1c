package driver

import (
	"errors"
	"fmt"
	"strings"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/pkg/errs"
)

var (
	// ErrDriverIsNotConstructed is returned when using an improperly
	// initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

	// ErrNoOrdersToDispatch is returned when a dispatch is attempted with an
	// empty order list. A dispatched driver must have deliveries.
	ErrNoOrdersToDispatch = errs.NewValueIsRequiredError("orderIDs")

	// ErrVersionIsRequired is returned when a driver is constructed with a
	// non-positive store version.
	ErrVersionIsRequired = errs.NewValueIsRequiredError("version")
)

// Driver is the per-driver assignment ledger, backed by a platform customer
// with the "driver" custom type. It carries the shift and dispatch flags plus
// the accumulated list of delivery order references.
//
// Invariants:
//   - dispatched = true implies deliveries is non-empty at the moment it was set
//   - deliveries is append-only: returning a driver never prunes history, old
//     references stay for audit
//   - working is toggled externally (shift management); this core only reads it
type Driver struct {
	// id is the platform customer identifier
	id kernel.UUID

	// version is the optimistic-concurrency token read from the store
	version int64

	firstName string
	lastName  string

	// phone is the raw digits from the "phone" custom field
	phone string

	// working reports whether the driver is on shift
	working bool

	// dispatched reports whether the driver is currently out on deliveries
	dispatched bool

	// deliveries is the ordered, append-only list of order references ever
	// assigned to this driver
	deliveries []kernel.UUID

	isConstructed bool
}

// NewDriver creates a Driver ledger projection from a store read.
func NewDriver(id kernel.UUID, version int64, firstName, lastName string) (*Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if version <= 0 {
		return nil, ErrVersionIsRequired
	}

	return &Driver{
		id:            id,
		version:       version,
		firstName:     firstName,
		lastName:      lastName,
		isConstructed: true,
	}, nil
}

// Validate ensures the Driver was constructed via NewDriver.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// SetStatus attaches the ledger fields read from the customer's custom fields.
func (d *Driver) SetStatus(working, dispatched bool, deliveries []kernel.UUID) {
	d.working = working
	d.dispatched = dispatched
	d.deliveries = deliveries
}

// SetPhone attaches the raw phone digits from the customer's custom fields.
func (d *Driver) SetPhone(phone string) {
	d.phone = phone
}

// ID returns the platform customer identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Version returns the optimistic-concurrency token read from the store.
func (d *Driver) Version() int64 {
	return d.version
}

// FirstName returns the driver's first name with a leading capital.
func (d *Driver) FirstName() string {
	return capitalize(d.firstName)
}

// LastName returns the driver's last name with a leading capital.
func (d *Driver) LastName() string {
	return capitalize(d.lastName)
}

// FullName returns the display name for board views.
func (d *Driver) FullName() string {
	return strings.TrimSpace(d.FirstName() + " " + d.LastName())
}

// Phone returns the phone number formatted as (xxx) xxx-xxxx when it is a
// plain 10-digit number, otherwise the raw value.
func (d *Driver) Phone() string {
	if len(d.phone) == 10 {
		return fmt.Sprintf("(%s) %s-%s", d.phone[:3], d.phone[3:6], d.phone[6:])
	}
	return d.phone
}

// IsWorking reports whether the driver is on shift.
func (d *Driver) IsWorking() bool {
	return d.working
}

// IsDispatched reports whether the driver is currently out on deliveries.
func (d *Driver) IsDispatched() bool {
	return d.dispatched
}

// IsAvailable reports whether the driver can take a dispatch: on shift and
// not already out.
func (d *Driver) IsAvailable() bool {
	return d.working && !d.dispatched
}

// Deliveries returns the accumulated delivery references, every order ever
// assigned across dispatch cycles, not just the current run.
func (d *Driver) Deliveries() []kernel.UUID {
	out := make([]kernel.UUID, len(d.deliveries))
	copy(out, d.deliveries)
	return out
}

// MarkDispatched flips the driver to dispatched and merges the given orders
// into the delivery ledger. Orders already present are not appended again, so
// repeated dispatch cycles do not grow duplicate references. Existing entries
// are always preserved.
func (d *Driver) MarkDispatched(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return ErrNoOrdersToDispatch
	}
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	seen := make(map[kernel.UUID]struct{}, len(d.deliveries))
	for _, id := range d.deliveries {
		seen[id] = struct{}{}
	}
	for _, id := range orderIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		d.deliveries = append(d.deliveries, id)
	}

	d.dispatched = true
	return nil
}

// MarkReturned flips the driver back to not-dispatched. The delivery ledger is
// deliberately left untouched: history is append-only.
func (d *Driver) MarkReturned() {
	d.dispatched = false
}

// capitalize upper-cases the first letter, as the boards display names.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
