package commercetools

import (
	"encoding/json"
	"time"

	"pizzatools/internal/core/domain/model/driver"
	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/core/domain/model/state"
)

// Custom field names used on platform resources. Casing follows the custom
// type definitions provisioned in the project.
const (
	fieldMethod     = "Method"
	fieldDriver     = "Driver"
	fieldWorking    = "Working"
	fieldDispatched = "Dispatched"
	fieldDeliveries = "Deliveries"
	fieldPhone      = "phone"
)

// driverTypeKey is the custom type marking a customer as a delivery driver.
const driverTypeKey = "driver"

type referenceDTO struct {
	TypeID string `json:"typeId"`
	ID     string `json:"id,omitempty"`
	Key    string `json:"key,omitempty"`
}

type customFieldsDTO struct {
	Type   *typeResourceDTO `json:"type,omitempty"`
	Fields FieldContainer   `json:"fields"`
}

type typeResourceDTO struct {
	ID  string `json:"id,omitempty"`
	Key string `json:"key,omitempty"`

	// Obj carries the expanded type when the query asks for it.
	Obj *struct {
		Key string `json:"key"`
	} `json:"obj,omitempty"`
}

func (t *typeResourceDTO) key() string {
	if t == nil {
		return ""
	}
	if t.Key != "" {
		return t.Key
	}
	if t.Obj != nil {
		return t.Obj.Key
	}
	return ""
}

type moneyDTO struct {
	CentAmount   int64  `json:"centAmount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m moneyDTO) toDomain() order.Money {
	return order.Money{CentAmount: m.CentAmount, CurrencyCode: m.CurrencyCode}
}

type addressDTO struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	StreetName   string `json:"streetName"`
	StreetNumber string `json:"streetNumber"`
	Apartment    string `json:"apartment"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

type attributeDTO struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// label extracts a display string from an attribute value: a plain string, a
// localized string keyed by locale, or an enum {key, label}.
func (a attributeDTO) label() string {
	var plain string
	if err := json.Unmarshal(a.Value, &plain); err == nil {
		return plain
	}

	var enum struct {
		Label json.RawMessage `json:"label"`
	}
	if err := json.Unmarshal(a.Value, &enum); err == nil && enum.Label != nil {
		if err := json.Unmarshal(enum.Label, &plain); err == nil {
			return plain
		}
		var localized map[string]string
		if err := json.Unmarshal(enum.Label, &localized); err == nil {
			if v, ok := localized["en"]; ok {
				return v
			}
			for _, v := range localized {
				return v
			}
		}
		return ""
	}

	var localized map[string]string
	if err := json.Unmarshal(a.Value, &localized); err == nil {
		if v, ok := localized["en"]; ok {
			return v
		}
		for _, v := range localized {
			return v
		}
	}
	return ""
}

type lineItemDTO struct {
	ID       string            `json:"id"`
	Name     map[string]string `json:"name"`
	Quantity int               `json:"quantity"`
	Price    struct {
		Value moneyDTO `json:"value"`
	} `json:"price"`
	TotalPrice moneyDTO `json:"totalPrice"`
	Variant    struct {
		Attributes []attributeDTO `json:"attributes"`
	} `json:"variant"`
}

func (li lineItemDTO) toDomain() order.LineItem {
	name := li.Name["en"]
	if name == "" {
		for _, v := range li.Name {
			name = v
			break
		}
	}

	ingredients := make([]string, 0, len(li.Variant.Attributes))
	for _, attr := range li.Variant.Attributes {
		if label := attr.label(); label != "" {
			ingredients = append(ingredients, label)
		}
	}

	return order.LineItem{
		ID:          li.ID,
		Name:        name,
		Quantity:    li.Quantity,
		Ingredients: ingredients,
		UnitPrice:   li.Price.Value.toDomain(),
		TotalPrice:  li.TotalPrice.toDomain(),
	}
}

type orderDTO struct {
	ID              string           `json:"id"`
	Version         int64            `json:"version"`
	OrderNumber     string           `json:"orderNumber"`
	OrderState      string           `json:"orderState"`
	State           *referenceDTO    `json:"state,omitempty"`
	CustomerEmail   string           `json:"customerEmail"`
	CreatedAt       time.Time        `json:"createdAt"`
	LastModifiedAt  time.Time        `json:"lastModifiedAt"`
	ShippingAddress *addressDTO      `json:"shippingAddress,omitempty"`
	LineItems       []lineItemDTO    `json:"lineItems"`
	TotalPrice      moneyDTO         `json:"totalPrice"`
	TaxedPrice      *struct {
		TotalGross moneyDTO `json:"totalGross"`
	} `json:"taxedPrice,omitempty"`
	Custom *customFieldsDTO `json:"custom,omitempty"`
}

func (dto orderDTO) toDomain() (*order.Order, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	var stateID kernel.UUID
	if dto.State != nil && dto.State.ID != "" {
		stateID, err = kernel.UUIDFromString(dto.State.ID)
		if err != nil {
			return nil, err
		}
	}

	o, err := order.NewOrder(id, dto.OrderNumber, dto.Version, stateID, dto.OrderState)
	if err != nil {
		return nil, err
	}

	details := order.Details{
		CustomerEmail:  dto.CustomerEmail,
		CreatedAt:      dto.CreatedAt,
		LastModifiedAt: dto.LastModifiedAt,
		TotalPrice:     dto.TotalPrice.toDomain(),
	}
	if dto.TaxedPrice != nil {
		gross := dto.TaxedPrice.TotalGross.toDomain()
		details.TaxedPrice = &gross
	}
	if dto.ShippingAddress != nil {
		details.ShippingAddress = order.Address{
			FirstName:    dto.ShippingAddress.FirstName,
			LastName:     dto.ShippingAddress.LastName,
			StreetName:   dto.ShippingAddress.StreetName,
			StreetNumber: dto.ShippingAddress.StreetNumber,
			Apartment:    dto.ShippingAddress.Apartment,
			City:         dto.ShippingAddress.City,
			State:        dto.ShippingAddress.State,
			PostalCode:   dto.ShippingAddress.PostalCode,
			Country:      dto.ShippingAddress.Country,
		}
	}
	for _, li := range dto.LineItems {
		details.LineItems = append(details.LineItems, li.toDomain())
	}
	if dto.Custom != nil {
		details.Method = dto.Custom.Fields.String(fieldMethod)
		if raw := dto.Custom.Fields.String(fieldDriver); raw != "" {
			if driverID, err := kernel.UUIDFromString(raw); err == nil {
				details.DriverID = &driverID
			}
		}
	}

	o.SetDetails(details)
	return o, nil
}

type customerDTO struct {
	ID        string           `json:"id"`
	Version   int64            `json:"version"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Custom    *customFieldsDTO `json:"custom,omitempty"`
}

func (dto customerDTO) toDomain() (*driver.Driver, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	d, err := driver.NewDriver(id, dto.Version, dto.FirstName, dto.LastName)
	if err != nil {
		return nil, err
	}

	if dto.Custom != nil {
		deliveries := make([]kernel.UUID, 0)
		for _, raw := range dto.Custom.Fields.StringSlice(fieldDeliveries) {
			orderID, err := kernel.UUIDFromString(raw)
			if err != nil {
				continue
			}
			deliveries = append(deliveries, orderID)
		}
		d.SetStatus(
			dto.Custom.Fields.Bool(fieldWorking),
			dto.Custom.Fields.Bool(fieldDispatched),
			deliveries,
		)
		d.SetPhone(dto.Custom.Fields.String(fieldPhone))
	}

	return d, nil
}

type stateDTO struct {
	ID      string            `json:"id"`
	Key     string            `json:"key"`
	Type    string            `json:"type"`
	Initial bool              `json:"initial"`
	Name    map[string]string `json:"name"`
}

func (dto stateDTO) toDomain() (state.State, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return state.State{}, err
	}

	name := dto.Name["en"]
	if name == "" {
		for _, v := range dto.Name {
			name = v
			break
		}
	}

	return state.State{
		ID:      id,
		Key:     dto.Key,
		Name:    name,
		Initial: dto.Initial,
	}, nil
}

// pagedDTO is the platform's list envelope.
type pagedDTO[T any] struct {
	Count   int   `json:"count"`
	Total   int64 `json:"total"`
	Results []T   `json:"results"`
}
