// internal/dto/customer_dto.go
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/unclebandit/acme-customers-backend/internal/model"
)

// Amount is a decimal that encodes as a bare JSON number. Decoding accepts
// both numbers and quoted strings.
type Amount struct {
	decimal.Decimal
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// CustomerDTO is the wire shape of a customer.
type CustomerDTO struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	ContactInfos []ContactInfoDTO `json:"contactInfos"`
	Orders       []OrderDTO       `json:"orders"`
}

type ContactInfoDTO struct {
	ID         int    `json:"id"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	CustomerID int    `json:"customerId"`
}

type OrderDTO struct {
	ID          int       `json:"id"`
	OrderDate   time.Time `json:"orderDate"`
	TotalAmount Amount    `json:"totalAmount"`
	CustomerID  int       `json:"customerId"`
}

// FromModel copies a persisted customer into its wire shape.
// Nil child collections become empty slices so they encode as [].
func FromModel(c *model.Customer) CustomerDTO {
	out := CustomerDTO{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		ContactInfos: make([]ContactInfoDTO, 0, len(c.ContactInfos)),
		Orders:       make([]OrderDTO, 0, len(c.Orders)),
	}
	for _, ci := range c.ContactInfos {
		out.ContactInfos = append(out.ContactInfos, ContactInfoDTO{
			ID:         ci.ID,
			Phone:      ci.Phone,
			Address:    ci.Address,
			CustomerID: ci.CustomerID,
		})
	}
	for _, o := range c.Orders {
		out.Orders = append(out.Orders, OrderDTO{
			ID:          o.ID,
			OrderDate:   o.OrderDate,
			TotalAmount: Amount{Decimal: o.TotalAmount},
			CustomerID:  o.CustomerID,
		})
	}
	return out
}

// FromModels maps a slice of customers, preserving order.
func FromModels(customers []model.Customer) []CustomerDTO {
	out := make([]CustomerDTO, 0, len(customers))
	for i := range customers {
		out = append(out, FromModel(&customers[i]))
	}
	return out
}

// ToModel copies a wire customer into the persistence shape.
func (d CustomerDTO) ToModel() *model.Customer {
	c := &model.Customer{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		ContactInfos: make([]model.ContactInfo, 0, len(d.ContactInfos)),
		Orders:       make([]model.Order, 0, len(d.Orders)),
	}
	for _, ci := range d.ContactInfos {
		c.ContactInfos = append(c.ContactInfos, model.ContactInfo{
			ID:         ci.ID,
			CustomerID: ci.CustomerID,
			Phone:      ci.Phone,
			Address:    ci.Address,
		})
	}
	for _, o := range d.Orders {
		c.Orders = append(c.Orders, model.Order{
			ID:          o.ID,
			CustomerID:  o.CustomerID,
			OrderDate:   o.OrderDate,
			TotalAmount: o.TotalAmount.Decimal,
		})
	}
	return c
}
