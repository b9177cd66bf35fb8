// internal/model/customer.go
package model

// Customer owns its ContactInfos and Orders; children are written and
// deleted together with it.
type Customer struct {
	ID           int           `db:"id"`
	Name         string        `db:"name"`
	Email        string        `db:"email"`
	ContactInfos []ContactInfo `db:"-"`
	Orders       []Order       `db:"-"`
}
