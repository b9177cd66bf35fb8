// internal/model/contact_info.go
package model

type ContactInfo struct {
	ID         int    `db:"id"`
	CustomerID int    `db:"customer_id"`
	Phone      string `db:"phone"`
	Address    string `db:"address"`
}
