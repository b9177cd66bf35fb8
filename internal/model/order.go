// internal/model/order.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          int             `db:"id"`
	CustomerID  int             `db:"customer_id"`
	OrderDate   time.Time       `db:"order_date"`
	TotalAmount decimal.Decimal `db:"total_amount"`
}
