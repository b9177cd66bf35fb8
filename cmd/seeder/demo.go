package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unclebandit/acme-customers-backend/internal/model"
)

var demoNames = []string{"John Doe", "Jane Smith", "Amina Odhiambo", "Carlos Ruiz", "Mei Chen"}

// demoCustomers builds count customers, each with one contact info and a
// handful of orders. Output is deterministic so reruns are easy to spot.
func demoCustomers(count int) []model.Customer {
	base := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

	customers := make([]model.Customer, 0, count)
	for i := 0; i < count; i++ {
		name := demoNames[i%len(demoNames)]
		c := model.Customer{
			Name:  name,
			Email: fmt.Sprintf("customer%03d@example.com", i+1),
			ContactInfos: []model.ContactInfo{{
				Phone:   fmt.Sprintf("+1-555-%04d", i+1),
				Address: fmt.Sprintf("%d Main Street", 100+i),
			}},
		}
		for j := 0; j < i%3+1; j++ {
			c.Orders = append(c.Orders, model.Order{
				OrderDate:   base.AddDate(0, 0, i*7+j),
				TotalAmount: decimal.New(int64(1999+i*250+j*100), -2),
			})
		}
		customers = append(customers, c)
	}
	return customers
}
