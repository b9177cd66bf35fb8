package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	appErrors "github.com/unclebandit/acme-customers-backend/internal/errors"
	"github.com/unclebandit/acme-customers-backend/internal/model"
)

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	ListAll(ctx context.Context) ([]model.Customer, error)
	GetByID(ctx context.Context, id int) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id int) (bool, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sql.DB
}

// ListAll fetches every customer with contact infos and orders loaded.
func (r *CustomerRepository) ListAll(ctx context.Context) ([]model.Customer, error) {
	query := `
        SELECT id, name, email
        FROM customers
        ORDER BY id
    `
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c := model.Customer{
			ContactInfos: []model.ContactInfo{},
			Orders:       []model.Order{},
		}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, r.DB, customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetByID fetches a customer by ID with children; nil, nil when absent.
func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	query := `
        SELECT id, name, email
        FROM customers
        WHERE id = $1
    `
	c := model.Customer{
		ContactInfos: []model.ContactInfo{},
		Orders:       []model.Order{},
	}
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}

	customers := []model.Customer{c}
	if err := r.loadChildren(ctx, r.DB, customers); err != nil {
		return nil, err
	}
	return &customers[0], nil
}

// Create inserts the customer and its children in one transaction. Incoming
// ids are ignored; the assigned ids are written back into c.
func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO customers (name, email)
        VALUES ($1, $2)
        RETURNING id
    `
	if err := tx.QueryRowContext(ctx, query, c.Name, c.Email).Scan(&c.ID); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	if err := insertChildren(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

// Update replaces the customer row and its child collections.
func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE customers SET name=$1, email=$2 WHERE id=$3`, c.Name, c.Email, c.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewCustomerNotFound(c.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM contact_infos WHERE customer_id=$1`, c.ID); err != nil {
		return fmt.Errorf("clear contact infos: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE customer_id=$1`, c.ID); err != nil {
		return fmt.Errorf("clear orders: %w", err)
	}

	if err := insertChildren(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the customer; contact infos and orders go with it through
// ON DELETE CASCADE. The bool reports whether a row existed.
func (r *CustomerRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func insertChildren(ctx context.Context, q querier, c *model.Customer) error {
	for i := range c.ContactInfos {
		ci := &c.ContactInfos[i]
		ci.CustomerID = c.ID
		query := `
            INSERT INTO contact_infos (customer_id, phone, address)
            VALUES ($1, $2, $3)
            RETURNING id
        `
		if err := q.QueryRowContext(ctx, query, ci.CustomerID, ci.Phone, ci.Address).Scan(&ci.ID); err != nil {
			return fmt.Errorf("insert contact info: %w", err)
		}
	}

	for i := range c.Orders {
		o := &c.Orders[i]
		o.CustomerID = c.ID
		query := `
            INSERT INTO orders (customer_id, order_date, total_amount)
            VALUES ($1, $2, $3)
            RETURNING id
        `
		if err := q.QueryRowContext(ctx, query, o.CustomerID, o.OrderDate, o.TotalAmount).Scan(&o.ID); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
	}
	return nil
}

// loadChildren eager-loads contact infos and orders for all customers with
// one query per child table.
func (r *CustomerRepository) loadChildren(ctx context.Context, q querier, customers []model.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	ids := make([]int64, len(customers))
	index := make(map[int]int, len(customers))
	for i, c := range customers {
		ids[i] = int64(c.ID)
		index[c.ID] = i
	}

	contactRows, err := q.QueryContext(ctx, `
        SELECT id, customer_id, phone, address
        FROM contact_infos
        WHERE customer_id = ANY($1)
        ORDER BY id
    `, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load contact infos: %w", err)
	}
	defer contactRows.Close()

	for contactRows.Next() {
		var ci model.ContactInfo
		if err := contactRows.Scan(&ci.ID, &ci.CustomerID, &ci.Phone, &ci.Address); err != nil {
			return err
		}
		if i, ok := index[ci.CustomerID]; ok {
			customers[i].ContactInfos = append(customers[i].ContactInfos, ci)
		}
	}
	if err := contactRows.Err(); err != nil {
		return err
	}

	orderRows, err := q.QueryContext(ctx, `
        SELECT id, customer_id, order_date, total_amount
        FROM orders
        WHERE customer_id = ANY($1)
        ORDER BY id
    `, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	defer orderRows.Close()

	for orderRows.Next() {
		var o model.Order
		if err := orderRows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.TotalAmount); err != nil {
			return err
		}
		if i, ok := index[o.CustomerID]; ok {
			customers[i].Orders = append(customers[i].Orders, o)
		}
	}
	return orderRows.Err()
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
