// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrIDMismatch is returned when the id in the path and the id in the body disagree.
var ErrIDMismatch = errors.New("customer id in path does not match id in body")

// ErrMissingAPIKey is returned at startup when no expected API key could be
// resolved or the resolved key is blank.
var ErrMissingAPIKey = errors.New("api key is not configured")

// ErrCustomerNotFound is returned when no customer row matches the id
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

// Helper constructor
func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// IsNotFound reports whether err (or anything it wraps) is an ErrCustomerNotFound.
func IsNotFound(err error) bool {
	var nf *ErrCustomerNotFound
	return errors.As(err, &nf)
}
