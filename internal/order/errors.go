package order

import (
	"errors"
	"fmt"
)

var (
	ErrVariantNotFound = errors.New("variant not found")
	ErrAddressRequired = errors.New("delivery address required")
)

// OutOfStockError reports the first variant whose stock cannot cover the
// requested quantity.
type OutOfStockError struct {
	VariantID string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("variant %s is out of stock", e.VariantID)
}
