package entry

import "errors"

var (
	ErrEntryNotFound    = errors.New("credit entry not found")
	ErrCustomerNotFound = errors.New("customer not found")
)
