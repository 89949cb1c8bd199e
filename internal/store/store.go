package store

import (
	"fmt"

	"memorize/internal/stack"
)

var (
	// ErrStoreClosed is returned when a closed store is used.
	ErrStoreClosed = fmt.Errorf("store is closed")

	// ErrInvalidTransaction is returned when a transaction fails to begin or commit.
	ErrInvalidTransaction = fmt.Errorf("invalid transaction")
)

// Store persists the stacks of each window. A window's state is one record
// list per stack, in stack order.
type Store interface {
	Load(window string) ([][]stack.Record, error)
	Save(window string, stacks [][]stack.Record) error
	Windows() ([]string, error)
	Close() error
}
