package funds

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	ErrFundNotFound      = fmt.Errorf("fund: %w", ErrNotFound)
	ErrFundTypeNotFound  = fmt.Errorf("fund type: %w", ErrNotFound)
	ErrFundAlreadyExists = fmt.Errorf("fund already exists: %w", ErrConflict)
)
