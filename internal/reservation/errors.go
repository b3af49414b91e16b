package reservation

import (
	"errors"
	"fmt"

	"github.com/jeysi05/pickle-jar-courts/internal/pricing"
)

var (
	ErrNotFound          = errors.New("reservation not found")
	ErrCourtNotFound     = errors.New("court not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotBooked         = errors.New("reservation is not approved")
	ErrSlotTaken         = errors.New("slot already reserved")
	ErrInvalidContact    = fmt.Errorf("%w: invalid customer contact", pricing.ErrInvalidInput)
	ErrInvalidName       = fmt.Errorf("%w: customer name is required", pricing.ErrInvalidInput)
	// ErrExternalWrite means the store failed and some or all rows did not save.
	ErrExternalWrite = errors.New("booking did not save")
)
