package checkout

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Stage names one of the two checkout writes.
type Stage string

const (
	StageCreateTransaction Stage = "create_transaction"
	StageProcessPayment    Stage = "process_payment"
)

// StageError attributes a checkout failure to exactly one stage. When the
// payment stage fails, TransactionID carries the already-created transaction
// so the operator or a reconciliation job can find it.
type StageError struct {
	Stage         Stage
	TransactionID *uuid.UUID
	Err           error
}

func (e *StageError) Error() string {
	if e.TransactionID != nil {
		return fmt.Sprintf("checkout stage %s failed for transaction %s: %v", e.Stage, e.TransactionID, e.Err)
	}
	return fmt.Sprintf("checkout stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// AsStageError extracts a StageError from an error chain.
func AsStageError(err error) (*StageError, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr, true
	}
	return nil, false
}
