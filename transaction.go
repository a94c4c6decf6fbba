package mulegraph

import "fmt"

// Transaction is the unit the parser hands to the engine: a directed,
// timestamped money movement between two accounts. Immutable once created.
type Transaction struct {
	ID        string  `json:"id,omitempty"`
	Sender    string  `json:"sender"`
	Receiver  string  `json:"receiver"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"` // epoch seconds
}

// Validate enforces the basic transaction invariants. The core treats any
// violation as an ErrInputValidation — it never originates inside a detector.
func (t Transaction) Validate() error {
	if t.Sender == "" {
		return fmt.Errorf("%w: empty sender", ErrInputValidation)
	}
	if t.Receiver == "" {
		return fmt.Errorf("%w: empty receiver", ErrInputValidation)
	}
	if t.Amount <= 0 {
		return fmt.Errorf("%w: non-positive amount %v", ErrInputValidation, t.Amount)
	}
	return nil
}

// ValidateTransactions validates an entire sequence, short-circuiting on the
// first offender. The caller (ingest boundary) is expected to have already
// sorted the sequence ascending by (timestamp, sender, receiver); the engine
// does not re-sort.
func ValidateTransactions(txns []Transaction) error {
	for i, t := range txns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction[%d]: %w", i, err)
		}
	}
	return nil
}
