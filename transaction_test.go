package mulegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionValidate_RejectsEmptyParties(t *testing.T) {
	assert.Error(t, Transaction{Sender: "", Receiver: "B", Amount: 1}.Validate())
	assert.Error(t, Transaction{Sender: "A", Receiver: "", Amount: 1}.Validate())
}

func TestTransactionValidate_RejectsNonPositiveAmount(t *testing.T) {
	assert.Error(t, Transaction{Sender: "A", Receiver: "B", Amount: 0}.Validate())
	assert.Error(t, Transaction{Sender: "A", Receiver: "B", Amount: -5}.Validate())
}

func TestTransactionValidate_AcceptsValid(t *testing.T) {
	assert.NoError(t, Transaction{Sender: "A", Receiver: "B", Amount: 1}.Validate())
}

func TestValidateTransactions_ReportsOffendingIndex(t *testing.T) {
	txns := []Transaction{
		{Sender: "A", Receiver: "B", Amount: 1},
		{Sender: "A", Receiver: "", Amount: 1},
	}
	err := ValidateTransactions(txns)
	assert.ErrorContains(t, err, "transaction[1]")
}
