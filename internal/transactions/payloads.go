package transactions

import (
	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// transactionEventPayload is the data block carried by transaction outbox
// events. The head office consumer only needs the ledger identity and amount;
// it re-reads lines on demand.
type transactionEventPayload struct {
	TransactionID uuid.UUID               `json:"transactionId"`
	InvoiceNo     string                  `json:"invoiceNo"`
	Type          enums.TransactionType   `json:"type"`
	Status        enums.TransactionStatus `json:"status"`
	Total         int64                   `json:"total"`
}
