package enums

type TransactionType string

const (
	TransactionTypeSale     TransactionType = "sale"
	TransactionTypeBuyback  TransactionType = "buyback"
	TransactionTypeExchange TransactionType = "exchange"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeBuyback, TransactionTypeExchange:
		return true
	}
	return false
}

// InvoicePrefix returns the code embedded in generated invoice numbers.
func (t TransactionType) InvoicePrefix() string {
	switch t {
	case TransactionTypeSale:
		return "INV"
	case TransactionTypeBuyback:
		return "BUY"
	case TransactionTypeExchange:
		return "EXC"
	}
	return "TRX"
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusVoid      TransactionStatus = "void"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusVoid:
		return true
	}
	return false
}
