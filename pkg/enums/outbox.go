package enums

import "fmt"

// OutboxAggregateType names the entity a sync event belongs to.
type OutboxAggregateType string

const (
	AggregateTransaction OutboxAggregateType = "transaction"
	AggregateInventory   OutboxAggregateType = "inventory"
	AggregateGoldPrice   OutboxAggregateType = "gold_price"
	AggregateCustomer    OutboxAggregateType = "customer"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateTransaction,
	AggregateInventory,
	AggregateGoldPrice,
	AggregateCustomer,
}

func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType identifies the change a sync event describes.
type OutboxEventType string

const (
	EventTransactionCreated OutboxEventType = "transaction_created"
	EventTransactionPaid    OutboxEventType = "transaction_paid"
	EventTransactionVoided  OutboxEventType = "transaction_voided"
	EventInventoryUpdated   OutboxEventType = "inventory_updated"
	EventGoldPriceUpdated   OutboxEventType = "gold_price_updated"
	EventCustomerUpserted   OutboxEventType = "customer_upserted"
)

var validEventTypes = []OutboxEventType{
	EventTransactionCreated,
	EventTransactionPaid,
	EventTransactionVoided,
	EventInventoryUpdated,
	EventGoldPriceUpdated,
	EventCustomerUpserted,
}

func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}
