package payments

import "strings"

// LineItemSpec is either a reference to an existing provider price or an
// inline product definition. Build it with NewPriceLineItem or
// NewInlineLineItem; the zero value is not valid.
type LineItemSpec struct {
	priceID string

	name        string
	description string
	unitAmount  int64
	currency    string

	quantity int64
}

// NewPriceLineItem references a price already configured at the provider.
func NewPriceLineItem(priceID string, quantity int64) (LineItemSpec, error) {
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return LineItemSpec{}, invalid("Missing required parameter: price_id")
	}
	q, err := normalizeQuantity(quantity)
	if err != nil {
		return LineItemSpec{}, err
	}
	return LineItemSpec{priceID: priceID, quantity: q}, nil
}

// NewInlineLineItem synthesizes a one-off product with a unit amount in paise.
func NewInlineLineItem(name, description string, unitAmount, quantity int64) (LineItemSpec, error) {
	name = strings.TrimSpace(name)
	if name == "" || unitAmount <= 0 {
		return LineItemSpec{}, invalid("Missing required parameters: either price_id or name and amount are required")
	}
	q, err := normalizeQuantity(quantity)
	if err != nil {
		return LineItemSpec{}, err
	}
	return LineItemSpec{
		name:        name,
		description: strings.TrimSpace(description),
		unitAmount:  unitAmount,
		currency:    Currency,
		quantity:    q,
	}, nil
}

// quantity 0 means "not given" and becomes 1.
func normalizeQuantity(q int64) (int64, error) {
	switch {
	case q == 0:
		return 1, nil
	case q < 0:
		return 0, invalid("quantity must be positive")
	default:
		return q, nil
	}
}

func (li LineItemSpec) IsPrice() bool { return li.priceID != "" }

func (li LineItemSpec) PriceID() string { return li.priceID }

func (li LineItemSpec) Name() string { return li.name }

func (li LineItemSpec) Description() string { return li.description }

func (li LineItemSpec) UnitAmount() int64 { return li.unitAmount }

func (li LineItemSpec) Currency() string { return li.currency }

func (li LineItemSpec) Quantity() int64 { return li.quantity }

func (li LineItemSpec) valid() bool {
	return li.quantity > 0 && (li.priceID != "" || (li.name != "" && li.unitAmount > 0))
}
