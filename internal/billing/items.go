package billing

import (
	"fmt"
	"strconv"
	"strings"

	"billgen/pkg/models"
)

// ItemField names an editable line item field. Amount is derived and never edited.
type ItemField string

const (
	FieldName     ItemField = "name"
	FieldQuantity ItemField = "quantity"
	FieldRate     ItemField = "rate"
)

// ParseItemField accepts the field names used on the command line.
func ParseItemField(s string) (ItemField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return FieldName, nil
	case "quantity", "qty":
		return FieldQuantity, nil
	case "rate", "price":
		return FieldRate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}

// NewLineItem builds an item whose amount matches quantity × rate.
func NewLineItem(name string, quantity int, rate models.Money) models.LineItem {
	item := models.LineItem{Name: name, Quantity: quantity, UnitRate: rate}
	item.Amount = lineAmount(item)
	return item
}

// BlankLineItem is the row added by "add item": one unit at zero rate.
func BlankLineItem() models.LineItem {
	return NewLineItem("", 1, 0)
}

func lineAmount(item models.LineItem) models.Money {
	return models.Money(int64(item.Quantity) * int64(item.UnitRate))
}

// UpdateItem applies a single field edit and returns a new snapshot.
// Quantity and rate edits recompute the amount; cfg itself is not modified.
func UpdateItem(cfg models.BillConfiguration, index int, field ItemField, value string) (models.BillConfiguration, error) {
	if index < 0 || index >= len(cfg.Items) {
		return cfg, fmt.Errorf("%w: %d (have %d items)", ErrItemIndex, index, len(cfg.Items))
	}

	next := cfg.Clone()
	item := next.Items[index]

	switch field {
	case FieldName:
		item.Name = value
	case FieldQuantity:
		qty, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return cfg, NewValidationError("quantity", value, "must be a whole number")
		}
		if qty < 0 {
			return cfg, NewValidationError("quantity", value, "must not be negative")
		}
		item.Quantity = qty
	case FieldRate:
		rate, err := models.ParseMoney(value)
		if err != nil {
			return cfg, NewValidationError("rate", value, "must be a number")
		}
		if rate < 0 {
			return cfg, NewValidationError("rate", value, "must not be negative")
		}
		item.UnitRate = rate
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	item.Amount = lineAmount(item)
	next.Items[index] = item
	return next, nil
}

// AddItem returns a new snapshot with item appended.
func AddItem(cfg models.BillConfiguration, item models.LineItem) models.BillConfiguration {
	next := cfg.Clone()
	item.Amount = lineAmount(item)
	next.Items = append(next.Items, item)
	return next
}

// RemoveItem returns a new snapshot without the item at index.
func RemoveItem(cfg models.BillConfiguration, index int) (models.BillConfiguration, error) {
	if index < 0 || index >= len(cfg.Items) {
		return cfg, fmt.Errorf("%w: %d (have %d items)", ErrItemIndex, index, len(cfg.Items))
	}
	if len(cfg.Items) <= 1 {
		return cfg, ErrLastItem
	}

	next := cfg.Clone()
	next.Items = append(next.Items[:index], next.Items[index+1:]...)
	return next, nil
}

// Totals sums the line amounts. There is no tax or discount, so gross equals the subtotal.
func Totals(items []models.LineItem) (subTotal, grossAmount models.Money) {
	for _, item := range items {
		subTotal += item.Amount
	}
	return subTotal, subTotal
}
