package billing

import "billgen/pkg/models"

// Validate checks a configuration before any document is produced.
// It returns the first problem found as a *ValidationError.
func Validate(cfg models.BillConfiguration) error {
	if cfg.StartDate.IsZero() {
		return NewValidationError("start_date", cfg.StartDate, "must be set")
	}
	if cfg.EndDate.IsZero() {
		return NewValidationError("end_date", cfg.EndDate, "must be set")
	}
	if cfg.BillsPerDay < 1 {
		return NewValidationError("bills_per_day", cfg.BillsPerDay, "must be at least 1")
	}
	if cfg.TimeWindowStart < 0 || cfg.TimeWindowStart > 23 {
		return NewValidationError("time_start", cfg.TimeWindowStart, "must be an hour between 0 and 23")
	}
	if cfg.TimeWindowEnd < 0 || cfg.TimeWindowEnd > 23 {
		return NewValidationError("time_end", cfg.TimeWindowEnd, "must be an hour between 0 and 23")
	}
	if cfg.TimeWindowStart > cfg.TimeWindowEnd {
		return NewValidationError("time_start", cfg.TimeWindowStart, "must not be after time_end")
	}
	if len(cfg.Items) == 0 {
		return NewValidationError("items", len(cfg.Items), "at least one line item is required")
	}
	for _, item := range cfg.Items {
		if item.Quantity < 0 {
			return NewValidationError("items.quantity", item.Quantity, "must not be negative")
		}
		if item.UnitRate < 0 {
			return NewValidationError("items.rate", item.UnitRate, "must not be negative")
		}
	}
	return nil
}
