package billing

import (
	"fmt"
	"math/rand/v2"
	"time"

	"billgen/pkg/models"
)

const (
	// SequenceBase is added to every bill number.
	SequenceBase = 1000

	// MinTableNumber and MaxTableNumber bound the random table assignment.
	MinTableNumber = 1
	MaxTableNumber = 100

	// collisionBillsPerDay is the per-day count from which bill numbers of
	// consecutive days run into each other's range (at 11, day d bill 11 == day d+1 bill 1).
	collisionBillsPerDay = 10
)

// Slot is one (date, bill) position in a batch.
type Slot struct {
	Day            int // zero-based offset from the start date
	BillIndex      int // one-based within the day
	Date           time.Time
	SequenceNumber int
}

// civilDate drops the clock and zone so that day arithmetic is exact.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayCount is the inclusive number of days between start and end.
// A reversed range yields the same span as the forward one.
func DayCount(start, end time.Time) int {
	diff := civilDate(end).Sub(civilDate(start))
	if diff < 0 {
		diff = -diff
	}
	return int(diff/(24*time.Hour)) + 1
}

// SequenceNumber derives the bill number for a day offset and one-based bill index.
func SequenceNumber(day, billIndex int) int {
	return SequenceBase + (day+1)*10 + billIndex
}

// RandomTime picks a uniform HH:MM with the hour in [startHour, endHour] and minute in [0, 59].
func RandomTime(rng *rand.Rand, startHour, endHour int) string {
	hour := rng.IntN(endHour-startHour+1) + startHour
	minute := rng.IntN(60)
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// RandomTable picks a uniform table number in [MinTableNumber, MaxTableNumber].
func RandomTable(rng *rand.Rand) int {
	return rng.IntN(MaxTableNumber-MinTableNumber+1) + MinTableNumber
}

// TotalBills is dayCount × billsPerDay.
func TotalBills(cfg models.BillConfiguration) int {
	return DayCount(cfg.StartDate, cfg.EndDate) * cfg.BillsPerDay
}

// EachSlot calls fn for every slot of a batch in generation order and stops at
// the first error fn returns. Dates always run forward from StartDate, even
// when EndDate is earlier. Slots are produced one at a time.
func EachSlot(cfg models.BillConfiguration, fn func(Slot) error) error {
	days := DayCount(cfg.StartDate, cfg.EndDate)
	start := civilDate(cfg.StartDate)

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		for bill := 1; bill <= cfg.BillsPerDay; bill++ {
			err := fn(Slot{
				Day:            day,
				BillIndex:      bill,
				Date:           date,
				SequenceNumber: SequenceNumber(day, bill),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// FirstSlot is the first slot of a batch: bill 1 on the start date.
func FirstSlot(cfg models.BillConfiguration) Slot {
	return Slot{
		Day:            0,
		BillIndex:      1,
		Date:           civilDate(cfg.StartDate),
		SequenceNumber: SequenceNumber(0, 1),
	}
}

// Plan collects every slot of a batch in generation order.
func Plan(cfg models.BillConfiguration) []Slot {
	slots := make([]Slot, 0, max(TotalBills(cfg), 0))
	_ = EachSlot(cfg, func(s Slot) error {
		slots = append(slots, s)
		return nil
	})
	return slots
}

// NewReceipt builds the receipt for one slot with a random time and table.
func NewReceipt(cfg models.BillConfiguration, slot Slot, rng *rand.Rand) models.GeneratedReceipt {
	items := append([]models.LineItem(nil), cfg.Items...)
	subTotal, gross := Totals(items)

	return models.GeneratedReceipt{
		Restaurant:     cfg.Restaurant(),
		SequenceNumber: slot.SequenceNumber,
		Date:           slot.Date,
		Time:           RandomTime(rng, cfg.TimeWindowStart, cfg.TimeWindowEnd),
		TableNumber:    RandomTable(rng),
		Items:          items,
		SubTotal:       subTotal,
		GrossAmount:    gross,
	}
}
