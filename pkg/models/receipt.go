package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Money is an amount in minor currency units (paise), kept integral to avoid float drift.
type Money int64

// MoneyFromFloat converts a rupee value such as 12.5 into minor units.
func MoneyFromFloat(rupees float64) Money {
	return Money(math.Round(rupees * 100))
}

// ParseMoney parses a decimal rupee string ("160", "12.50", "Rs.12.5").
func ParseMoney(s string) (Money, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "Rs.")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return MoneyFromFloat(f), nil
}

// Float returns the amount in rupees.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// String renders the shortest decimal form: 160, 12.5, 12.05.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole, frac := v/100, v%100
	switch {
	case frac == 0:
		return fmt.Sprintf("%s%d", sign, whole)
	case frac%10 == 0:
		return fmt.Sprintf("%s%d.%d", sign, whole, frac/10)
	default:
		return fmt.Sprintf("%s%d.%02d", sign, whole, frac)
	}
}

// Fixed renders the amount with exactly two decimals: 160.00.
func (m Money) Fixed() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// LineItem is one menu entry on a bill. Amount is always Quantity × UnitRate.
type LineItem struct {
	Name     string `json:"name" mapstructure:"name"`
	Quantity int    `json:"quantity" mapstructure:"quantity"`
	UnitRate Money  `json:"rate" mapstructure:"rate"`
	Amount   Money  `json:"amount" mapstructure:"amount"`
}

// BillConfiguration is the full set of inputs for one batch.
type BillConfiguration struct {
	RestaurantName  string
	Address         string
	Phone           string
	StartDate       time.Time
	EndDate         time.Time
	BillsPerDay     int
	TimeWindowStart int // hour of day, inclusive
	TimeWindowEnd   int // hour of day, inclusive
	Items           []LineItem
}

// Clone returns a copy whose Items slice is not shared with c.
func (c BillConfiguration) Clone() BillConfiguration {
	out := c
	out.Items = append([]LineItem(nil), c.Items...)
	return out
}

// Restaurant is the header block printed on every receipt.
type Restaurant struct {
	Name    string
	Address string
	Phone   string
}

// Restaurant returns the header fields of the configuration.
func (c BillConfiguration) Restaurant() Restaurant {
	return Restaurant{Name: c.RestaurantName, Address: c.Address, Phone: c.Phone}
}

// GeneratedReceipt is a single bill produced during a batch. It is never stored.
type GeneratedReceipt struct {
	Restaurant     Restaurant
	SequenceNumber int
	Date           time.Time
	Time           string // HH:MM
	TableNumber    int
	Items          []LineItem
	SubTotal       Money
	GrossAmount    Money
}

// DateLabel formats the receipt date as DD/MM/YYYY.
func (r GeneratedReceipt) DateLabel() string {
	return r.Date.Format("02/01/2006")
}

// FileName returns Bill_<DD-MM-YYYY>_<seq>.<ext>.
func (r GeneratedReceipt) FileName(ext string) string {
	date := strings.ReplaceAll(r.DateLabel(), "/", "-")
	return fmt.Sprintf("Bill_%s_%d.%s", date, r.SequenceNumber, ext)
}
