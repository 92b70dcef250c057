package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the normalized output of the receipt extraction service.
type Receipt struct {
	Date     time.Time
	Merchant string
	Total    decimal.Decimal
	Items    []ReceiptItem
}

// ReceiptItem is one extracted line.
type ReceiptItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// ToItems converts receipt lines into unassigned split items. A missing
// quantity is read as one.
func (r *Receipt) ToItems() ([]Item, error) {
	if len(r.Items) == 0 {
		return nil, ErrNoItems
	}

	items := make([]Item, 0, len(r.Items))
	for _, line := range r.Items {
		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		item := Item{
			Name:      line.Name,
			UnitPrice: line.Price,
			Quantity:  qty,
		}
		if err := item.Validate(); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// TotalMismatch returns the difference between the extracted total and the
// item sum when it exceeds one cent.
func (r *Receipt) TotalMismatch(items []Item) (decimal.Decimal, bool) {
	if r.Total.IsZero() {
		return decimal.Zero, false
	}
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total())
	}
	diff := r.Total.Sub(sum)
	return diff, diff.Abs().GreaterThan(OneCent)
}

// String describes the receipt for logs.
func (r *Receipt) String() string {
	return fmt.Sprintf("%s %s (%d items, total %s)", r.Merchant, r.Date.Format("2006-01-02"), len(r.Items), r.Total.StringFixed(MoneyScale))
}
