package billing

import (
	"fmt"
	"time"
)

const billNumberPrefix = "BILL"

// NewBillNumber formats BILL-YYYYMMDD-NNN from the bill date and the
// sequence of that day's bills, starting at 1.
func NewBillNumber(now time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", billNumberPrefix, now.Format("20060102"), seq)
}

// BillNumberPrefixFor is the prefix shared by every bill issued on now's date.
func BillNumberPrefixFor(now time.Time) string {
	return fmt.Sprintf("%s-%s-", billNumberPrefix, now.Format("20060102"))
}
