package billing

type Status string

const (
	StatusDraft         Status = "draft"
	StatusPending       Status = "pending"
	StatusPartiallyPaid Status = "partially-paid"
	StatusPaid          Status = "paid"
	StatusOverdue       Status = "overdue"
	StatusCancelled     Status = "cancelled"
	StatusRefunded      Status = "refunded"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPartiallyPaid, StatusPaid,
		StatusOverdue, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// IsFrozen is true for statuses set explicitly by staff; recompute never
// derives a bill out of them.
func (s Status) IsFrozen() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// IsOpen covers bills that can still receive money.
func (s Status) IsOpen() bool {
	switch s {
	case StatusPending, StatusPartiallyPaid, StatusOverdue:
		return true
	}
	return false
}

// OpenStatusStrings lists the statuses the overdue sweep revisits. Drafts
// are not issued yet and stay out of it.
func OpenStatusStrings() []string {
	return []string{
		string(StatusPending),
		string(StatusPartiallyPaid),
		string(StatusOverdue),
	}
}

type Category string

const (
	CategoryConsultation Category = "consultation"
	CategoryProcedure    Category = "procedure"
	CategoryLaboratory   Category = "laboratory"
	CategoryImaging      Category = "imaging"
	CategoryMedication   Category = "medication"
	CategoryRoomCharges  Category = "room-charges"
	CategoryOther        Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryConsultation, CategoryProcedure, CategoryLaboratory,
		CategoryImaging, CategoryMedication, CategoryRoomCharges, CategoryOther:
		return true
	}
	return false
}

type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank-transfer"
	MethodInsurance    Method = "insurance"
	MethodOnline       Method = "online"
	MethodCheque       Method = "cheque"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer,
		MethodInsurance, MethodOnline, MethodCheque:
		return true
	}
	return false
}
