package models

// Export is the outcome of walking a paginated listing for a CSV export.
// Truncated is set when the walk stopped before the last page; Total is the
// backend's match count.
type Export[Row any] struct {
	Rows      []Row
	Total     int
	Truncated bool
}

// UserRow is the flat shape of a user in a CSV export.
type UserRow struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Status      UserStatus `json:"status"`
	KYCVerified bool       `json:"kyc_verified"`
	Balance     *float64   `json:"balance"`
	CreatedAt   string     `json:"created_at"`
}

func NewUserRow(u User) UserRow {
	row := UserRow{
		ID:          u.ID,
		Name:        u.FullName(),
		Email:       u.Email,
		Phone:       u.Phone,
		Status:      u.Status,
		KYCVerified: u.KYCVerified,
		CreatedAt:   u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.Wallet != nil {
		balance := u.Wallet.Balance
		row.Balance = &balance
	}
	return row
}

type TransactionRow struct {
	ID        int               `json:"id"`
	Reference string            `json:"reference"`
	Type      string            `json:"type"`
	Amount    float64           `json:"amount"`
	Fee       float64           `json:"fee"`
	Status    TransactionStatus `json:"status"`
	Sender    string            `json:"sender"`
	Recipient string            `json:"recipient"`
	CreatedAt string            `json:"created_at"`
}

func NewTransactionRow(t Transaction) TransactionRow {
	row := TransactionRow{
		ID:        t.ID,
		Reference: t.Reference,
		Type:      t.Type,
		Amount:    t.Amount,
		Fee:       t.Fee,
		Status:    t.Status,
		CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if t.Sender != nil {
		row.Sender = t.Sender.Name
	}
	if t.Recipient != nil {
		row.Recipient = t.Recipient.Name
	}
	return row
}
