package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSale     TransactionType = "sale"
	TransactionPurchase TransactionType = "purchase"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type ContactType string

const (
	ContactCustomer ContactType = "customer"
	ContactSupplier ContactType = "supplier"
	ContactBoth     ContactType = "both"
)

type ContainerType string

const (
	ContainerSingle ContainerType = "single"
	ContainerMixed  ContainerType = "mixed"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodUPI          PaymentMethod = "upi"
	MethodCheque       PaymentMethod = "cheque"
	MethodOther        PaymentMethod = "other"
)

type Product struct {
	ID                   int64            `json:"id"`
	Name                 string           `json:"name"`
	Size                 string           `json:"size"`
	Packing              string           `json:"packing"`
	DefaultSalePrice     *decimal.Decimal `json:"default_sale_price,omitempty"`
	DefaultPurchasePrice *decimal.Decimal `json:"default_purchase_price,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

type Container struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Type      ContainerType `json:"type"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ContainerStock is the running quantity of one product inside one container.
type ContainerStock struct {
	ContainerID int64  `json:"container_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
}

type Contact struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Phone     *string         `json:"phone,omitempty"`
	Address   *string         `json:"address,omitempty"`
	GSTIN     *string         `json:"gstin,omitempty"`
	Type      ContactType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Transaction struct {
	ID                int64           `json:"id"`
	TransactionNumber string          `json:"transaction_number"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Type              TransactionType `json:"type"`
	ContactID         int64           `json:"contact_id"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         *time.Time      `json:"deleted_at,omitempty"`
}

type TransactionItem struct {
	ID            int64           `json:"id"`
	TransactionID int64           `json:"transaction_id"`
	ProductID     int64           `json:"product_id"`
	ContainerID   *int64          `json:"container_id,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

type Payment struct {
	ID              int64           `json:"id"`
	TransactionID   int64           `json:"transaction_id"`
	PaymentDate     time.Time       `json:"payment_date"`
	Amount          decimal.Decimal `json:"amount"`
	Method          PaymentMethod   `json:"payment_method"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type InventoryLog struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ContainerID int64     `json:"container_id"`
	Quantity    int       `json:"quantity"`
	Action      string    `json:"action"`
	Note        *string   `json:"note,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

const (
	ActionSale     = "sale"
	ActionPurchase = "purchase"
	ActionReversal = "reversal"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type CompanySettings struct {
	CompanyName        string    `json:"company_name"`
	SellerName         *string   `json:"seller_name,omitempty"`
	SellerPhone        *string   `json:"seller_phone,omitempty"`
	SellerEmail        *string   `json:"seller_email,omitempty"`
	GSTIN              *string   `json:"gstin,omitempty"`
	AddressLine1       *string   `json:"address_line1,omitempty"`
	AddressLine2       *string   `json:"address_line2,omitempty"`
	AddressLine3       *string   `json:"address_line3,omitempty"`
	TermsAndConditions *string   `json:"terms_and_conditions,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TransactionRow is a list-view transaction joined with its counterparty name.
type TransactionRow struct {
	Transaction
	ContactName string `json:"contact_name"`
}

type TransactionItemRow struct {
	TransactionItem
	ProductName   string  `json:"product_name"`
	ContainerName *string `json:"container_name,omitempty"`
}

// TransactionDetail is the full composed view of one posted transaction.
type TransactionDetail struct {
	Transaction
	ContactName string               `json:"contact_name"`
	Items       []TransactionItemRow `json:"items"`
	Payments    []Payment            `json:"payments"`
}

// TransactionDraft carries a fully validated, fully computed posting into the
// store. The store assigns the transaction number and identifiers.
type TransactionDraft struct {
	Type            TransactionType
	TransactionDate time.Time
	ContactID       int64
	Items           []ItemInput
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	PaymentStatus   PaymentStatus
	Notes           *string
	InitialPayment  *PaymentDraft
}

type ItemInput struct {
	ProductID   int64
	ContainerID *int64
	Quantity    int
	UnitPrice   decimal.Decimal
}

type PaymentDraft struct {
	PaymentDate     time.Time
	Amount          decimal.Decimal
	Method          PaymentMethod
	ReferenceNumber *string
	Notes           *string
}

type TransactionSummary struct {
	SaleCount       int             `json:"sale_count"`
	PurchaseCount   int             `json:"purchase_count"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
}

// OutstandingRow is one unpaid or partially paid transaction with its balance due.
type OutstandingRow struct {
	TransactionRow
	BalanceDue decimal.Decimal `json:"balance_due"`
}

type DashboardSnapshot struct {
	ProductCount       int              `json:"product_count"`
	ContainerCount     int              `json:"container_count"`
	ContactCount       int              `json:"contact_count"`
	TotalStock         int              `json:"total_stock"`
	TotalIncome        decimal.Decimal  `json:"total_income"`
	TotalExpenses      decimal.Decimal  `json:"total_expenses"`
	NetCashflow        decimal.Decimal  `json:"net_cashflow"`
	RecentTransactions []TransactionRow `json:"recent_transactions"`
}
