package models

import (
	"time"

	"github.com/chris/fair-wallet/pkg/money"
)

// Role identifies what kind of identity an Account is.
type Role string

const (
	RoleStudent Role = "student"
	RoleStall   Role = "stall"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleStall
}

// Account is a student or stall identity. Only student accounts carry a balance.
type Account struct {
	ID             string        `json:"id" dynamodbav:"id"`
	Name           string        `json:"name" dynamodbav:"name"`
	Role           Role          `json:"role" dynamodbav:"role"`
	Balance        *money.Amount `json:"balance,omitempty" dynamodbav:"balance,omitempty"`
	OpeningBalance *money.Amount `json:"-" dynamodbav:"opening_balance,omitempty"`
	Version        int64         `json:"version" dynamodbav:"version"`
	CreatedAt      time.Time     `json:"created_at" dynamodbav:"created_at"`
}

// IsStudent reports whether the account holds a balance.
func (a *Account) IsStudent() bool { return a.Role == RoleStudent }

// IsStall reports whether the account is a stall.
func (a *Account) IsStall() bool { return a.Role == RoleStall }

// CurrentBalance returns the balance, or zero for accounts without one.
func (a *Account) CurrentBalance() money.Amount {
	if a.Balance == nil {
		return money.Zero
	}
	return *a.Balance
}

// Product is an item on a stall's menu. Products are immutable once created.
type Product struct {
	ID        string       `json:"id" dynamodbav:"id"`
	StallID   string       `json:"stall_id" dynamodbav:"stall_id"`
	Name      string       `json:"name" dynamodbav:"name"`
	Price     money.Amount `json:"price" dynamodbav:"price"`
	CreatedAt time.Time    `json:"created_at" dynamodbav:"created_at"`
}

// TransactionLogPK is the constant partition key of the global transaction log index.
const TransactionLogPK = "TRANSACTIONS"

// Transaction is the immutable record of one completed purchase.
type Transaction struct {
	ID          string       `json:"id" dynamodbav:"id"`
	StudentID   string       `json:"student_id" dynamodbav:"student_id"`
	StudentName string       `json:"student_name" dynamodbav:"student_name"`
	StallID     string       `json:"stall_id" dynamodbav:"stall_id"`
	StallName   string       `json:"stall_name" dynamodbav:"stall_name"`
	ProductID   string       `json:"product_id" dynamodbav:"product_id"`
	ProductName string       `json:"product_name" dynamodbav:"product_name"`
	Quantity    int64        `json:"quantity" dynamodbav:"quantity"`
	TotalAmount money.Amount `json:"total_amount" dynamodbav:"total_amount"`
	Timestamp   time.Time    `json:"timestamp" dynamodbav:"timestamp"`
	// Seq is Timestamp in Unix nanoseconds; the range key of the history indexes.
	Seq    int64  `json:"-" dynamodbav:"seq"`
	GSI1PK string `json:"-" dynamodbav:"gsi1pk"`
}

// PurchaseIntent is what the ledger asks the store to commit in one atomic unit.
// It deliberately carries no balance: the store re-reads it.
type PurchaseIntent struct {
	TransactionID string
	StudentID     string
	StallID       string
	ProductID     string
	ProductName   string
	Quantity      int64
	TotalAmount   money.Amount
}

// Recharge is the immutable record of one balance top-up.
type Recharge struct {
	ID        string       `json:"id" dynamodbav:"id"`
	StudentID string       `json:"student_id" dynamodbav:"student_id"`
	Amount    money.Amount `json:"amount" dynamodbav:"amount"`
	Timestamp time.Time    `json:"timestamp" dynamodbav:"timestamp"`
}
