package storage

// Storage defines the root interface for the entire data layer.
// Components should depend on the narrower interfaces below.
type Storage interface {
	AccountStore
	ProductStore
	TransactionReader
	PurchaseStore
	RechargeStore
}

// ApiStore is the read/provisioning surface the HTTP handlers need.
type ApiStore interface {
	AccountStore
	ProductStore
	TransactionReader
}
