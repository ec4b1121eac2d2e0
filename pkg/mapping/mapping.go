package mapping

import (
	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/identity"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/provisioning"
	"github.com/chris/fair-wallet/pkg/reporting"
)

// ToApiAccount converts a domain Account model to an API Account model.
// Stalls carry no balance field.
func ToApiAccount(account *models.Account) *api.Account {
	out := &api.Account{
		Id:        account.ID,
		Name:      account.Name,
		Role:      api.AccountRole(account.Role),
		Version:   account.Version,
		CreatedAt: account.CreatedAt,
	}
	if account.IsStudent() {
		balance := account.CurrentBalance().String()
		out.Balance = &balance
	}
	return out
}

// ToApiAccounts converts a list of domain accounts.
func ToApiAccounts(accounts []models.Account) []*api.Account {
	out := make([]*api.Account, len(accounts))
	for i := range accounts {
		out[i] = ToApiAccount(&accounts[i])
	}
	return out
}

// ToApiPresentation converts an identity Presentation to its API model.
func ToApiPresentation(p identity.Presentation) api.Presentation {
	return api.Presentation{
		Kind:        api.AccountRole(p.Kind),
		Id:          p.ID,
		DisplayName: p.DisplayName,
		Url:         p.URL,
	}
}

// ToApiProvisioned converts a freshly provisioned account.
func ToApiProvisioned(p *provisioning.Provisioned) *api.ProvisionedAccount {
	return &api.ProvisionedAccount{
		Account:      *ToApiAccount(p.Account),
		Presentation: ToApiPresentation(p.Presentation),
	}
}

// ToApiProduct converts a domain Product model to an API Product model.
func ToApiProduct(product *models.Product) *api.Product {
	return &api.Product{
		Id:        product.ID,
		StallId:   product.StallID,
		Name:      product.Name,
		Price:     product.Price.String(),
		CreatedAt: product.CreatedAt,
	}
}

// ToApiProducts converts a list of domain products.
func ToApiProducts(products []models.Product) []api.Product {
	out := make([]api.Product, len(products))
	for i := range products {
		out[i] = *ToApiProduct(&products[i])
	}
	return out
}

// ToApiMenus converts stall menus.
func ToApiMenus(menus []reporting.Menu) []api.Menu {
	out := make([]api.Menu, len(menus))
	for i, m := range menus {
		out[i] = api.Menu{
			StallId:   m.StallID,
			StallName: m.StallName,
			Products:  ToApiProducts(m.Products),
		}
	}
	return out
}

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:          tx.ID,
		StudentId:   tx.StudentID,
		StudentName: tx.StudentName,
		StallId:     tx.StallID,
		StallName:   tx.StallName,
		ProductId:   tx.ProductID,
		ProductName: tx.ProductName,
		Quantity:    tx.Quantity,
		TotalAmount: tx.TotalAmount.String(),
		Timestamp:   tx.Timestamp,
	}
}

// ToApiTransactions converts a list of domain transactions, keeping their order.
func ToApiTransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = ToApiTransaction(&txs[i])
	}
	return out
}

// ToApiSalesReport builds the sales report from per-stall totals.
func ToApiSalesReport(sales []reporting.StallSales) *api.SalesReport {
	report := &api.SalesReport{
		Stalls:     make([]api.StallSales, len(sales)),
		GrandTotal: reporting.GrandTotal(sales).String(),
	}
	for i, s := range sales {
		report.Stalls[i] = api.StallSales{
			StallName:    s.StallName,
			Total:        s.Total.String(),
			Transactions: s.Transactions,
			Units:        s.Units,
		}
		report.TransactionCount += s.Transactions
	}
	return report
}
