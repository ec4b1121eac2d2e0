// Package reporting derives read-side views from the transaction log.
package reporting

import (
	"sort"
	"strings"

	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
)

// StallSales is the sales total of one stall.
type StallSales struct {
	StallName    string       `json:"stall_name"`
	Total        money.Amount `json:"total"`
	Transactions int          `json:"transactions"`
	Units        int64        `json:"units"`
}

// SalesByStall sums totalAmount grouped by stall name, sorted by name.
func SalesByStall(txs []models.Transaction) []StallSales {
	byName := make(map[string]*StallSales)
	for _, tx := range txs {
		s, ok := byName[tx.StallName]
		if !ok {
			s = &StallSales{StallName: tx.StallName, Total: money.Zero}
			byName[tx.StallName] = s
		}
		s.Total = s.Total.Add(tx.TotalAmount)
		s.Transactions++
		s.Units += tx.Quantity
	}

	out := make([]StallSales, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StallName < out[j].StallName })
	return out
}

// GrandTotal sums every stall's total.
func GrandTotal(sales []StallSales) money.Amount {
	total := money.Zero
	for _, s := range sales {
		total = total.Add(s.Total)
	}
	return total
}

// Log returns a copy of txs ordered newest first.
func Log(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sortNewestFirst(out)
	return out
}

// StallHistory returns a stall's sales, newest first.
func StallHistory(txs []models.Transaction, stallID string) []models.Transaction {
	return filterNewestFirst(txs, func(tx models.Transaction) bool { return tx.StallID == stallID })
}

// StudentHistory returns a student's purchases, newest first.
func StudentHistory(txs []models.Transaction, studentID string) []models.Transaction {
	return filterNewestFirst(txs, func(tx models.Transaction) bool { return tx.StudentID == studentID })
}

func filterNewestFirst(txs []models.Transaction, keep func(models.Transaction) bool) []models.Transaction {
	var out []models.Transaction
	for _, tx := range txs {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	sortNewestFirst(out)
	return out
}

// newer orders by timestamp, then by id so equal timestamps sort deterministically.
func newer(a, b models.Transaction) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID > b.ID
}

func sortNewestFirst(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return newer(txs[i], txs[j]) })
}

// Menu is one stall and the products it sells.
type Menu struct {
	StallID   string           `json:"stall_id"`
	StallName string           `json:"stall_name"`
	Products  []models.Product `json:"products"`
}

// Menus groups products under their stall. Stalls and products are sorted by name;
// stalls without products are included with an empty menu.
func Menus(stalls []models.Account, products []models.Product) []Menu {
	byStall := make(map[string][]models.Product)
	for _, p := range products {
		byStall[p.StallID] = append(byStall[p.StallID], p)
	}

	out := make([]Menu, 0, len(stalls))
	for _, s := range stalls {
		if !s.IsStall() {
			continue
		}
		items := byStall[s.ID]
		if items == nil {
			items = []models.Product{}
		}
		sort.Slice(items, func(i, j int) bool { return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name) })
		out = append(out, Menu{StallID: s.ID, StallName: s.Name, Products: items})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StallName < out[j].StallName })
	return out
}
