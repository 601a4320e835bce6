package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SaleStatusCompleted = "Completada"
	SaleStatusCancelled = "Cancelada"
)

type SaleLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (l SaleLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Sale struct {
	ID            string
	Date          time.Time
	CustomerName  string
	Lines         []SaleLine
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
	ReservationID string
}

// ComputeTotal - сумма строк, округлённая до копеек.
func (s Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Amount())
	}
	return total.Round(2)
}
