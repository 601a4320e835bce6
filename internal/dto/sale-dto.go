package dto

import "time"

type SaleLineDTO struct {
	ProductName string `json:"product_name" validate:"required,max=150"`
	Quantity    int    `json:"quantity" validate:"required,gte=1"`
	UnitPrice   string `json:"unit_price" validate:"required,numeric_string"`
	Amount      string `json:"amount,omitempty"`
}

type SaleDTO struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	CustomerName  string        `json:"customer_name"`
	Lines         []SaleLineDTO `json:"lines"`
	Total         string        `json:"total"`
	PaymentMethod string        `json:"payment_method"`
	Status        string        `json:"status"`
	ReservationID string        `json:"reservation_id,omitempty"`
}

type CreateSaleDTO struct {
	CustomerName  string        `json:"customer_name" validate:"required,max=150"`
	Lines         []SaleLineDTO `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod string        `json:"payment_method" validate:"required,max=50"`
	Status        string        `json:"status" validate:"omitempty,oneof=Completada Cancelada"`
}
