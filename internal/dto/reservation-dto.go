package dto

import "time"

// CreateReservationDTO: клиент берётся из сессии; администратор может указать клиента явно.
type CreateReservationDTO struct {
	ProductID    string `json:"product_id" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,gte=1"`
	BranchID     string `json:"branch_id" validate:"required"`
	CustomerID   string `json:"customer_id" validate:"omitempty"`
	CustomerName string `json:"customer_name" validate:"omitempty,max=150"`
}

type ReservationDTO struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	Product       *ShortProductDTO `json:"product,omitempty"`
	Quantity      int              `json:"quantity"`
	Status        string           `json:"status"`
	DisplayStatus string           `json:"display_status"`
	Date          time.Time        `json:"date"`
	CreatedAt     time.Time        `json:"created_at"`
	ExpiresAt     time.Time        `json:"expires_at"`
	BranchID      string           `json:"branch_id"`
	BranchName    string           `json:"branch_name"`
	CustomerID    string           `json:"customer_id"`
	CustomerName  string           `json:"customer_name"`
}

type SweepResultDTO struct {
	Cancelled []string `json:"cancelled"`
	Failed    []string `json:"failed,omitempty"`
}
