package dto

import (
	"encoding/json"
	"math"

	"github.com/aarondl/null/v8"
)

// JSONFloat сериализует NaN как null: в JSON нет NaN, а нераспознанная цена остаётся NaN.
type JSONFloat float64

func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f *JSONFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = JSONFloat(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = JSONFloat(v)
	return nil
}

// ProductDTO - товар после адаптации: числа разобраны, признак рецепта стал bool.
type ProductDTO struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	ActiveIngredient     string    `json:"active_ingredient"`
	Price                JSONFloat `json:"price"`
	Stock                int       `json:"stock"`
	StockValid           bool      `json:"stock_valid"`
	Category             string    `json:"category"`
	Image                string    `json:"image"`
	Status               string    `json:"status"`
	Supplier             string    `json:"supplier"`
	ExpiryDate           string    `json:"expiry_date"`
	RequiresPrescription bool      `json:"requires_prescription"`
	CreatedAt            string    `json:"created_at,omitempty"`
	MaxReservable        int       `json:"max_reservable"`
}

// CanIncrement - можно ли увеличить выбранное количество q ещё на единицу.
func (p ProductDTO) CanIncrement(q int) bool {
	return q < p.MaxReservable
}

type ShortProductDTO struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	ActiveIngredient     string    `json:"active_ingredient"`
	Price                JSONFloat `json:"price"`
	Image                string    `json:"image"`
	RequiresPrescription bool      `json:"requires_prescription"`
}

type CreateProductDTO struct {
	Name                 string `json:"name" validate:"required,max=150"`
	Description          string `json:"description" validate:"omitempty,max=1000"`
	Price                string `json:"price" validate:"required,numeric_string"`
	Stock                string `json:"stock" validate:"required,number"`
	Category             string `json:"category" validate:"omitempty,max=100"`
	Image                string `json:"image" validate:"omitempty,url"`
	Status               string `json:"status" validate:"omitempty,max=50"`
	Supplier             string `json:"supplier" validate:"omitempty,max=150"`
	ExpiryDate           string `json:"expiry_date" validate:"omitempty"`
	RequiresPrescription bool   `json:"requires_prescription"`
}

type UpdateProductDTO struct {
	Name                 null.String `json:"name" validate:"omitempty,max=150"`
	Description          null.String `json:"description" validate:"omitempty,max=1000"`
	Price                null.String `json:"price" validate:"omitempty,numeric_string"`
	Stock                null.String `json:"stock" validate:"omitempty,number"`
	Category             null.String `json:"category" validate:"omitempty,max=100"`
	Image                null.String `json:"image" validate:"omitempty,url"`
	Status               null.String `json:"status" validate:"omitempty,max=50"`
	Supplier             null.String `json:"supplier" validate:"omitempty,max=150"`
	ExpiryDate           null.String `json:"expiry_date"`
	RequiresPrescription null.Bool   `json:"requires_prescription"`
}
