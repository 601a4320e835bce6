package entities

// Product - запись каталога в том виде, в котором её хранит источник данных:
// числа лежат строками, признак рецепта - строкой "Si"/"No".
type Product struct {
	ID               string
	Name             string
	Description      string
	Price            string
	Stock            string
	Category         string
	Image            string
	Status           string
	Supplier         string
	ExpiryDate       string
	PrescriptionFlag string
	CreatedAt        string
}

const PrescriptionRequiredFlag = "Si"
