package mockapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pharmacy-system/internal/entities"

	"github.com/shopspring/decimal"
)

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseTime разбирает даты, которые внешний сервис хранит строками в разных форматах.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("неизвестный формат даты: %q", raw)
}

func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func ProductToEntity(d ProductoDTO) entities.Product {
	return entities.Product{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Descripcion,
		Price:            string(d.Precio),
		Stock:            string(d.Stock),
		Category:         d.Categoria,
		Image:            d.Imagen,
		Status:           d.Estado,
		Supplier:         d.Proveedor,
		ExpiryDate:       d.Caducidad,
		PrescriptionFlag: d.RecetaRequerida,
		CreatedAt:        d.CreatedAt,
	}
}

func ProductFromEntity(p entities.Product) ProductoDTO {
	return ProductoDTO{
		ID:              p.ID,
		Name:            p.Name,
		Descripcion:     p.Description,
		Precio:          FlexString(p.Price),
		Stock:           FlexString(p.Stock),
		Categoria:       p.Category,
		Imagen:          p.Image,
		Estado:          p.Status,
		Proveedor:       p.Supplier,
		Caducidad:       p.ExpiryDate,
		RecetaRequerida: p.PrescriptionFlag,
		CreatedAt:       p.CreatedAt,
	}
}

func BranchToEntity(d SucursalDTO) entities.Branch {
	return entities.Branch{
		ID:      d.ID,
		Name:    d.Nombre,
		Address: d.Direccion,
		Manager: d.Encargado,
		City:    d.Ciudad,
		Phone:   d.Telefono,
		Workers: int(d.NroDeTrabajadores),
		Status:  entities.NormalizeBranchStatus(d.Estado),
	}
}

func BranchFromEntity(b entities.Branch) SucursalDTO {
	return SucursalDTO{
		ID:                b.ID,
		Nombre:            b.Name,
		Direccion:         b.Address,
		Encargado:         b.Manager,
		Ciudad:            b.City,
		Telefono:          b.Phone,
		NroDeTrabajadores: FlexInt(b.Workers),
		Estado:            string(b.Status),
	}
}

// ReservationToEntity возвращает ошибку, если по записи нельзя вычислить срок действия.
func ReservationToEntity(d ReservaDTO) (entities.Reservation, error) {
	createdAt, err := ParseTime(d.CreatedAt)
	if err != nil {
		return entities.Reservation{}, fmt.Errorf("резерв %s: createdAt: %w", d.ID, err)
	}
	date, err := ParseTime(d.Fecha)
	if err != nil {
		date = createdAt
	}
	qty, err := strconv.Atoi(strings.TrimSpace(string(d.Cantidad)))
	if err != nil {
		return entities.Reservation{}, fmt.Errorf("резерв %s: cantidad %q: %w", d.ID, d.Cantidad, err)
	}

	return entities.Reservation{
		ID:           d.ID,
		ProductID:    d.ProductoID,
		Quantity:     qty,
		Date:         date,
		CreatedAt:    createdAt,
		Status:       entities.NormalizeReservationStatus(d.Estado),
		BranchID:     d.SucursalID,
		BranchName:   d.SucursalNombre,
		CustomerID:   d.ClienteID,
		CustomerName: d.ClienteNombre,
	}, nil
}

// ReservationFromEntity пишет количество строкой, как это делали существующие клиенты.
func ReservationFromEntity(r entities.Reservation) ReservaDTO {
	return ReservaDTO{
		ID:             r.ID,
		ProductoID:     r.ProductID,
		Fecha:          FormatTime(r.Date),
		Cantidad:       FlexString(strconv.Itoa(r.Quantity)),
		Estado:         string(r.Status),
		CreatedAt:      FormatTime(r.CreatedAt),
		ClienteID:      r.CustomerID,
		ClienteNombre:  r.CustomerName,
		SucursalID:     r.BranchID,
		SucursalNombre: r.BranchName,
	}
}

// SaleToEntity отклоняет продажу с нечитаемой датой или ценой строки.
func SaleToEntity(d VentaDTO) (entities.Sale, error) {
	date, err := ParseTime(d.Date)
	if err != nil {
		return entities.Sale{}, fmt.Errorf("продажа %s: date: %w", d.ID, err)
	}
	lines := make([]entities.SaleLine, 0, len(d.Products))
	for _, p := range d.Products {
		price, err := decimal.NewFromString(strings.TrimSpace(string(p.Price)))
		if err != nil {
			return entities.Sale{}, fmt.Errorf("продажа %s: цена %q у %q: %w", d.ID, p.Price, p.Name, err)
		}
		lines = append(lines, entities.SaleLine{
			ProductName: p.Name,
			Quantity:    int(p.Quantity),
			UnitPrice:   price,
		})
	}
	total, err := decimal.NewFromString(strings.TrimSpace(string(d.Total)))
	sale := entities.Sale{
		ID:            d.ID,
		Date:          date,
		CustomerName:  d.CustomerName,
		Lines:         lines,
		Total:         total,
		PaymentMethod: d.PaymentMethod,
		Status:        d.Status,
		ReservationID: d.ReservaID,
	}
	if err != nil {
		sale.Total = sale.ComputeTotal()
	}
	return sale, nil
}

func SaleFromEntity(s entities.Sale) VentaDTO {
	lines := make([]VentaLineaDTO, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, VentaLineaDTO{
			Name:     l.ProductName,
			Quantity: FlexInt(l.Quantity),
			Price:    FlexString(l.UnitPrice.StringFixed(2)),
		})
	}
	return VentaDTO{
		ID:            s.ID,
		Date:          FormatTime(s.Date),
		CustomerName:  s.CustomerName,
		Products:      lines,
		Total:         FlexString(s.Total.StringFixed(2)),
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		ReservaID:     s.ReservationID,
	}
}

func UserToEntity(d UsuarioDTO, userType string) entities.User {
	return entities.User{
		ID:       d.ID,
		Username: d.Username,
		Password: d.Password,
		Name:     d.Nombre,
		Type:     userType,
		Status:   d.Estado,
	}
}

func UserFromEntity(u entities.User) UsuarioDTO {
	return UsuarioDTO{
		ID:       u.ID,
		Username: u.Username,
		Password: u.Password,
		Nombre:   u.Name,
		Estado:   u.Status,
	}
}

// CollectionForUserType - админы лежат в Usuarios, клиенты в Clientes.
func CollectionForUserType(userType string) string {
	if userType == entities.UserTypeAdmin {
		return CollectionAdmins
	}
	return CollectionCustomers
}
