package mockapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString принимает и строку, и число: разные записи хранят "cantidad" и "stock" по-разному.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ожидалась строка или число: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// FlexInt - число, которое иногда приходит строкой ("nroDeTrabajadores": "12").
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return fmt.Errorf("не число: %q", string(s))
	}
	*f = FlexInt(int(n))
	return nil
}

// ProductoDTO - товар в коллекции Productos.
type ProductoDTO struct {
	ID              string     `json:"id,omitempty"`
	Name            string     `json:"name"`
	Descripcion     string     `json:"descripcion"`
	Precio          FlexString `json:"precio"`
	Stock           FlexString `json:"stock"`
	Categoria       string     `json:"categoria"`
	Imagen          string     `json:"imagen"`
	Estado          string     `json:"estado"`
	Proveedor       string     `json:"proveedor"`
	Caducidad       string     `json:"caducidad"`
	RecetaRequerida string     `json:"recetaRequerida"`
	CreatedAt       string     `json:"createdAt,omitempty"`
}

// ReservaDTO - резерв в коллекции Reservas.
type ReservaDTO struct {
	ID             string     `json:"id,omitempty"`
	ProductoID     string     `json:"productoId"`
	Fecha          string     `json:"fecha"`
	Cantidad       FlexString `json:"cantidad"`
	Estado         string     `json:"estado"`
	CreatedAt      string     `json:"createdAt"`
	ClienteID      string     `json:"clienteId,omitempty"`
	ClienteNombre  string     `json:"clienteNombre,omitempty"`
	SucursalID     string     `json:"sucursalId,omitempty"`
	SucursalNombre string     `json:"sucursalNombre,omitempty"`
}

// SucursalDTO - филиал в коллекции Sucursales.
type SucursalDTO struct {
	ID                string  `json:"id,omitempty"`
	Nombre            string  `json:"nombre"`
	Direccion         string  `json:"direccion"`
	Encargado         string  `json:"encargado"`
	Ciudad            string  `json:"ciudad"`
	Telefono          string  `json:"telefono"`
	NroDeTrabajadores FlexInt `json:"nroDeTrabajadores"`
	Estado            string  `json:"estado"`
}

type VentaLineaDTO struct {
	Name     string     `json:"name"`
	Quantity FlexInt    `json:"quantity"`
	Price    FlexString `json:"price"`
}

// VentaDTO - продажа в коллекции Ventas.
type VentaDTO struct {
	ID            string          `json:"id,omitempty"`
	Date          string          `json:"date"`
	CustomerName  string          `json:"customerName"`
	Products      []VentaLineaDTO `json:"products"`
	Total         FlexString      `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	ReservaID     string          `json:"reservaId,omitempty"`
}

// UsuarioDTO - запись коллекций Usuarios и Clientes.
type UsuarioDTO struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Password string `json:"password"`
	Nombre   string `json:"nombre"`
	Estado   string `json:"estado,omitempty"`
}
