package entities

const (
	UserTypeAdmin  = "admin"
	UserTypeClient = "client"
)

// User - сотрудник (коллекция Usuarios) или клиент (Clientes).
type User struct {
	ID       string
	Username string
	Password string
	Name     string
	Type     string
	Status   string
}
