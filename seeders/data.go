package seeders

import "pharmacy-system/internal/entities"

var branchesData = []entities.Branch{
	{Name: "Farmacia Centro", Address: "Av. Juárez 120, Centro", Manager: "Laura Méndez", City: "Guadalajara", Phone: "33 3614 2200", Workers: 8, Status: entities.BranchStatusActive},
	{Name: "Farmacia Chapultepec", Address: "Av. Chapultepec 45", Manager: "Jorge Ruiz", City: "Guadalajara", Phone: "33 3615 8810", Workers: 6, Status: entities.BranchStatusActive},
	{Name: "Farmacia Zapopan", Address: "Av. Patria 1500", Manager: "Sofía Torres", City: "Zapopan", Phone: "33 3673 4021", Workers: 5, Status: entities.BranchStatusActive},
	{Name: "Farmacia Tlaquepaque", Address: "Calle Independencia 88", Manager: "Miguel Ángel Díaz", City: "Tlaquepaque", Phone: "33 3635 1177", Workers: 4, Status: entities.BranchStatusSuspended},
}

var productsData = []entities.Product{
	{Name: "Paracetamol 500mg", Description: "Paracetamol. Analgésico y antipirético, caja con 20 tabletas.", Price: "25.50", Stock: "120", Category: "Analgésicos", Supplier: "Genéricos MX", ExpiryDate: "2027-03-31", PrescriptionFlag: "No", Status: "Disponible"},
	{Name: "Ibuprofeno 400mg", Description: "Ibuprofeno. Antiinflamatorio no esteroideo, caja con 24 tabletas.", Price: "35.50", Stock: "80", Category: "Analgésicos", Supplier: "Genéricos MX", ExpiryDate: "2026-12-31", PrescriptionFlag: "No", Status: "Disponible"},
	{Name: "Amoxicilina 500mg", Description: "Amoxicilina. Antibiótico de amplio espectro, 12 cápsulas.", Price: "89.90", Stock: "40", Category: "Antibióticos", Supplier: "Laboratorios Pisa", ExpiryDate: "2026-09-30", PrescriptionFlag: "Si", Status: "Disponible"},
	{Name: "Loratadina 10mg", Description: "Loratadina. Antihistamínico, caja con 10 tabletas.", Price: "42.00", Stock: "65", Category: "Antialérgicos", Supplier: "Genéricos MX", ExpiryDate: "2027-01-31", PrescriptionFlag: "No", Status: "Disponible"},
	{Name: "Omeprazol 20mg", Description: "Omeprazol. Inhibidor de la bomba de protones, 14 cápsulas.", Price: "55.00", Stock: "50", Category: "Gastrointestinal", Supplier: "Laboratorios Pisa", ExpiryDate: "2027-06-30", PrescriptionFlag: "No", Status: "Disponible"},
	{Name: "Metformina 850mg", Description: "Metformina. Antidiabético oral, caja con 30 tabletas.", Price: "48.75", Stock: "30", Category: "Diabetes", Supplier: "Sanfer", ExpiryDate: "2026-11-30", PrescriptionFlag: "Si", Status: "Disponible"},
	{Name: "Vitamina C 1000mg", Description: "Ácido ascórbico. Suplemento, tubo con 10 tabletas efervescentes.", Price: "45.00", Stock: "0", Category: "Vitaminas", Supplier: "Bayer", ExpiryDate: "2027-02-28", PrescriptionFlag: "No", Status: "Agotado"},
	{Name: "Losartán 50mg", Description: "Losartán. Antihipertensivo, caja con 30 tabletas.", Price: "62.30", Stock: "25", Category: "Cardiovascular", Supplier: "Sanfer", ExpiryDate: "2026-08-31", PrescriptionFlag: "Si", Status: "Disponible"},
}

type seedUser struct {
	Username    string
	Name        string
	Type        string
	PasswordEnv string
}

var usersData = []seedUser{
	{Username: "admin", Name: "Administrador", Type: entities.UserTypeAdmin, PasswordEnv: "SEED_ADMIN_PASSWORD"},
	{Username: "cliente", Name: "Cliente Demo", Type: entities.UserTypeClient, PasswordEnv: "SEED_CLIENT_PASSWORD"},
}
