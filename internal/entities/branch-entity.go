package entities

import "strings"

type BranchStatus string

const (
	BranchStatusActive    BranchStatus = "Activo"
	BranchStatusSuspended BranchStatus = "Suspendido"
	BranchStatusClosed    BranchStatus = "Cerrado"
)

var branchStatusAliases = map[string]BranchStatus{
	"activo":     BranchStatusActive,
	"active":     BranchStatusActive,
	"abierto":    BranchStatusActive,
	"open":       BranchStatusActive,
	"suspendido": BranchStatusSuspended,
	"suspended":  BranchStatusSuspended,
	"cerrado":    BranchStatusClosed,
	"closed":     BranchStatusClosed,
}

// NormalizeBranchStatus приводит разнобой значений ("active", "Activo", "OPEN") к одному виду.
// Неизвестные значения возвращаются как есть и потому никогда не считаются активными.
func NormalizeBranchStatus(raw string) BranchStatus {
	if s, ok := branchStatusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return BranchStatus(raw)
}

func (s BranchStatus) IsKnown() bool {
	return s == BranchStatusActive || s == BranchStatusSuspended || s == BranchStatusClosed
}

// Branch - филиал (sucursal), точка выдачи резервов.
type Branch struct {
	ID      string
	Name    string
	Address string
	Manager string
	City    string
	Phone   string
	Workers int
	Status  BranchStatus
}

func (b Branch) IsActive() bool {
	return b.Status == BranchStatusActive
}
