package dto

import "time"

type ReservationCountsDTO struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Expired   int `json:"expired"`
	Collected int `json:"collected"`
	Cancelled int `json:"cancelled"`
}

type SalesSummaryDTO struct {
	Count   int    `json:"count"`
	Revenue string `json:"revenue"`
}

type ReportSummaryDTO struct {
	GeneratedAt  time.Time            `json:"generated_at"`
	Reservations ReservationCountsDTO `json:"reservations"`
	Sales        SalesSummaryDTO      `json:"sales"`
	Products     int                  `json:"products"`
	Branches     int                  `json:"branches"`
	ActiveBranch int                  `json:"active_branches"`
}
