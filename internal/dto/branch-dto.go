package dto

import "github.com/aarondl/null/v8"

type BranchDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Manager  string `json:"manager"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	Workers  int    `json:"workers"`
	Status   string `json:"status"`
	IsActive bool   `json:"is_active"`
}

type ShortBranchDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateBranchDTO struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required,max=200"`
	Manager string `json:"manager" validate:"omitempty,max=100"`
	City    string `json:"city" validate:"omitempty,max=100"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Workers int    `json:"workers" validate:"gte=0"`
	Status  string `json:"status" validate:"omitempty,branch_status"`
}

type UpdateBranchDTO struct {
	Name    null.String `json:"name" validate:"omitempty,max=100"`
	Address null.String `json:"address" validate:"omitempty,max=200"`
	Manager null.String `json:"manager" validate:"omitempty,max=100"`
	City    null.String `json:"city" validate:"omitempty,max=100"`
	Phone   null.String `json:"phone" validate:"omitempty,max=30"`
	Workers null.Int    `json:"workers" validate:"omitempty,gte=0"`
	Status  null.String `json:"status" validate:"omitempty,branch_status"`
}

type UpdateBranchStatusDTO struct {
	Status string `json:"status" validate:"required,branch_status"`
}
