package dto

import "time"

// CreateCompanyRequest payload.
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Country string `json:"country" validate:"required,max=100"`
}

// CompanyResponse describes a company.
type CompanyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	IsActive bool   `json:"isActive"`
}

// CreateMachineRequest payload.
type CreateMachineRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	BlueprintNumber string `json:"blueprintNumber" validate:"required,max=100"`
	Type            string `json:"type" validate:"required,max=100"`
}

// LinkMachineRequest links a machine to a company.
type LinkMachineRequest struct {
	CompanyID string `json:"companyId" validate:"required,uuid"`
	MachineID string `json:"machineId" validate:"required,uuid"`
}

// MachineResponse describes a machine.
type MachineResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BlueprintNumber string `json:"blueprintNumber"`
	Type            string `json:"type"`
}

// CreateSolutionRequest payload.
type CreateSolutionRequest struct {
	MachineID   string `json:"machineId" validate:"required,uuid"`
	Language    string `json:"language" validate:"required,bcp47_language_tag"`
	Issue       string `json:"issue" validate:"required,max=500"`
	Description string `json:"description" validate:"required,max=20000"`
}

// SolutionResponse describes a knowledge base entry.
type SolutionResponse struct {
	ID              string `json:"id"`
	Language        string `json:"language"`
	Issue           string `json:"issue"`
	Description     string `json:"description"`
	DescriptionHTML string `json:"descriptionHtml"`
	MachineID       string `json:"machineId"`
}

// NotificationResponse describes an in-app notification.
type NotificationResponse struct {
	ID           string    `json:"id"`
	Message      string    `json:"message"`
	IsRead       bool      `json:"isRead"`
	CreationDate time.Time `json:"creationDate"`
}
