package dto

import "time"

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	MachineID       string `json:"machineId" validate:"required,uuid"`
	Issue           string `json:"issue" validate:"required,max=4000"`
	ActionExpected  string `json:"actionExpected" validate:"max=4000"`
	ActionPerformed string `json:"actionPerformed" validate:"max=4000"`
	ExtraInfo       string `json:"extraInfo" validate:"max=4000"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,max=32"`
}

// TicketIDRequest is the body of every transition endpoint.
type TicketIDRequest struct {
	TicketID string `json:"ticketId" validate:"required"`
}

// AddSolutionRequest payload.
type AddSolutionRequest struct {
	TicketID string `json:"ticketId" validate:"required"`
	Solution string `json:"solution" validate:"required,max=8000"`
}

// TicketResponse is the hydrated ticket view.
type TicketResponse struct {
	ID              string    `json:"id"`
	TicketNumber    int       `json:"ticketNumber"`
	Status          string    `json:"status"`
	Priority        string    `json:"priority"`
	Issue           string    `json:"issue"`
	ActionExpected  string    `json:"actionExpected"`
	ActionPerformed string    `json:"actionPerformed"`
	ExtraInfo       string    `json:"extraInfo"`
	Solution        string    `json:"solution"`
	PhoneNumber     string    `json:"phoneNumber"`
	CreationDate    time.Time `json:"creationDate"`
	Creator         UserRef   `json:"creator"`
	Assignee        *UserRef  `json:"assignee"`
	Company         NamedRef  `json:"company"`
	Machine         NamedRef  `json:"machine"`
}

// UserRef names a user.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NamedRef names a company or machine.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
