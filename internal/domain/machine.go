package domain

// Machine is a piece of equipment tickets are filed against.
type Machine struct {
	ID              string
	Name            string
	BlueprintNumber string
	Type            string
}

// CompanyMachine links a machine to a company that operates it.
type CompanyMachine struct {
	CompanyID string
	MachineID string
}
