package domain

// Solution is a knowledge base entry describing how a machine issue is fixed.
type Solution struct {
	ID          string
	Language    string
	Issue       string
	Description string
	MachineID   string
}
