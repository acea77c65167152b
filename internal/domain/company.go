package domain

// Company owns users and has machines installed.
type Company struct {
	ID       string
	Name     string
	Country  string
	IsActive bool
}
