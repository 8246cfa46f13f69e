package domain

type RentalRequest struct {
	Customer     Customer    `json:"customer"`
	CarCategory  CarCategory `json:"carCategory"`
	NumberOfDays int         `json:"numberOfDays" validate:"gt=0"`
}

// Transaction is the receipt of a rental. It is never persisted.
type Transaction struct {
	Customer Customer `json:"customer"`
	Car      Car      `json:"car"`
	Amount   string   `json:"amount"`
	DueDate  string   `json:"dueDate"`
}
