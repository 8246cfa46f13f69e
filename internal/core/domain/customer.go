package domain

type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age" validate:"gte=0"`
}
