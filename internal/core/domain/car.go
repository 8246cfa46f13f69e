package domain

type Car struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ReleaseYear  int    `json:"releaseYear"`
	Available    bool   `json:"available"`
	GasAvailable bool   `json:"gasAvailable"`
}

type CarCategory struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	CarIDs []string `json:"carIds" validate:"omitempty,dive,required"`
	Price  float64  `json:"price" validate:"gte=0"`
}
