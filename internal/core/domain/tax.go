package domain

import "fmt"

// TaxBracket maps an inclusive age range to a price multiplier.
type TaxBracket struct {
	From int     `json:"from"`
	To   int     `json:"to"`
	Then float64 `json:"then"`
}

func (b TaxBracket) Contains(age int) bool {
	return age >= b.From && age <= b.To
}

// TaxTable is ordered; the first matching bracket wins.
type TaxTable []TaxBracket

var DefaultTaxTable = TaxTable{
	{From: 18, To: 25, Then: 1.1},
	{From: 26, To: 30, Then: 1.5},
	{From: 31, To: 100, Then: 1.3},
}

func (t TaxTable) Lookup(age int) (TaxBracket, error) {
	for _, b := range t {
		if b.Contains(age) {
			return b, nil
		}
	}
	return TaxBracket{}, fmt.Errorf("%w: no tax bracket for age %d", ErrInvalidInput, age)
}
