package domain

// CaseEntry is one row of a case's probability table
type CaseEntry struct {
	ItemID      string  `json:"item_id" db:"item_id"`
	Probability float64 `json:"probability" db:"probability"`
}

// Case is a purchasable container with an ordered prize table
type Case struct {
	ID       string      `json:"case_id" db:"case_id"`
	Name     string      `json:"name" db:"name"`
	Price    int64       `json:"price" db:"price"`
	ImageURL string      `json:"image_url,omitempty" db:"image_url"`
	Entries  []CaseEntry `json:"items"`
}

// ProbabilitySum returns the total weight of the case's table
func (c Case) ProbabilitySum() float64 {
	var sum float64
	for _, e := range c.Entries {
		sum += e.Probability
	}
	return sum
}
