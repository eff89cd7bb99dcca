package medication

// Medication is a catalog entry. Stock changes go through explicit restock
// or update calls only; the backend is the sole arbiter of consistency.
type Medication struct {
	ID            int     `json:"id,omitempty"`
	Name          string  `json:"name"`
	DosageForm    string  `json:"dosage_form,omitempty"`
	Strength      string  `json:"strength,omitempty"`
	Manufacturer  string  `json:"manufacturer,omitempty"`
	Price         float64 `json:"price,omitempty"`
	StockQuantity int     `json:"stock_quantity"`
}

// RestockRequest adds quantity to a medication's stock.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}
