package domain

import "time"

// Medicine representa um anúncio de medicamento veterinário publicado por um
// fornecedor. Mesmo contrato de estoque do Feed, com campos clínicos extras.
type Medicine struct {
	ID             string    `json:"id"`
	MedicineName   string    `json:"medicineName"`
	Type           string    `json:"type"`
	Description    string    `json:"description"`
	Dosage         string    `json:"dosage"`
	Unit           string    `json:"unit"`
	PricePerUnit   float64   `json:"pricePerUnit"`
	AvailableUnits int       `json:"availableUnits"`
	Manufacturer   string    `json:"manufacturer"`
	ExpiryDate     time.Time `json:"expiryDate"`
	SupplierID     string    `json:"supplierId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
