package domain

import "time"

// Feed representa um anúncio de ração/alimento publicado por um fornecedor.
// O contador AvailableUnits é decrementado exclusivamente pela aprovação de
// requisições; edições diretas do fornecedor definem o valor absoluto.
type Feed struct {
	ID             string    `json:"id"`
	FeedName       string    `json:"feedName"`
	Type           string    `json:"type"`
	Description    string    `json:"description"`
	Unit           string    `json:"unit"`
	PricePerUnit   float64   `json:"pricePerUnit"`
	AvailableUnits int       `json:"availableUnits"`
	SupplierID     string    `json:"supplierId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
