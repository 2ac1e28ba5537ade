package domain

import "time"

// Feedback representa a avaliação de um proprietário sobre um item de um
// fornecedor. A tripla (OwnerID, ItemID, Category) é única: no máximo um
// feedback ativo por proprietário para cada item de cada categoria.
type Feedback struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    ItemType  `json:"category"`
	Rating      int       `json:"rating"`
	ItemID      string    `json:"itemId"`
	ItemName    string    `json:"itemName"`
	SupplierID  string    `json:"supplierId"`
	OwnerID     string    `json:"ownerId"`
	IsDeleted   bool      `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FeedbackCreation é o payload de entrada para a submissão de feedback.
// O ownerId vem da autenticação; o itemName é resolvido no servidor.
type FeedbackCreation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    ItemType `json:"category"`
	Rating      int      `json:"rating"`
	ItemID      string   `json:"itemId"`
	SupplierID  string   `json:"supplierId"`
}
