package domain

// ItemType discrimina contra qual coleção de inventário um itemId é resolvido.
// É uma união etiquetada explícita sobre {Feed, Medicine}: nenhum lookup
// dinâmico por nome de campo, o resolver trata cada variante por switch.
type ItemType string

const (
	ItemTypeFeed     ItemType = "Feed"
	ItemTypeMedicine ItemType = "Medicine"
)

// IsValid informa se o discriminante é uma das duas variantes suportadas.
func (t ItemType) IsValid() bool {
	return t == ItemTypeFeed || t == ItemTypeMedicine
}

// InventoryItem é a visão comum de um item de inventário (Feed ou Medicine)
// usada pelo fluxo de requisições. O contador AvailableUnits é o único campo
// mutável que o fluxo toca; ele nunca pode ficar negativo.
type InventoryItem struct {
	ID             string   `json:"id"`
	Type           ItemType `json:"type"`
	Name           string   `json:"name"`
	SupplierID     string   `json:"supplierId"`
	AvailableUnits int      `json:"availableUnits"`
}
