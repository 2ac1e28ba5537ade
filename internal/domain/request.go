package domain

import "time"

// RequestStatus é o estado de uma requisição no fluxo Pendente → Aprovada/Rejeitada.
type RequestStatus string

// Estados possíveis de uma requisição. Approved e Rejected são terminais:
// uma requisição transiciona no máximo uma vez a partir de Pending.
const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// IsTerminal informa se o status é um estado final do fluxo.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request representa o pedido de um proprietário para consumir uma quantidade
// de um item de inventário de um fornecedor.
//
// ItemID é uma referência fraca resolvida via ItemType; a requisição não é
// dona do item. ItemName é uma cópia desnormalizada capturada na criação e
// nunca ressincronizada (snapshot intencional). LivestockName é texto livre
// informado pelo proprietário, sem integridade referencial com o registro de
// rebanho.
type Request struct {
	ID            string        `json:"id"`
	ItemType      ItemType      `json:"itemType"`
	ItemID        string        `json:"itemId"`
	ItemName      string        `json:"itemName"`
	OwnerID       string        `json:"ownerId"`
	LivestockName string        `json:"livestockName"`
	Quantity      int           `json:"quantity"`
	Status        RequestStatus `json:"status"`
	RequestDate   time.Time     `json:"requestDate"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// RequestCreation é o payload de entrada para a criação de uma requisição.
// O ownerId vem da autenticação, nunca do corpo.
type RequestCreation struct {
	ItemType      ItemType `json:"itemType"`
	ItemID        string   `json:"itemId"`
	ItemName      string   `json:"itemName"`
	LivestockName string   `json:"livestockName"`
	Quantity      int      `json:"quantity"`
}

// RequestStatusUpdate é o payload de entrada para a transição de status.
type RequestStatusUpdate struct {
	Status RequestStatus `json:"status"`
}
