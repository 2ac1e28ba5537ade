package domain

import "time"

// Livestock representa um animal (ou lote) registrado por um proprietário.
// Attachment guarda apenas o caminho do arquivo; o upload em si fica fora
// do backend (camada externa).
type Livestock struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Species           string    `json:"species"`
	Age               int       `json:"age"`
	Breed             string    `json:"breed"`
	HealthCondition   string    `json:"healthCondition"`
	Location          string    `json:"location"`
	VaccinationStatus string    `json:"vaccinationStatus"`
	Attachment        string    `json:"attachment,omitempty"`
	OwnerID           string    `json:"ownerId"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
