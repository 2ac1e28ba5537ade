package livestockservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
)

// LivestockRepository define o contrato que este Serviço espera da camada de
// persistência do rebanho. Todas as operações são escopadas pelo proprietário.
type LivestockRepository interface {
	Save(ctx context.Context, livestock domain.Livestock) (domain.Livestock, error)
	FindByID(ctx context.Context, id, ownerID string) (domain.Livestock, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Livestock, error)
	Update(ctx context.Context, livestock domain.Livestock) (domain.Livestock, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Service implementa as operações de registro de rebanho.
type Service struct {
	repo LivestockRepository
}

// NewService cria e retorna uma nova instância do Serviço de Rebanho.
func NewService(repo LivestockRepository) *Service {
	return &Service{repo: repo}
}

func validateLivestock(livestock domain.Livestock) error {
	if livestock.Name == "" {
		return apperror.NewValidationError("O nome do animal é obrigatório.")
	}
	if livestock.Species == "" {
		return apperror.NewValidationError("A espécie do animal é obrigatória.")
	}
	if livestock.Age < 0 {
		return apperror.NewValidationError("A idade do animal não pode ser negativa.")
	}
	return nil
}

// CreateLivestock registra um novo animal para o proprietário autenticado.
func (s *Service) CreateLivestock(ctx domain.Context, ownerID string, livestock domain.Livestock) (domain.Livestock, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if ownerID == "" {
		return domain.Livestock{}, apperror.NewValidationError("O ID do proprietário é obrigatório.")
	}
	if err := validateLivestock(livestock); err != nil {
		return domain.Livestock{}, err
	}

	livestock.ID = uuid.New().String()
	livestock.OwnerID = ownerID
	now := time.Now().UTC()
	livestock.CreatedAt = now
	livestock.UpdatedAt = now

	createdLivestock, err := s.repo.Save(ctxGo, livestock)
	if err != nil {
		return domain.Livestock{}, fmt.Errorf("falha ao salvar registro de rebanho no repositório: %w", err)
	}

	return createdLivestock, nil
}

// GetLivestock busca um registro de rebanho do proprietário.
func (s *Service) GetLivestock(ctx domain.Context, id, ownerID string) (domain.Livestock, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return domain.Livestock{}, apperror.NewValidationError("O ID do registro é obrigatório.")
	}

	return s.repo.FindByID(ctxGo, id, ownerID)
}

// ListByOwner lista o rebanho do proprietário.
func (s *Service) ListByOwner(ctx domain.Context, ownerID string) ([]domain.Livestock, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if ownerID == "" {
		return nil, apperror.NewValidationError("O ID do proprietário é obrigatório.")
	}

	return s.repo.FindByOwner(ctxGo, ownerID)
}

// UpdateLivestock atualiza um registro de rebanho do proprietário.
func (s *Service) UpdateLivestock(ctx domain.Context, livestock domain.Livestock) (domain.Livestock, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if livestock.ID == "" {
		return domain.Livestock{}, apperror.NewValidationError("O ID do registro é obrigatório.")
	}
	if err := validateLivestock(livestock); err != nil {
		return domain.Livestock{}, err
	}

	return s.repo.Update(ctxGo, livestock)
}

// DeleteLivestock remove um registro de rebanho do proprietário.
func (s *Service) DeleteLivestock(ctx domain.Context, id, ownerID string) error {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return apperror.NewValidationError("O ID do registro é obrigatório.")
	}

	return s.repo.Delete(ctxGo, id, ownerID)
}
