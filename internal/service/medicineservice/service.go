package medicineservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
)

// MedicineRepository define o contrato que este Serviço espera da camada de
// persistência do catálogo de medicamentos.
type MedicineRepository interface {
	Save(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error)
	FindByID(ctx context.Context, id string) (domain.Medicine, error)
	FindAll(ctx context.Context) ([]domain.Medicine, error)
	FindBySupplier(ctx context.Context, supplierID string) ([]domain.Medicine, error)
	Update(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error)
	Delete(ctx context.Context, id string) error
}

// PendingRequestChecker conta as requisições Pendentes que referenciam um item.
type PendingRequestChecker interface {
	CountPendingByItem(ctx context.Context, itemType domain.ItemType, itemID string) (int, error)
}

// Service implementa as operações do catálogo de medicamentos.
type Service struct {
	repo    MedicineRepository
	pending PendingRequestChecker
}

// NewService cria e retorna uma nova instância do Serviço de Medicamentos.
func NewService(repo MedicineRepository, pending PendingRequestChecker) *Service {
	return &Service{repo: repo, pending: pending}
}

func validateMedicine(medicine domain.Medicine) error {
	if medicine.MedicineName == "" {
		return apperror.NewValidationError("O nome do medicamento é obrigatório.")
	}
	if medicine.PricePerUnit <= 0 {
		return apperror.NewValidationError("O preço por unidade deve ser positivo.")
	}
	if medicine.AvailableUnits < 0 {
		return apperror.NewValidationError("As unidades disponíveis não podem ser negativas.")
	}
	return nil
}

// CreateMedicine publica um novo medicamento no catálogo do fornecedor autenticado.
func (s *Service) CreateMedicine(ctx domain.Context, supplierID string, medicine domain.Medicine) (domain.Medicine, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if supplierID == "" {
		return domain.Medicine{}, apperror.NewValidationError("O ID do fornecedor é obrigatório.")
	}
	if err := validateMedicine(medicine); err != nil {
		return domain.Medicine{}, err
	}

	medicine.ID = uuid.New().String()
	medicine.SupplierID = supplierID
	now := time.Now().UTC()
	medicine.CreatedAt = now
	medicine.UpdatedAt = now

	createdMedicine, err := s.repo.Save(ctxGo, medicine)
	if err != nil {
		return domain.Medicine{}, fmt.Errorf("falha ao salvar medicamento no repositório: %w", err)
	}

	return createdMedicine, nil
}

// GetMedicine busca um medicamento pelo ID.
func (s *Service) GetMedicine(ctx domain.Context, id string) (domain.Medicine, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return domain.Medicine{}, apperror.NewValidationError("O ID do medicamento é obrigatório.")
	}

	return s.repo.FindByID(ctxGo, id)
}

// ListMedicines lista o catálogo completo de medicamentos (visão do proprietário).
func (s *Service) ListMedicines(ctx domain.Context) ([]domain.Medicine, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	return s.repo.FindAll(ctxGo)
}

// ListBySupplier lista os medicamentos publicados pelo fornecedor.
func (s *Service) ListBySupplier(ctx domain.Context, supplierID string) ([]domain.Medicine, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if supplierID == "" {
		return nil, apperror.NewValidationError("O ID do fornecedor é obrigatório.")
	}

	return s.repo.FindBySupplier(ctxGo, supplierID)
}

// UpdateMedicine atualiza um medicamento existente.
func (s *Service) UpdateMedicine(ctx domain.Context, medicine domain.Medicine) (domain.Medicine, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if medicine.ID == "" {
		return domain.Medicine{}, apperror.NewValidationError("O ID do medicamento é obrigatório.")
	}
	if err := validateMedicine(medicine); err != nil {
		return domain.Medicine{}, err
	}

	updatedMedicine, err := s.repo.Update(ctxGo, medicine)
	if err != nil {
		return domain.Medicine{}, err
	}

	return updatedMedicine, nil
}

// DeleteMedicine remove um medicamento do catálogo, desde que nenhuma
// requisição Pendente o referencie.
func (s *Service) DeleteMedicine(ctx domain.Context, id string) error {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return apperror.NewValidationError("O ID do medicamento é obrigatório.")
	}

	count, err := s.pending.CountPendingByItem(ctxGo, domain.ItemTypeMedicine, id)
	if err != nil {
		return fmt.Errorf("falha ao verificar requisições pendentes do medicamento: %w", err)
	}
	if count > 0 {
		return apperror.NewConflictError("não é possível excluir o medicamento. Existem requisições pendentes que referenciam este item.")
	}

	return s.repo.Delete(ctxGo, id)
}
