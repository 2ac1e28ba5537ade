package feedbackservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
)

// FeedbackRepository define o contrato que este Serviço espera da camada de
// persistência dos feedbacks.
type FeedbackRepository interface {
	Save(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error)
	ExistsByTriple(ctx context.Context, ownerID, itemID string, category domain.ItemType) (bool, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Feedback, error)
	FindBySupplier(ctx context.Context, supplierID string) ([]domain.Feedback, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// InventoryResolver resolve a referência (category, itemId) do feedback para
// validar a existência do item e capturar o snapshot do nome e o fornecedor.
type InventoryResolver interface {
	FindItem(ctx context.Context, itemType domain.ItemType, itemID string) (domain.InventoryItem, error)
}

// Service implementa a submissão e a consulta de feedbacks.
type Service struct {
	repo      FeedbackRepository
	inventory InventoryResolver
}

// NewService cria e retorna uma nova instância do Serviço de Feedbacks.
func NewService(repo FeedbackRepository, inventory InventoryResolver) *Service {
	return &Service{repo: repo, inventory: inventory}
}

// CreateFeedback registra a avaliação do proprietário sobre um item.
//
// O itemName e o supplierId são resolvidos no servidor a partir do item
// referenciado, nunca aceitos do cliente. A tripla (owner, item, categoria)
// é única entre os feedbacks ativos: a segunda submissão é recusada.
func (s *Service) CreateFeedback(ctx domain.Context, ownerID string, creation domain.FeedbackCreation) (domain.Feedback, error) {

	// 1. Casting e Contexto
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	// 2. Validação de Regras de Negócio
	if ownerID == "" {
		return domain.Feedback{}, apperror.NewValidationError("O ID do proprietário é obrigatório.")
	}
	if !creation.Category.IsValid() {
		return domain.Feedback{}, apperror.NewValidationError(fmt.Sprintf("Categoria inválida: %q. Use 'Feed' ou 'Medicine'.", creation.Category))
	}
	if creation.ItemID == "" {
		return domain.Feedback{}, apperror.NewValidationError("O ID do item é obrigatório.")
	}
	if creation.Rating < 1 || creation.Rating > 5 {
		return domain.Feedback{}, apperror.NewValidationError("A nota deve estar entre 1 e 5.")
	}
	if creation.Title == "" {
		return domain.Feedback{}, apperror.NewValidationError("O título do feedback é obrigatório.")
	}

	// 3. Resolução do item (valida existência, captura nome e fornecedor)
	item, err := s.inventory.FindItem(ctxGo, creation.Category, creation.ItemID)
	if err != nil {
		return domain.Feedback{}, err
	}

	// 4. Gate de duplicidade. O índice único parcial do banco é a guarda
	//    definitiva contra submissões concorrentes.
	exists, err := s.repo.ExistsByTriple(ctxGo, ownerID, creation.ItemID, creation.Category)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("falha ao verificar feedback existente: %w", err)
	}
	if exists {
		return domain.Feedback{}, apperror.NewDuplicateError("você já enviou um feedback para este item nesta categoria.")
	}

	now := time.Now().UTC()
	feedback := domain.Feedback{
		ID:          uuid.New().String(),
		Title:       creation.Title,
		Description: creation.Description,
		Category:    creation.Category,
		Rating:      creation.Rating,
		ItemID:      item.ID,
		ItemName:    item.Name,
		SupplierID:  item.SupplierID,
		OwnerID:     ownerID,
		IsDeleted:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 5. Delegação para a Camada de Persistência (Repository)
	createdFeedback, err := s.repo.Save(ctxGo, feedback)
	if err != nil {
		return domain.Feedback{}, err
	}

	return createdFeedback, nil
}

// ListByOwner lista os feedbacks enviados pelo proprietário.
func (s *Service) ListByOwner(ctx domain.Context, ownerID string) ([]domain.Feedback, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if ownerID == "" {
		return nil, apperror.NewValidationError("O ID do proprietário é obrigatório.")
	}

	return s.repo.FindByOwner(ctxGo, ownerID)
}

// ListBySupplier lista os feedbacks recebidos pelo fornecedor.
func (s *Service) ListBySupplier(ctx domain.Context, supplierID string) ([]domain.Feedback, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if supplierID == "" {
		return nil, apperror.NewValidationError("O ID do fornecedor é obrigatório.")
	}

	return s.repo.FindBySupplier(ctxGo, supplierID)
}

// DeleteFeedback exclui (logicamente) um feedback do proprietário. Após a
// exclusão, uma nova submissão para a mesma tripla volta a ser permitida.
func (s *Service) DeleteFeedback(ctx domain.Context, id, ownerID string) error {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return apperror.NewValidationError("O ID do feedback é obrigatório.")
	}

	return s.repo.Delete(ctxGo, id, ownerID)
}
