package requestservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
)

// RequestRepository define o contrato que este Serviço espera da camada de
// persistência das requisições. Approve e Reject carregam a transição e suas
// guardas atômicas; o Serviço nunca decrementa estoque diretamente.
type RequestRepository interface {
	Save(ctx context.Context, req domain.Request) (domain.Request, error)
	FindByID(ctx context.Context, id string) (domain.Request, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Request, error)
	FindBySupplier(ctx context.Context, supplierID string) ([]domain.Request, error)
	Approve(ctx context.Context, req domain.Request) (domain.Request, error)
	Reject(ctx context.Context, req domain.Request) (domain.Request, error)
	DeleteIfPending(ctx context.Context, id string) error
}

// InventoryResolver resolve a referência polimórfica (itemType, itemId) de
// uma requisição na visão comum de item de inventário.
type InventoryResolver interface {
	FindItem(ctx context.Context, itemType domain.ItemType, itemID string) (domain.InventoryItem, error)
}

// Service implementa o fluxo de requisições (criação, transição, exclusão,
// listagens).
type Service struct {
	repo      RequestRepository
	inventory InventoryResolver
}

// NewService cria e retorna uma nova instância do Serviço de Requisições.
func NewService(repo RequestRepository, inventory InventoryResolver) *Service {
	return &Service{repo: repo, inventory: inventory}
}

// CreateRequest cria uma requisição Pendente para o proprietário autenticado.
//
// A verificação de quantidade contra o estoque é PROVISÓRIA: ela rejeita
// pedidos obviamente impossíveis no momento da criação, mas nada é reservado.
// O estoque pode ser consumido por aprovações de outras requisições antes
// desta ser decidida; a verificação que vale é refeita atomicamente na
// aprovação.
func (s *Service) CreateRequest(ctx domain.Context, ownerID string, creation domain.RequestCreation) (domain.Request, error) {

	// 1. Casting e Contexto
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	// 2. Validação de Regras de Negócio
	if !creation.ItemType.IsValid() {
		return domain.Request{}, apperror.NewValidationError(fmt.Sprintf("Tipo de item inválido: %q. Use 'Feed' ou 'Medicine'.", creation.ItemType))
	}
	if creation.ItemID == "" {
		return domain.Request{}, apperror.NewValidationError("O ID do item é obrigatório.")
	}
	if creation.Quantity < 1 {
		return domain.Request{}, apperror.NewValidationError("A quantidade deve ser de no mínimo 1 unidade.")
	}
	if ownerID == "" {
		return domain.Request{}, apperror.NewValidationError("O ID do proprietário é obrigatório.")
	}

	// 3. Resolução do item referenciado (também valida a existência)
	item, err := s.inventory.FindItem(ctxGo, creation.ItemType, creation.ItemID)
	if err != nil {
		return domain.Request{}, err
	}

	// 4. Verificação provisória de estoque (sem reserva)
	if creation.Quantity > item.AvailableUnits {
		return domain.Request{}, apperror.NewInsufficientStockError(item.AvailableUnits)
	}

	// 5. Montagem da requisição. ItemName é um snapshot do nome resolvido no
	//    servidor; renomeações posteriores do item não o alteram.
	now := time.Now().UTC()
	req := domain.Request{
		ID:            uuid.New().String(),
		ItemType:      creation.ItemType,
		ItemID:        creation.ItemID,
		ItemName:      item.Name,
		OwnerID:       ownerID,
		LivestockName: creation.LivestockName,
		Quantity:      creation.Quantity,
		Status:        domain.StatusPending,
		RequestDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 6. Delegação para a Camada de Persistência (Repository)
	createdReq, err := s.repo.Save(ctxGo, req)
	if err != nil {
		return domain.Request{}, fmt.Errorf("falha ao salvar requisição no repositório: %w", err)
	}

	return createdReq, nil
}

// UpdateStatus executa a transição Pending → Approved/Rejected.
// Requisições já decididas não transicionam de novo: re-aprovação e
// re-rejeição retornam InvalidTransitionError.
func (s *Service) UpdateStatus(ctx domain.Context, id string, newStatus domain.RequestStatus) (domain.Request, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if newStatus != domain.StatusApproved && newStatus != domain.StatusRejected {
		return domain.Request{}, apperror.NewValidationError(fmt.Sprintf("Status inválido: %q. Use 'Approved' ou 'Rejected'.", newStatus))
	}
	if id == "" {
		return domain.Request{}, apperror.NewValidationError("O ID da requisição é obrigatório.")
	}

	// Leitura prévia: distingue "não existe" (404) de "já decidida" (409)
	// antes de abrir a transação. A guarda definitiva contra corrida fica no
	// UPDATE condicional do repositório.
	req, err := s.repo.FindByID(ctxGo, id)
	if err != nil {
		return domain.Request{}, err
	}
	if req.Status.IsTerminal() {
		return domain.Request{}, apperror.NewInvalidTransitionError(fmt.Sprintf("a requisição %s já foi decidida (%s).", id, req.Status))
	}

	if newStatus == domain.StatusApproved {
		return s.repo.Approve(ctxGo, req)
	}
	return s.repo.Reject(ctxGo, req)
}

// DeleteRequest exclui uma requisição, somente enquanto Pendente. A regra é
// aplicada no servidor: requisições decididas são histórico imutável.
func (s *Service) DeleteRequest(ctx domain.Context, id string) error {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return apperror.NewValidationError("O ID da requisição é obrigatório.")
	}

	return s.repo.DeleteIfPending(ctxGo, id)
}

// GetRequest busca uma requisição pelo ID.
func (s *Service) GetRequest(ctx domain.Context, id string) (domain.Request, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return domain.Request{}, apperror.NewValidationError("O ID da requisição é obrigatório.")
	}

	return s.repo.FindByID(ctxGo, id)
}

// ListByOwner lista as requisições criadas pelo proprietário.
func (s *Service) ListByOwner(ctx domain.Context, ownerID string) ([]domain.Request, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if ownerID == "" {
		return nil, apperror.NewValidationError("O ID do proprietário é obrigatório.")
	}

	return s.repo.FindByOwner(ctxGo, ownerID)
}

// ListBySupplier lista as requisições que referenciam itens do fornecedor.
func (s *Service) ListBySupplier(ctx domain.Context, supplierID string) ([]domain.Request, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if supplierID == "" {
		return nil, apperror.NewValidationError("O ID do fornecedor é obrigatório.")
	}

	return s.repo.FindBySupplier(ctxGo, supplierID)
}
