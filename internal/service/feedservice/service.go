package feedservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
)

// FeedRepository define o contrato que este Serviço espera da camada de
// persistência do catálogo de feeds.
type FeedRepository interface {
	Save(ctx context.Context, feed domain.Feed) (domain.Feed, error)
	FindByID(ctx context.Context, id string) (domain.Feed, error)
	FindAll(ctx context.Context) ([]domain.Feed, error)
	FindBySupplier(ctx context.Context, supplierID string) ([]domain.Feed, error)
	Update(ctx context.Context, feed domain.Feed) (domain.Feed, error)
	Delete(ctx context.Context, id string) error
}

// PendingRequestChecker conta as requisições Pendentes que referenciam um
// item. Usado como guarda de exclusão: itens referenciados não saem do catálogo.
type PendingRequestChecker interface {
	CountPendingByItem(ctx context.Context, itemType domain.ItemType, itemID string) (int, error)
}

// Service implementa as operações do catálogo de feeds.
type Service struct {
	repo    FeedRepository
	pending PendingRequestChecker
}

// NewService cria e retorna uma nova instância do Serviço de Feeds.
func NewService(repo FeedRepository, pending PendingRequestChecker) *Service {
	return &Service{repo: repo, pending: pending}
}

// validateFeed aplica as regras de negócio comuns a criação e atualização.
func validateFeed(feed domain.Feed) error {
	if feed.FeedName == "" {
		return apperror.NewValidationError("O nome do feed é obrigatório.")
	}
	if feed.PricePerUnit <= 0 {
		return apperror.NewValidationError("O preço por unidade deve ser positivo.")
	}
	if feed.AvailableUnits < 0 {
		return apperror.NewValidationError("As unidades disponíveis não podem ser negativas.")
	}
	return nil
}

// CreateFeed publica um novo feed no catálogo do fornecedor autenticado.
func (s *Service) CreateFeed(ctx domain.Context, supplierID string, feed domain.Feed) (domain.Feed, error) {

	// 1. Casting e Contexto
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	// 2. Validação de Regras de Negócio
	if supplierID == "" {
		return domain.Feed{}, apperror.NewValidationError("O ID do fornecedor é obrigatório.")
	}
	if err := validateFeed(feed); err != nil {
		return domain.Feed{}, err
	}

	// 3. Preenchimento de campos do servidor
	feed.ID = uuid.New().String()
	feed.SupplierID = supplierID
	now := time.Now().UTC()
	feed.CreatedAt = now
	feed.UpdatedAt = now

	// 4. Delegação para a Camada de Persistência (Repository)
	createdFeed, err := s.repo.Save(ctxGo, feed)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("falha ao salvar feed no repositório: %w", err)
	}

	return createdFeed, nil
}

// GetFeed busca um feed pelo ID.
func (s *Service) GetFeed(ctx domain.Context, id string) (domain.Feed, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return domain.Feed{}, apperror.NewValidationError("O ID do feed é obrigatório.")
	}

	return s.repo.FindByID(ctxGo, id)
}

// ListFeeds lista o catálogo completo de feeds (visão do proprietário).
func (s *Service) ListFeeds(ctx domain.Context) ([]domain.Feed, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	return s.repo.FindAll(ctxGo)
}

// ListBySupplier lista os feeds publicados pelo fornecedor.
func (s *Service) ListBySupplier(ctx domain.Context, supplierID string) ([]domain.Feed, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if supplierID == "" {
		return nil, apperror.NewValidationError("O ID do fornecedor é obrigatório.")
	}

	return s.repo.FindBySupplier(ctxGo, supplierID)
}

// UpdateFeed atualiza um feed existente. O contador de unidades passa a ser o
// valor absoluto informado pelo fornecedor.
func (s *Service) UpdateFeed(ctx domain.Context, feed domain.Feed) (domain.Feed, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if feed.ID == "" {
		return domain.Feed{}, apperror.NewValidationError("O ID do feed é obrigatório.")
	}
	if err := validateFeed(feed); err != nil {
		return domain.Feed{}, err
	}

	updatedFeed, err := s.repo.Update(ctxGo, feed)
	if err != nil {
		return domain.Feed{}, err
	}

	return updatedFeed, nil
}

// DeleteFeed remove um feed do catálogo, desde que nenhuma requisição
// Pendente o referencie. Requisições já decididas não bloqueiam a exclusão.
func (s *Service) DeleteFeed(ctx domain.Context, id string) error {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return apperror.NewValidationError("O ID do feed é obrigatório.")
	}

	count, err := s.pending.CountPendingByItem(ctxGo, domain.ItemTypeFeed, id)
	if err != nil {
		return fmt.Errorf("falha ao verificar requisições pendentes do feed: %w", err)
	}
	if count > 0 {
		return apperror.NewConflictError("não é possível excluir o feed. Existem requisições pendentes que referenciam este item.")
	}

	return s.repo.Delete(ctxGo, id)
}
