package inventoryrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/errors"
	"farmconnect/internal/pkg/logger"
)

// InventoryRepository resolve a referência polimórfica (itemType, itemId) na
// visão comum domain.InventoryItem, por switch explícito sobre as duas
// variantes suportadas.
//
// As leituras daqui vão sempre direto ao banco, nunca ao cache: o fluxo de
// requisições valida quantidades contra o contador ATUAL do item, e um
// contador servido do cache poderia estar defasado em relação a aprovações
// concorrentes.
type InventoryRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewInventoryRepository cria e retorna uma nova instância do Repositório de Inventário.
func NewInventoryRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *InventoryRepository {
	return &InventoryRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindItem busca o item de inventário referenciado por (itemType, itemID).
// Retorna NotFoundError nomeando o tipo de item quando a referência não resolve.
func (r *InventoryRepository) FindItem(ctx context.Context, itemType domain.ItemType, itemID string) (domain.InventoryItem, error) {
	r.logger.Debug("Resolvendo item de inventário.", map[string]interface{}{"item_type": string(itemType), "item_id": itemID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// Resolver explícito da união etiquetada {Feed, Medicine}.
	var query string
	switch itemType {
	case domain.ItemTypeFeed:
		query = `SELECT id, feed_name, supplier_id, available_units FROM feeds WHERE id = $1`
	case domain.ItemTypeMedicine:
		query = `SELECT id, medicine_name, supplier_id, available_units FROM medicines WHERE id = $1`
	default:
		return domain.InventoryItem{}, errors.NewValidationError(fmt.Sprintf("Tipo de item inválido: %q. Use 'Feed' ou 'Medicine'.", itemType))
	}

	item := domain.InventoryItem{Type: itemType}
	err := r.DB.QueryRowContext(ctxTimeout, query, itemID).Scan(
		&item.ID, &item.Name, &item.SupplierID, &item.AvailableUnits,
	)

	if err == sql.ErrNoRows {
		r.logger.Info("Item de inventário não encontrado.", map[string]interface{}{"item_type": string(itemType), "item_id": itemID})
		return domain.InventoryItem{}, errors.NewNotFoundError(fmt.Sprintf("%s com ID %s não encontrado.", itemType, itemID))
	}
	if err != nil {
		r.logger.Error("Falha ao resolver item de inventário no DB.", err)
		return domain.InventoryItem{}, errors.NewDBError("Falha ao buscar item de inventário", err)
	}

	return item, nil
}
