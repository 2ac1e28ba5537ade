package requestrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/errors"
	"farmconnect/internal/pkg/cache"
	"farmconnect/internal/pkg/logger"
)

// Chaves de cache dos registros de inventário. Devem casar com as chaves
// usadas em feedrepo/medicinerepo: a aprovação decrementa o estoque e a
// entrada cacheada do item precisa ser invalidada.
const (
	feedCacheKey     = "feed:%s"
	medicineCacheKey = "medicine:%s"
)

// RequestRepository implementa a persistência das requisições e a transação
// de aprovação (decremento condicional de estoque + transição de status como
// uma única unidade de trabalho).
type RequestRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRequestRepository cria e retorna uma nova instância do Repositório de Requisições.
func NewRequestRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *RequestRepository {
	return &RequestRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const requestColumns = `id, item_type, item_id, item_name, owner_id, livestock_name, quantity, status, request_date, created_at, updated_at`

// scanRequest mapeia uma linha do DB para a struct domain.Request.
func scanRequest(row interface{ Scan(dest ...interface{}) error }) (domain.Request, error) {
	var req domain.Request
	err := row.Scan(
		&req.ID, &req.ItemType, &req.ItemID, &req.ItemName, &req.OwnerID,
		&req.LivestockName, &req.Quantity, &req.Status, &req.RequestDate,
		&req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

// tableForItemType mapeia o discriminante para a tabela de inventário
// correspondente. Só deve ser chamado após a validação do ItemType.
func tableForItemType(t domain.ItemType) string {
	if t == domain.ItemTypeMedicine {
		return "medicines"
	}
	return "feeds"
}

// itemCacheKeyFor devolve a chave de cache do item referenciado pela requisição.
func itemCacheKeyFor(t domain.ItemType, itemID string) string {
	if t == domain.ItemTypeMedicine {
		return fmt.Sprintf(medicineCacheKey, itemID)
	}
	return fmt.Sprintf(feedCacheKey, itemID)
}

// Save insere uma nova requisição (já Pendente) no banco de dados.
// A criação NÃO decrementa o estoque: a verificação feita pelo serviço é
// apenas provisória, nada é reservado até a aprovação.
func (r *RequestRepository) Save(ctx context.Context, req domain.Request) (domain.Request, error) {
	r.logger.Debug("Iniciando Save de requisição no repositório.", map[string]interface{}{
		"item_type": string(req.ItemType), "item_id": req.ItemID, "owner_id": req.OwnerID, "quantity": req.Quantity,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO requests (` + requestColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		req.ID, req.ItemType, req.ItemID, req.ItemName, req.OwnerID,
		req.LivestockName, req.Quantity, req.Status, req.RequestDate,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir requisição no DB.", err)
		return domain.Request{}, errors.NewDBError("Falha ao criar requisição", err)
	}

	r.logger.Info("Requisição criada com sucesso.", map[string]interface{}{"id": req.ID, "status": string(req.Status)})
	return req, nil
}

// FindByID busca uma requisição pelo ID.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (domain.Request, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(r.DB.QueryRowContext(ctxTimeout, query, id))

	if err == sql.ErrNoRows {
		r.logger.Info("Requisição não encontrada.", map[string]interface{}{"id": id})
		return domain.Request{}, errors.NewNotFoundError(fmt.Sprintf("Não foi encontrada nenhuma requisição com ID %s.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar requisição no DB.", err)
		return domain.Request{}, errors.NewDBError("Falha ao buscar requisição", err)
	}

	return req, nil
}

// FindByOwner busca as requisições criadas por um proprietário.
func (r *RequestRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE owner_id = $1 ORDER BY request_date DESC`
	return r.findMany(ctx, query, ownerID)
}

// FindBySupplier busca as requisições cujo item referenciado pertence ao
// fornecedor, atravessando as duas coleções de inventário.
func (r *RequestRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Request, error) {
	query := `
        SELECT ` + requestColumns + `
        FROM requests
        WHERE (item_type = 'Feed' AND item_id IN (SELECT id FROM feeds WHERE supplier_id = $1))
           OR (item_type = 'Medicine' AND item_id IN (SELECT id FROM medicines WHERE supplier_id = $1))
        ORDER BY request_date DESC`
	return r.findMany(ctx, query, supplierID)
}

func (r *RequestRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.Request, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de requisições.", err)
		return nil, errors.NewDBError("Falha ao buscar requisições", err)
	}
	defer rows.Close()

	var requests []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear requisição na iteração.", err)
			return nil, errors.NewDBError("Falha ao mapear requisições do DB", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de requisições.", err)
		return nil, errors.NewDBError("Erro após iteração de requisições", err)
	}

	return requests, nil
}

// Approve executa a transição Pending → Approved com o decremento de estoque,
// as duas mutações dentro de uma única transação.
//
// O decremento é um UPDATE condicional ("só desconta se available_units >=
// quantity") verificado por linhas afetadas: a checagem e a escrita são um
// único comando atômico, e o banco serializa aprovações concorrentes na linha
// do item. Se o estoque foi consumido por outra aprovação desde a criação da
// requisição, nada é alterado e o chamador recebe InsufficientStockError com
// a contagem atual.
func (r *RequestRepository) Approve(ctx context.Context, req domain.Request) (domain.Request, error) {
	r.logger.Debug("Iniciando transação de aprovação no repositório.", map[string]interface{}{
		"request_id": req.ID, "item_type": string(req.ItemType), "item_id": req.ItemID, "quantity": req.Quantity,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de aprovação.", err)
		return domain.Request{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro (no-op após Commit)

	table := tableForItemType(req.ItemType)
	now := time.Now().UTC()

	// 1. Decremento condicional do contador do item.
	decrementSQL := fmt.Sprintf(`
        UPDATE %s
        SET available_units = available_units - $1, updated_at = $2
        WHERE id = $3 AND available_units >= $1`, table)

	result, err := tx.ExecContext(ctxTimeout, decrementSQL, req.Quantity, now, req.ItemID)
	if err != nil {
		r.logger.Error("Falha ao decrementar estoque na aprovação.", err)
		return domain.Request{}, errors.NewDBError("Falha ao decrementar estoque", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas do decremento.", err)
		return domain.Request{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		// Ou o item não existe mais, ou o estoque atual é insuficiente.
		// Relemos o contador para distinguir e informar a contagem ao chamador.
		var available int
		selectSQL := fmt.Sprintf(`SELECT available_units FROM %s WHERE id = $1`, table)
		err := tx.QueryRowContext(ctxTimeout, selectSQL, req.ItemID).Scan(&available)
		if err == sql.ErrNoRows {
			r.logger.Warn("Item referenciado pela requisição não existe mais.", map[string]interface{}{"request_id": req.ID, "item_id": req.ItemID})
			return domain.Request{}, errors.NewNotFoundError(fmt.Sprintf("%s com ID %s não encontrado.", req.ItemType, req.ItemID))
		}
		if err != nil {
			r.logger.Error("Falha ao reler estoque após decremento recusado.", err)
			return domain.Request{}, errors.NewDBError("Falha ao reler estoque", err)
		}

		r.logger.Info("Aprovação recusada por estoque insuficiente.", map[string]interface{}{
			"request_id": req.ID, "requested": req.Quantity, "available": available,
		})
		return domain.Request{}, errors.NewInsufficientStockError(available)
	}

	// 2. Transição de status, condicionada a Pending. A condição é a guarda
	//    final contra dupla transição: se outra chamada mudou o status depois
	//    da leitura do serviço, zero linhas são afetadas e o rollback do defer
	//    restaura o estoque decrementado no passo 1.
	statusResult, err := tx.ExecContext(ctxTimeout, `
        UPDATE requests
        SET status = $1, updated_at = $2
        WHERE id = $3 AND status = $4`,
		domain.StatusApproved, now, req.ID, domain.StatusPending,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar status da requisição na aprovação.", err)
		return domain.Request{}, errors.NewDBError("Falha ao atualizar status da requisição", err)
	}

	statusRows, err := statusResult.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas da transição.", err)
		return domain.Request{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if statusRows == 0 {
		r.logger.Warn("Transição recusada: requisição não está mais pendente.", map[string]interface{}{"request_id": req.ID})
		return domain.Request{}, errors.NewInvalidTransitionError(fmt.Sprintf("a requisição %s não está mais pendente.", req.ID))
	}

	// 3. Commit: só aqui as duas mutações se tornam visíveis, juntas.
	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de aprovação.", commitErr)
		return domain.Request{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	// 4. Invalida a entrada de cache do item (o contador mudou).
	r.Cache.Delete(ctxTimeout, itemCacheKeyFor(req.ItemType, req.ItemID))

	req.Status = domain.StatusApproved
	req.UpdatedAt = now
	r.logger.Info("Requisição aprovada com sucesso.", map[string]interface{}{
		"request_id": req.ID, "item_id": req.ItemID, "quantity": req.Quantity,
	})
	return req, nil
}

// Reject executa a transição Pending → Rejected. Não há efeito sobre o
// inventário; a condição de status no UPDATE é a guarda contra dupla transição.
func (r *RequestRepository) Reject(ctx context.Context, req domain.Request) (domain.Request, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	now := time.Now().UTC()
	result, err := r.DB.ExecContext(ctxTimeout, `
        UPDATE requests
        SET status = $1, updated_at = $2
        WHERE id = $3 AND status = $4`,
		domain.StatusRejected, now, req.ID, domain.StatusPending,
	)
	if err != nil {
		r.logger.Error("Falha ao rejeitar requisição no DB.", err)
		return domain.Request{}, errors.NewDBError("Falha ao rejeitar requisição", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas da rejeição.", err)
		return domain.Request{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		r.logger.Warn("Rejeição recusada: requisição não está mais pendente.", map[string]interface{}{"request_id": req.ID})
		return domain.Request{}, errors.NewInvalidTransitionError(fmt.Sprintf("a requisição %s não está mais pendente.", req.ID))
	}

	req.Status = domain.StatusRejected
	req.UpdatedAt = now
	r.logger.Info("Requisição rejeitada com sucesso.", map[string]interface{}{"request_id": req.ID})
	return req, nil
}

// DeleteIfPending remove uma requisição somente se ela ainda estiver Pendente.
// A condição de status no DELETE aplica a regra no servidor, não apenas na UI:
// requisições aprovadas/rejeitadas são histórico e não podem ser removidas.
func (r *RequestRepository) DeleteIfPending(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`DELETE FROM requests WHERE id = $1 AND status = $2`, id, domain.StatusPending)
	if err != nil {
		r.logger.Error("Falha ao deletar requisição do DB.", err)
		return errors.NewDBError("Falha ao deletar requisição", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de requisição.", err)
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		// Distinguir "não existe" de "existe mas não está mais pendente".
		_, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return findErr // NotFoundError (ou falha de DB)
		}
		r.logger.Info("Exclusão recusada: requisição não está pendente.", map[string]interface{}{"id": id})
		return errors.NewInvalidOperationError("apenas requisições pendentes podem ser excluídas.")
	}

	r.logger.Info("Requisição deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// CountPendingByItem conta as requisições Pendentes que referenciam um item.
// Usado pela guarda de exclusão de inventário.
func (r *RequestRepository) CountPendingByItem(ctx context.Context, itemType domain.ItemType, itemID string) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int
	err := r.DB.QueryRowContext(ctxTimeout, `
        SELECT COUNT(*) FROM requests
        WHERE item_type = $1 AND item_id = $2 AND status = $3`,
		itemType, itemID, domain.StatusPending,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Falha ao contar requisições pendentes do item.", err)
		return 0, errors.NewDBError("Falha ao contar requisições pendentes", err)
	}

	return count, nil
}
