package feedrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/errors"
	"farmconnect/internal/pkg/cache"
	"farmconnect/internal/pkg/logger"
)

// feedCacheKey é a chave de cache dos registros de feed.
// O requestrepo invalida a mesma chave após decrementar o estoque na aprovação.
const feedCacheKey = "feed:%s"

// FeedRepository implementa a persistência do catálogo de feeds.
type FeedRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewFeedRepository cria e retorna uma nova instância do Repositório de Feeds.
// Aqui injetamos as dependências de Infraestrutura (DB e Cache).
func NewFeedRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *FeedRepository {
	return &FeedRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

const feedColumns = `id, feed_name, type, description, unit, price_per_unit, available_units, supplier_id, created_at, updated_at`

// scanFeed mapeia uma linha do DB para a struct domain.Feed.
func scanFeed(row interface{ Scan(dest ...interface{}) error }) (domain.Feed, error) {
	var f domain.Feed
	err := row.Scan(
		&f.ID, &f.FeedName, &f.Type, &f.Description, &f.Unit,
		&f.PricePerUnit, &f.AvailableUnits, &f.SupplierID,
		&f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

// Save insere um novo feed no banco de dados.
func (r *FeedRepository) Save(ctx context.Context, feed domain.Feed) (domain.Feed, error) {
	r.logger.Debug("Iniciando Save de feed no repositório.", map[string]interface{}{"feed_name": feed.FeedName, "supplier_id": feed.SupplierID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO feeds (` + feedColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		feed.ID, feed.FeedName, feed.Type, feed.Description, feed.Unit,
		feed.PricePerUnit, feed.AvailableUnits, feed.SupplierID,
		feed.CreatedAt, feed.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir feed no DB.", err)
		return domain.Feed{}, errors.NewDBError("Falha ao criar feed", err)
	}

	r.logger.Info("Feed criado com sucesso.", map[string]interface{}{"id": feed.ID, "feed_name": feed.FeedName})
	return feed, nil
}

// FindByID busca um feed pelo ID, utilizando a estratégia Cache-Aside.
func (r *FeedRepository) FindByID(ctx context.Context, id string) (domain.Feed, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(feedCacheKey, id)
	var feed domain.Feed

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		// Cache HIT
		if json.Unmarshal([]byte(cachedData), &feed) == nil {
			return feed, nil
		}
		// Se a desserialização falhar, continua para o DB
	} else if err != cache.ErrCacheMiss {
		// Erro real de cache (ex: conexão perdida): logamos, mas continuamos.
		r.logger.Warn("Falha ao ler feed do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	query := `SELECT ` + feedColumns + ` FROM feeds WHERE id = $1`
	feed, err = scanFeed(r.DB.QueryRowContext(ctxTimeout, query, id))

	if err == sql.ErrNoRows {
		r.logger.Info("Feed não encontrado.", map[string]interface{}{"id": id})
		return domain.Feed{}, errors.NewNotFoundError(fmt.Sprintf("Feed com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar feed no DB.", err)
		return domain.Feed{}, errors.NewDBError("Falha ao buscar feed", err)
	}

	// 3. Popula o cache para futuras requisições (Cache-Aside WRITE)
	if feedJSON, marshalErr := json.Marshal(feed); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, feedJSON, r.CacheTTL)
	}

	return feed, nil
}

// FindAll busca todos os feeds do catálogo.
func (r *FeedRepository) FindAll(ctx context.Context) ([]domain.Feed, error) {
	return r.findMany(ctx, `SELECT `+feedColumns+` FROM feeds ORDER BY feed_name`)
}

// FindBySupplier busca os feeds publicados por um fornecedor.
func (r *FeedRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Feed, error) {
	return r.findMany(ctx, `SELECT `+feedColumns+` FROM feeds WHERE supplier_id = $1 ORDER BY feed_name`, supplierID)
}

// findMany executa uma query de listagem e mapeia as linhas.
func (r *FeedRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.Feed, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de feeds.", err)
		return nil, errors.NewDBError("Falha ao buscar feeds", err)
	}
	defer rows.Close()

	var feeds []domain.Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear feed na iteração.", err)
			return nil, errors.NewDBError("Falha ao mapear feeds do DB", err)
		}
		feeds = append(feeds, feed)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de feeds.", err)
		return nil, errors.NewDBError("Erro após iteração de feeds", err)
	}

	return feeds, nil
}

// Update atualiza um feed existente e invalida a entrada de cache.
func (r *FeedRepository) Update(ctx context.Context, feed domain.Feed) (domain.Feed, error) {
	r.logger.Debug("Iniciando Update de feed no repositório.", map[string]interface{}{"id": feed.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	feed.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE feeds
        SET feed_name = $1, type = $2, description = $3, unit = $4,
            price_per_unit = $5, available_units = $6, updated_at = $7
        WHERE id = $8
        RETURNING ` + feedColumns

	updated, err := scanFeed(r.DB.QueryRowContext(ctxTimeout, query,
		feed.FeedName, feed.Type, feed.Description, feed.Unit,
		feed.PricePerUnit, feed.AvailableUnits, feed.UpdatedAt, feed.ID,
	))

	if err == sql.ErrNoRows {
		r.logger.Info("Feed não encontrado para atualização.", map[string]interface{}{"id": feed.ID})
		return domain.Feed{}, errors.NewNotFoundError(fmt.Sprintf("Feed com ID %s não encontrado.", feed.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar feed no DB.", err)
		return domain.Feed{}, errors.NewDBError("Falha ao atualizar feed", err)
	}

	// Invalida o cache: a próxima leitura repopula com o registro atualizado.
	r.Cache.Delete(ctxTimeout, fmt.Sprintf(feedCacheKey, feed.ID))

	r.logger.Info("Feed atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// Delete remove um feed pelo ID e invalida a entrada de cache.
// A guarda contra requisições pendentes é responsabilidade do serviço.
func (r *FeedRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de feed no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM feeds WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar feed do DB.", err)
		return errors.NewDBError("Falha ao deletar feed", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de feed.", err)
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		r.logger.Info("Feed não encontrado para exclusão.", map[string]interface{}{"id": id})
		return errors.NewNotFoundError(fmt.Sprintf("Feed com ID %s não encontrado.", id))
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(feedCacheKey, id))

	r.logger.Info("Feed deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
