package feedbackrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"farmconnect/internal/domain"
	"farmconnect/internal/errors"
	"farmconnect/internal/pkg/logger"
)

const pqUniqueViolation = "23505"

// FeedbackRepository implementa a persistência dos feedbacks.
//
// A remoção é lógica (is_deleted): feedbacks excluídos somem das listagens,
// mas permanecem na tabela. O índice único parcial sobre
// (owner_id, item_id, category) WHERE NOT is_deleted garante no máximo um
// feedback ativo por tripla, permitindo re-submissão após exclusão.
type FeedbackRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewFeedbackRepository cria e retorna uma nova instância do Repositório de Feedbacks.
func NewFeedbackRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *FeedbackRepository {
	return &FeedbackRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const feedbackColumns = `id, title, description, category, rating, item_id, item_name, supplier_id, owner_id, is_deleted, created_at, updated_at`

func scanFeedback(row interface{ Scan(dest ...interface{}) error }) (domain.Feedback, error) {
	var f domain.Feedback
	err := row.Scan(
		&f.ID, &f.Title, &f.Description, &f.Category, &f.Rating,
		&f.ItemID, &f.ItemName, &f.SupplierID, &f.OwnerID, &f.IsDeleted,
		&f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

// Save insere um novo feedback. A violação do índice único parcial
// (duas submissões concorrentes da mesma tripla) vira DuplicateError.
func (r *FeedbackRepository) Save(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	r.logger.Debug("Iniciando Save de feedback no repositório.", map[string]interface{}{
		"owner_id": feedback.OwnerID, "item_id": feedback.ItemID, "category": string(feedback.Category),
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO feedbacks (` + feedbackColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		feedback.ID, feedback.Title, feedback.Description, feedback.Category,
		feedback.Rating, feedback.ItemID, feedback.ItemName, feedback.SupplierID,
		feedback.OwnerID, feedback.IsDeleted, feedback.CreatedAt, feedback.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
			r.logger.Info("Feedback duplicado recusado pelo índice único.", map[string]interface{}{
				"owner_id": feedback.OwnerID, "item_id": feedback.ItemID, "category": string(feedback.Category),
			})
			return domain.Feedback{}, errors.NewDuplicateError("você já enviou um feedback para este item nesta categoria.")
		}
		r.logger.Error("Falha ao inserir feedback no DB.", err)
		return domain.Feedback{}, errors.NewDBError("Falha ao criar feedback", err)
	}

	r.logger.Info("Feedback criado com sucesso.", map[string]interface{}{"id": feedback.ID})
	return feedback, nil
}

// ExistsByTriple informa se já existe um feedback ativo do proprietário para
// o item naquela categoria.
func (r *FeedbackRepository) ExistsByTriple(ctx context.Context, ownerID, itemID string, category domain.ItemType) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout, `
        SELECT EXISTS (
            SELECT 1 FROM feedbacks
            WHERE owner_id = $1 AND item_id = $2 AND category = $3 AND NOT is_deleted
        )`, ownerID, itemID, category,
	).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar duplicidade de feedback.", err)
		return false, errors.NewDBError("Falha ao verificar feedback existente", err)
	}

	return exists, nil
}

// FindByOwner lista os feedbacks ativos enviados por um proprietário.
func (r *FeedbackRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedbacks WHERE owner_id = $1 AND NOT is_deleted ORDER BY created_at DESC`
	return r.findMany(ctx, query, ownerID)
}

// FindBySupplier lista os feedbacks ativos recebidos por um fornecedor.
func (r *FeedbackRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedbacks WHERE supplier_id = $1 AND NOT is_deleted ORDER BY created_at DESC`
	return r.findMany(ctx, query, supplierID)
}

func (r *FeedbackRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.Feedback, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de feedbacks.", err)
		return nil, errors.NewDBError("Falha ao buscar feedbacks", err)
	}
	defer rows.Close()

	var feedbacks []domain.Feedback
	for rows.Next() {
		feedback, err := scanFeedback(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear feedback na iteração.", err)
			return nil, errors.NewDBError("Falha ao mapear feedbacks do DB", err)
		}
		feedbacks = append(feedbacks, feedback)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de feedbacks.", err)
		return nil, errors.NewDBError("Erro após iteração de feedbacks", err)
	}

	return feedbacks, nil
}

// Delete marca um feedback como excluído (remoção lógica), somente se ele
// pertencer ao proprietário informado.
func (r *FeedbackRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.logger.Debug("Iniciando Delete lógico de feedback no repositório.", map[string]interface{}{"id": id, "owner_id": ownerID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `
        UPDATE feedbacks
        SET is_deleted = TRUE, updated_at = $1
        WHERE id = $2 AND owner_id = $3 AND NOT is_deleted`,
		time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		r.logger.Error("Falha ao deletar feedback no DB.", err)
		return errors.NewDBError("Falha ao deletar feedback", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de feedback.", err)
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		r.logger.Info("Feedback não encontrado para exclusão.", map[string]interface{}{"id": id, "owner_id": ownerID})
		return errors.NewNotFoundError(fmt.Sprintf("Feedback com ID %s não encontrado.", id))
	}

	r.logger.Info("Feedback excluído com sucesso.", map[string]interface{}{"id": id})
	return nil
}
