package livestockrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/errors"
	"farmconnect/internal/pkg/logger"
)

// LivestockRepository implementa a persistência do rebanho.
// Todas as operações de escrita são escopadas pelo owner_id: um proprietário
// nunca enxerga ou altera registros de outro.
type LivestockRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewLivestockRepository cria e retorna uma nova instância do Repositório de Rebanho.
func NewLivestockRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *LivestockRepository {
	return &LivestockRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const livestockColumns = `id, name, species, age, breed, health_condition, location, vaccination_status, attachment, owner_id, created_at, updated_at`

func scanLivestock(row interface{ Scan(dest ...interface{}) error }) (domain.Livestock, error) {
	var l domain.Livestock
	err := row.Scan(
		&l.ID, &l.Name, &l.Species, &l.Age, &l.Breed, &l.HealthCondition,
		&l.Location, &l.VaccinationStatus, &l.Attachment, &l.OwnerID,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Save insere um novo registro de rebanho.
func (r *LivestockRepository) Save(ctx context.Context, livestock domain.Livestock) (domain.Livestock, error) {
	r.logger.Debug("Iniciando Save de rebanho no repositório.", map[string]interface{}{"name": livestock.Name, "owner_id": livestock.OwnerID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO livestock (` + livestockColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		livestock.ID, livestock.Name, livestock.Species, livestock.Age,
		livestock.Breed, livestock.HealthCondition, livestock.Location,
		livestock.VaccinationStatus, livestock.Attachment, livestock.OwnerID,
		livestock.CreatedAt, livestock.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir registro de rebanho no DB.", err)
		return domain.Livestock{}, errors.NewDBError("Falha ao criar registro de rebanho", err)
	}

	r.logger.Info("Registro de rebanho criado com sucesso.", map[string]interface{}{"id": livestock.ID})
	return livestock, nil
}

// FindByID busca um registro de rebanho pelo ID, escopado pelo proprietário.
func (r *LivestockRepository) FindByID(ctx context.Context, id, ownerID string) (domain.Livestock, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + livestockColumns + ` FROM livestock WHERE id = $1 AND owner_id = $2`
	livestock, err := scanLivestock(r.DB.QueryRowContext(ctxTimeout, query, id, ownerID))

	if err == sql.ErrNoRows {
		r.logger.Info("Registro de rebanho não encontrado.", map[string]interface{}{"id": id, "owner_id": ownerID})
		return domain.Livestock{}, errors.NewNotFoundError(fmt.Sprintf("Registro de rebanho com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar registro de rebanho no DB.", err)
		return domain.Livestock{}, errors.NewDBError("Falha ao buscar registro de rebanho", err)
	}

	return livestock, nil
}

// FindByOwner lista o rebanho de um proprietário.
func (r *LivestockRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Livestock, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + livestockColumns + ` FROM livestock WHERE owner_id = $1 ORDER BY name`
	rows, err := r.DB.QueryContext(ctxTimeout, query, ownerID)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de rebanho.", err)
		return nil, errors.NewDBError("Falha ao buscar rebanho", err)
	}
	defer rows.Close()

	var herd []domain.Livestock
	for rows.Next() {
		livestock, err := scanLivestock(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear registro de rebanho na iteração.", err)
			return nil, errors.NewDBError("Falha ao mapear rebanho do DB", err)
		}
		herd = append(herd, livestock)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de rebanho.", err)
		return nil, errors.NewDBError("Erro após iteração de rebanho", err)
	}

	return herd, nil
}

// Update atualiza um registro de rebanho, escopado pelo proprietário.
func (r *LivestockRepository) Update(ctx context.Context, livestock domain.Livestock) (domain.Livestock, error) {
	r.logger.Debug("Iniciando Update de rebanho no repositório.", map[string]interface{}{"id": livestock.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	livestock.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE livestock
        SET name = $1, species = $2, age = $3, breed = $4, health_condition = $5,
            location = $6, vaccination_status = $7, attachment = $8, updated_at = $9
        WHERE id = $10 AND owner_id = $11
        RETURNING ` + livestockColumns

	updated, err := scanLivestock(r.DB.QueryRowContext(ctxTimeout, query,
		livestock.Name, livestock.Species, livestock.Age, livestock.Breed,
		livestock.HealthCondition, livestock.Location, livestock.VaccinationStatus,
		livestock.Attachment, livestock.UpdatedAt, livestock.ID, livestock.OwnerID,
	))

	if err == sql.ErrNoRows {
		r.logger.Info("Registro de rebanho não encontrado para atualização.", map[string]interface{}{"id": livestock.ID})
		return domain.Livestock{}, errors.NewNotFoundError(fmt.Sprintf("Registro de rebanho com ID %s não encontrado.", livestock.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar registro de rebanho no DB.", err)
		return domain.Livestock{}, errors.NewDBError("Falha ao atualizar registro de rebanho", err)
	}

	r.logger.Info("Registro de rebanho atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// Delete remove um registro de rebanho, escopado pelo proprietário.
func (r *LivestockRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.logger.Debug("Iniciando Delete de rebanho no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM livestock WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		r.logger.Error("Falha ao deletar registro de rebanho do DB.", err)
		return errors.NewDBError("Falha ao deletar registro de rebanho", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de rebanho.", err)
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		r.logger.Info("Registro de rebanho não encontrado para exclusão.", map[string]interface{}{"id": id})
		return errors.NewNotFoundError(fmt.Sprintf("Registro de rebanho com ID %s não encontrado.", id))
	}

	r.logger.Info("Registro de rebanho deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
