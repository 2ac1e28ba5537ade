package medicinerepo

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

// medicineCacheKey é a chave de cache dos registros de medicamento.
// O requestrepo invalida a mesma chave após decrementar o estoque na aprovação.
const medicineCacheKey = "medicine:%s"

// MedicineRepository implementa a persistência do catálogo de medicamentos.
type MedicineRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewMedicineRepository cria e retorna uma nova instância do Repositório de Medicamentos.
func NewMedicineRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *MedicineRepository {
	return &MedicineRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

const medicineColumns = `id, medicine_name, type, description, dosage, unit, price_per_unit, available_units, manufacturer, expiry_date, supplier_id, created_at, updated_at`

// scanMedicine mapeia uma linha do DB para a struct domain.Medicine.
func scanMedicine(row interface{ Scan(dest ...interface{}) error }) (domain.Medicine, error) {
	var m domain.Medicine
	err := row.Scan(
		&m.ID, &m.MedicineName, &m.Type, &m.Description, &m.Dosage, &m.Unit,
		&m.PricePerUnit, &m.AvailableUnits, &m.Manufacturer, &m.ExpiryDate,
		&m.SupplierID, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// Save insere um novo medicamento no banco de dados.
func (r *MedicineRepository) Save(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error) {
	r.logger.Debug("Iniciando Save de medicamento no repositório.", map[string]interface{}{"medicine_name": medicine.MedicineName, "supplier_id": medicine.SupplierID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO medicines (` + medicineColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		medicine.ID, medicine.MedicineName, medicine.Type, medicine.Description,
		medicine.Dosage, medicine.Unit, medicine.PricePerUnit, medicine.AvailableUnits,
		medicine.Manufacturer, medicine.ExpiryDate, medicine.SupplierID,
		medicine.CreatedAt, medicine.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir medicamento no DB.", err)
		return domain.Medicine{}, errors.NewDBError("Falha ao criar medicamento", err)
	}

	r.logger.Info("Medicamento criado com sucesso.", map[string]interface{}{"id": medicine.ID, "medicine_name": medicine.MedicineName})
	return medicine, nil
}

// FindByID busca um medicamento pelo ID, utilizando a estratégia Cache-Aside.
func (r *MedicineRepository) FindByID(ctx context.Context, id string) (domain.Medicine, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(medicineCacheKey, id)
	var medicine domain.Medicine

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		// Cache HIT
		if json.Unmarshal([]byte(cachedData), &medicine) == nil {
			return medicine, nil
		}
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler medicamento do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	medicine, err = scanMedicine(r.DB.QueryRowContext(ctxTimeout, query, id))

	if err == sql.ErrNoRows {
		r.logger.Info("Medicamento não encontrado.", map[string]interface{}{"id": id})
		return domain.Medicine{}, errors.NewNotFoundError(fmt.Sprintf("Medicine com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar medicamento no DB.", err)
		return domain.Medicine{}, errors.NewDBError("Falha ao buscar medicamento", err)
	}

	// 3. Popula o cache para futuras requisições (Cache-Aside WRITE)
	if medicineJSON, marshalErr := json.Marshal(medicine); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, medicineJSON, r.CacheTTL)
	}

	return medicine, nil
}

// FindAll busca todos os medicamentos do catálogo.
func (r *MedicineRepository) FindAll(ctx context.Context) ([]domain.Medicine, error) {
	return r.findMany(ctx, `SELECT `+medicineColumns+` FROM medicines ORDER BY medicine_name`)
}

// FindBySupplier busca os medicamentos publicados por um fornecedor.
func (r *MedicineRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Medicine, error) {
	return r.findMany(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE supplier_id = $1 ORDER BY medicine_name`, supplierID)
}

func (r *MedicineRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.Medicine, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de medicamentos.", err)
		return nil, errors.NewDBError("Falha ao buscar medicamentos", err)
	}
	defer rows.Close()

	var medicines []domain.Medicine
	for rows.Next() {
		medicine, err := scanMedicine(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear medicamento na iteração.", err)
			return nil, errors.NewDBError("Falha ao mapear medicamentos do DB", err)
		}
		medicines = append(medicines, medicine)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de medicamentos.", err)
		return nil, errors.NewDBError("Erro após iteração de medicamentos", err)
	}

	return medicines, nil
}

// Update atualiza um medicamento existente e invalida a entrada de cache.
func (r *MedicineRepository) Update(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error) {
	r.logger.Debug("Iniciando Update de medicamento no repositório.", map[string]interface{}{"id": medicine.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	medicine.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE medicines
        SET medicine_name = $1, type = $2, description = $3, dosage = $4, unit = $5,
            price_per_unit = $6, available_units = $7, manufacturer = $8,
            expiry_date = $9, updated_at = $10
        WHERE id = $11
        RETURNING ` + medicineColumns

	updated, err := scanMedicine(r.DB.QueryRowContext(ctxTimeout, query,
		medicine.MedicineName, medicine.Type, medicine.Description, medicine.Dosage,
		medicine.Unit, medicine.PricePerUnit, medicine.AvailableUnits,
		medicine.Manufacturer, medicine.ExpiryDate, medicine.UpdatedAt, medicine.ID,
	))

	if err == sql.ErrNoRows {
		r.logger.Info("Medicamento não encontrado para atualização.", map[string]interface{}{"id": medicine.ID})
		return domain.Medicine{}, errors.NewNotFoundError(fmt.Sprintf("Medicine com ID %s não encontrado.", medicine.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar medicamento no DB.", err)
		return domain.Medicine{}, errors.NewDBError("Falha ao atualizar medicamento", err)
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(medicineCacheKey, medicine.ID))

	r.logger.Info("Medicamento atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// Delete remove um medicamento pelo ID e invalida a entrada de cache.
// A guarda contra requisições pendentes é responsabilidade do serviço.
func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de medicamento no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar medicamento do DB.", err)
		return errors.NewDBError("Falha ao deletar medicamento", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de medicamento.", err)
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		r.logger.Info("Medicamento não encontrado para exclusão.", map[string]interface{}{"id": id})
		return errors.NewNotFoundError(fmt.Sprintf("Medicine com ID %s não encontrado.", id))
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(medicineCacheKey, id))

	r.logger.Info("Medicamento deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
