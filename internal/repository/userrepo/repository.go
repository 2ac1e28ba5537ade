package userrepo

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

// Código de erro do PostgreSQL para violação de constraint UNIQUE.
const pqUniqueViolation = "23505"

// UserRepository implementa a persistência de usuários.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria e retorna uma nova instância do Repositório de Usuários.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const userColumns = `id, user_name, email, mobile, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...interface{}) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.UserName, &u.Email, &u.Mobile, &u.PasswordHash,
		&u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// Save insere um novo usuário. A unicidade do e-mail é garantida pela
// constraint do banco; a violação é traduzida para DuplicateError.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": user.Email, "role": string(user.Role)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		user.ID, user.UserName, user.Email, user.Mobile, user.PasswordHash,
		user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
			r.logger.Info("Cadastro recusado: e-mail já registrado.", map[string]interface{}{"email": user.Email})
			return domain.User{}, errors.NewDuplicateError(fmt.Sprintf("já existe um usuário cadastrado com o e-mail %s.", user.Email))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, errors.NewDBError("Falha ao criar usuário", err)
	}

	r.logger.Info("Usuário criado com sucesso.", map[string]interface{}{"id": user.ID, "role": string(user.Role)})
	return user, nil
}

// FindByEmail busca um usuário pelo e-mail (usado no login).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, email))

	if err == sql.ErrNoRows {
		r.logger.Info("Usuário não encontrado por e-mail.", map[string]interface{}{"email": email})
		return domain.User{}, errors.NewNotFoundError(fmt.Sprintf("Usuário com e-mail %s não encontrado.", email))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por e-mail no DB.", err)
		return domain.User{}, errors.NewDBError("Falha ao buscar usuário", err)
	}

	return user, nil
}

// FindByID busca um usuário pelo ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, id))

	if err == sql.ErrNoRows {
		r.logger.Info("Usuário não encontrado.", map[string]interface{}{"id": id})
		return domain.User{}, errors.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário no DB.", err)
		return domain.User{}, errors.NewDBError("Falha ao buscar usuário", err)
	}

	return user, nil
}
