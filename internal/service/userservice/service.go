package userservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
)

// UserRepository define o contrato que este Serviço espera da camada de
// persistência de usuários.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// TokenGenerator emite o JWT devolvido após o login.
type TokenGenerator interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// Service implementa o cadastro e a autenticação de usuários.
type Service struct {
	repo     UserRepository
	tokenSvc TokenGenerator
}

// NewService cria e retorna uma nova instância do Serviço de Usuários.
func NewService(repo UserRepository, tokenSvc TokenGenerator) *Service {
	return &Service{repo: repo, tokenSvc: tokenSvc}
}

// Register cadastra um novo usuário. A senha nunca é armazenada em claro:
// apenas o hash bcrypt vai ao banco.
func (s *Service) Register(ctx domain.Context, registration domain.UserRegistration) (domain.User, error) {

	// 1. Casting e Contexto
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	// 2. Validação de Regras de Negócio
	if registration.UserName == "" || registration.Email == "" || registration.Password == "" {
		return domain.User{}, apperror.NewValidationError("Nome, e-mail e senha são obrigatórios.")
	}
	if !strings.Contains(registration.Email, "@") {
		return domain.User{}, apperror.NewValidationError("O e-mail informado é inválido.")
	}
	if len(registration.Password) < 6 {
		return domain.User{}, apperror.NewValidationError("A senha deve ter no mínimo 6 caracteres.")
	}
	if !registration.Role.IsValid() {
		return domain.User{}, apperror.NewValidationError(fmt.Sprintf("Role inválida: %q. Use 'Owner' ou 'Supplier'.", registration.Role))
	}

	// 3. Hash da senha
	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.New().String(),
		UserName:     registration.UserName,
		Email:        strings.ToLower(strings.TrimSpace(registration.Email)),
		Mobile:       registration.Mobile,
		PasswordHash: string(hash),
		Role:         registration.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 4. Delegação para a Camada de Persistência (Repository)
	// A unicidade do e-mail é garantida pelo banco (DuplicateError na violação).
	createdUser, err := s.repo.Save(ctxGo, user)
	if err != nil {
		return domain.User{}, err
	}

	return createdUser, nil
}

// Login autentica o usuário por e-mail e senha e devolve o JWT de sessão.
// Credenciais inválidas e e-mail inexistente retornam o MESMO erro genérico,
// sem revelar qual dos dois falhou.
func (s *Service) Login(ctx domain.Context, email, password string) (domain.LoginResult, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if email == "" || password == "" {
		return domain.LoginResult{}, apperror.NewValidationError("E-mail e senha são obrigatórios.")
	}

	user, err := s.repo.FindByEmail(ctxGo, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return domain.LoginResult{}, apperror.NewUnauthorizedError("E-mail ou senha inválidos.")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.LoginResult{}, apperror.NewUnauthorizedError("E-mail ou senha inválidos.")
	}

	tokenString, err := s.tokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return domain.LoginResult{}, apperror.NewInternalError("Falha ao gerar token de sessão", err)
	}

	return domain.LoginResult{
		UserID:   user.ID,
		UserName: user.UserName,
		Role:     user.Role,
		Token:    tokenString,
	}, nil
}

// GetUser busca um usuário pelo ID (perfil do usuário autenticado).
func (s *Service) GetUser(ctx domain.Context, id string) (domain.User, error) {

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if id == "" {
		return domain.User{}, apperror.NewValidationError("O ID do usuário é obrigatório.")
	}

	return s.repo.FindByID(ctxGo, id)
}
