package userservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
	"farmconnect/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return user, args.Error(1)
	}
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

// MockTokenGenerator é uma implementação mock da interface TokenGenerator
type MockTokenGenerator struct {
	mock.Mock
}

func (m *MockTokenGenerator) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

// TestRegister_Success testa o cadastro com hash bcrypt e role válida.
func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockToken)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).Return(nil, nil)

	result, err := svc.Register(context.Background(), domain.UserRegistration{
		UserName: "Maria",
		Email:    "Maria@Fazenda.com",
		Mobile:   "11999990000",
		Password: "segredo123",
		Role:     domain.RoleOwner,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "maria@fazenda.com", result.Email, "e-mail é normalizado para minúsculas")
	assert.NotEqual(t, "segredo123", result.PasswordHash, "a senha nunca é armazenada em claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.PasswordHash), []byte("segredo123")))
	mockRepo.AssertExpectations(t)
}

// TestRegister_InvalidRole testa a rejeição de roles fora de Owner/Supplier.
func TestRegister_InvalidRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockToken)

	for _, role := range []domain.UserRole{"Admin", "", "owner"} {
		_, err := svc.Register(context.Background(), domain.UserRegistration{
			UserName: "João",
			Email:    "joao@fazenda.com",
			Password: "segredo123",
			Role:     role,
		})
		assert.Error(t, err)
		var valErr *apperror.ValidationError
		assert.ErrorAs(t, err, &valErr)
	}

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestRegister_DuplicateEmail propaga o DuplicateError do repositório.
func TestRegister_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockToken)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).
		Return(domain.User{}, apperror.NewDuplicateError("já existe um usuário cadastrado com o e-mail ana@fazenda.com."))

	_, err := svc.Register(context.Background(), domain.UserRegistration{
		UserName: "Ana",
		Email:    "ana@fazenda.com",
		Password: "segredo123",
		Role:     domain.RoleSupplier,
	})

	assert.Error(t, err)
	var dupErr *apperror.DuplicateError
	assert.ErrorAs(t, err, &dupErr)
}

// TestLogin_Success testa a autenticação e a emissão do token.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockToken)

	userID := uuid.New().String()
	hash, _ := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.DefaultCost)

	mockRepo.On("FindByEmail", mock.Anything, "maria@fazenda.com").
		Return(domain.User{ID: userID, UserName: "Maria", Email: "maria@fazenda.com", PasswordHash: string(hash), Role: domain.RoleOwner}, nil)
	mockToken.On("GenerateToken", userID, "Owner").Return("jwt-assinado", nil)

	result, err := svc.Login(context.Background(), "maria@fazenda.com", "segredo123")

	assert.NoError(t, err)
	assert.Equal(t, userID, result.UserID)
	assert.Equal(t, domain.RoleOwner, result.Role)
	assert.Equal(t, "jwt-assinado", result.Token)
	mockToken.AssertExpectations(t)
}

// TestLogin_WrongPassword retorna o mesmo erro genérico de credenciais.
func TestLogin_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockToken)

	hash, _ := bcrypt.GenerateFromPassword([]byte("certa"), bcrypt.DefaultCost)
	mockRepo.On("FindByEmail", mock.Anything, "maria@fazenda.com").
		Return(domain.User{ID: uuid.New().String(), PasswordHash: string(hash)}, nil)

	_, err := svc.Login(context.Background(), "maria@fazenda.com", "errada")

	assert.Error(t, err)
	var authErr *apperror.UnauthorizedError
	assert.ErrorAs(t, err, &authErr)
	mockToken.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

// TestLogin_UnknownEmail retorna o mesmo erro genérico, sem revelar a ausência.
func TestLogin_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockToken)

	mockRepo.On("FindByEmail", mock.Anything, "naoexiste@fazenda.com").
		Return(domain.User{}, apperror.NewNotFoundError("Usuário com e-mail naoexiste@fazenda.com não encontrado."))

	_, err := svc.Login(context.Background(), "naoexiste@fazenda.com", "qualquer")

	assert.Error(t, err)
	var authErr *apperror.UnauthorizedError
	assert.ErrorAs(t, err, &authErr, "a ausência do e-mail não deve vazar como NotFound")
}
