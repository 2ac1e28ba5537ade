package feedbackservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
	"farmconnect/internal/service/feedbackservice"
)

// MockFeedbackRepository é uma implementação mock da interface FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Save(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	args := m.Called(ctx, feedback)
	if args.Get(0) == nil {
		return feedback, args.Error(1)
	}
	return args.Get(0).(domain.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) ExistsByTriple(ctx context.Context, ownerID, itemID string, category domain.ItemType) (bool, error) {
	args := m.Called(ctx, ownerID, itemID, category)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeedbackRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Feedback, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Feedback, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) Delete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// MockInventoryResolver é uma implementação mock da interface InventoryResolver
type MockInventoryResolver struct {
	mock.Mock
}

func (m *MockInventoryResolver) FindItem(ctx context.Context, itemType domain.ItemType, itemID string) (domain.InventoryItem, error) {
	args := m.Called(ctx, itemType, itemID)
	return args.Get(0).(domain.InventoryItem), args.Error(1)
}

// TestCreateFeedback_Success testa a submissão com resolução do item no servidor.
func TestCreateFeedback_Success(t *testing.T) {
	mockRepo := new(MockFeedbackRepository)
	mockInventory := new(MockInventoryResolver)
	svc := feedbackservice.NewService(mockRepo, mockInventory)

	ownerID := uuid.New().String()
	itemID := uuid.New().String()
	supplierID := uuid.New().String()

	mockInventory.On("FindItem", mock.Anything, domain.ItemTypeMedicine, itemID).
		Return(domain.InventoryItem{ID: itemID, Type: domain.ItemTypeMedicine, Name: "Vermífugo Oral", SupplierID: supplierID, AvailableUnits: 7}, nil)
	mockRepo.On("ExistsByTriple", mock.Anything, ownerID, itemID, domain.ItemTypeMedicine).Return(false, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Feedback")).Return(nil, nil)

	result, err := svc.CreateFeedback(context.Background(), ownerID, domain.FeedbackCreation{
		Title:    "Excelente produto",
		Category: domain.ItemTypeMedicine,
		Rating:   5,
		ItemID:   itemID,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Vermífugo Oral", result.ItemName, "o itemName é o snapshot resolvido no servidor")
	assert.Equal(t, supplierID, result.SupplierID, "o supplierId vem do item resolvido, não do payload")
	assert.False(t, result.IsDeleted)
	mockRepo.AssertExpectations(t)
}

// TestCreateFeedback_Duplicate garante um único feedback ativo por
// (proprietário, item, categoria).
func TestCreateFeedback_Duplicate(t *testing.T) {
	mockRepo := new(MockFeedbackRepository)
	mockInventory := new(MockInventoryResolver)
	svc := feedbackservice.NewService(mockRepo, mockInventory)

	ownerID := uuid.New().String()
	itemID := uuid.New().String()

	mockInventory.On("FindItem", mock.Anything, domain.ItemTypeFeed, itemID).
		Return(domain.InventoryItem{ID: itemID, Type: domain.ItemTypeFeed, Name: "Silagem"}, nil)
	mockRepo.On("ExistsByTriple", mock.Anything, ownerID, itemID, domain.ItemTypeFeed).Return(true, nil)

	_, err := svc.CreateFeedback(context.Background(), ownerID, domain.FeedbackCreation{
		Title:    "Repetido",
		Category: domain.ItemTypeFeed,
		Rating:   4,
		ItemID:   itemID,
	})

	assert.Error(t, err)
	var dupErr *apperror.DuplicateError
	assert.ErrorAs(t, err, &dupErr)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateFeedback_Validation testa nota fora de 1..5 e categoria inválida.
func TestCreateFeedback_Validation(t *testing.T) {
	mockRepo := new(MockFeedbackRepository)
	mockInventory := new(MockInventoryResolver)
	svc := feedbackservice.NewService(mockRepo, mockInventory)

	cases := []struct {
		name     string
		creation domain.FeedbackCreation
	}{
		{"nota zero", domain.FeedbackCreation{Title: "x", Category: domain.ItemTypeFeed, Rating: 0, ItemID: uuid.New().String()}},
		{"nota acima de cinco", domain.FeedbackCreation{Title: "x", Category: domain.ItemTypeFeed, Rating: 6, ItemID: uuid.New().String()}},
		{"categoria inválida", domain.FeedbackCreation{Title: "x", Category: "Livestock", Rating: 3, ItemID: uuid.New().String()}},
		{"título vazio", domain.FeedbackCreation{Category: domain.ItemTypeFeed, Rating: 3, ItemID: uuid.New().String()}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateFeedback(context.Background(), uuid.New().String(), tc.creation)
			assert.Error(t, err)
			var valErr *apperror.ValidationError
			assert.ErrorAs(t, err, &valErr)
		})
	}

	mockInventory.AssertNotCalled(t, "FindItem", mock.Anything, mock.Anything, mock.Anything)
}

// TestCreateFeedback_ItemNotFound propaga o NotFound do resolver.
func TestCreateFeedback_ItemNotFound(t *testing.T) {
	mockRepo := new(MockFeedbackRepository)
	mockInventory := new(MockInventoryResolver)
	svc := feedbackservice.NewService(mockRepo, mockInventory)

	itemID := uuid.New().String()
	mockInventory.On("FindItem", mock.Anything, domain.ItemTypeFeed, itemID).
		Return(domain.InventoryItem{}, apperror.NewNotFoundError("Feed com ID "+itemID+" não encontrado."))

	_, err := svc.CreateFeedback(context.Background(), uuid.New().String(), domain.FeedbackCreation{
		Title:    "x",
		Category: domain.ItemTypeFeed,
		Rating:   3,
		ItemID:   itemID,
	})

	assert.Error(t, err)
	var nfErr *apperror.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

// TestDeleteFeedback_Delegates testa a exclusão lógica escopada pelo proprietário.
func TestDeleteFeedback_Delegates(t *testing.T) {
	mockRepo := new(MockFeedbackRepository)
	mockInventory := new(MockInventoryResolver)
	svc := feedbackservice.NewService(mockRepo, mockInventory)

	id := uuid.New().String()
	ownerID := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, id, ownerID).Return(nil)

	err := svc.DeleteFeedback(context.Background(), id, ownerID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
