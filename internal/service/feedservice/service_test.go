package feedservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
	"farmconnect/internal/service/feedservice"
)

// MockFeedRepository é uma implementação mock da interface FeedRepository
type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) Save(ctx context.Context, feed domain.Feed) (domain.Feed, error) {
	args := m.Called(ctx, feed)
	if args.Get(0) == nil {
		return feed, args.Error(1)
	}
	return args.Get(0).(domain.Feed), args.Error(1)
}

func (m *MockFeedRepository) FindByID(ctx context.Context, id string) (domain.Feed, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Feed), args.Error(1)
}

func (m *MockFeedRepository) FindAll(ctx context.Context) ([]domain.Feed, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Feed), args.Error(1)
}

func (m *MockFeedRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Feed, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).([]domain.Feed), args.Error(1)
}

func (m *MockFeedRepository) Update(ctx context.Context, feed domain.Feed) (domain.Feed, error) {
	args := m.Called(ctx, feed)
	return args.Get(0).(domain.Feed), args.Error(1)
}

func (m *MockFeedRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPendingChecker é uma implementação mock da interface PendingRequestChecker
type MockPendingChecker struct {
	mock.Mock
}

func (m *MockPendingChecker) CountPendingByItem(ctx context.Context, itemType domain.ItemType, itemID string) (int, error) {
	args := m.Called(ctx, itemType, itemID)
	return args.Int(0), args.Error(1)
}

// TestCreateFeed_Success testa a publicação de um feed pelo fornecedor.
func TestCreateFeed_Success(t *testing.T) {
	mockRepo := new(MockFeedRepository)
	mockPending := new(MockPendingChecker)
	svc := feedservice.NewService(mockRepo, mockPending)

	supplierID := uuid.New().String()
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Feed")).Return(nil, nil)

	result, err := svc.CreateFeed(context.Background(), supplierID, domain.Feed{
		FeedName:       "Feno de Alfafa",
		Unit:           "kg",
		PricePerUnit:   12.5,
		AvailableUnits: 100,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, supplierID, result.SupplierID, "o supplierId vem da autenticação, não do payload")
	mockRepo.AssertExpectations(t)
}

// TestCreateFeed_Validation testa as rejeições de payload inválido.
func TestCreateFeed_Validation(t *testing.T) {
	mockRepo := new(MockFeedRepository)
	mockPending := new(MockPendingChecker)
	svc := feedservice.NewService(mockRepo, mockPending)

	cases := []struct {
		name string
		feed domain.Feed
	}{
		{"nome vazio", domain.Feed{PricePerUnit: 10, AvailableUnits: 5}},
		{"preço zero", domain.Feed{FeedName: "Milho", PricePerUnit: 0, AvailableUnits: 5}},
		{"unidades negativas", domain.Feed{FeedName: "Milho", PricePerUnit: 10, AvailableUnits: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateFeed(context.Background(), uuid.New().String(), tc.feed)
			assert.Error(t, err)
			var valErr *apperror.ValidationError
			assert.ErrorAs(t, err, &valErr)
		})
	}

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestDeleteFeed_BlockedByPendingRequests garante que um feed referenciado
// por requisições Pendentes não sai do catálogo.
func TestDeleteFeed_BlockedByPendingRequests(t *testing.T) {
	mockRepo := new(MockFeedRepository)
	mockPending := new(MockPendingChecker)
	svc := feedservice.NewService(mockRepo, mockPending)

	feedID := uuid.New().String()
	mockPending.On("CountPendingByItem", mock.Anything, domain.ItemTypeFeed, feedID).Return(2, nil)

	err := svc.DeleteFeed(context.Background(), feedID)

	assert.Error(t, err)
	var conflictErr *apperror.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestDeleteFeed_AllowedWhenOnlyDecidedRequests garante que requisições já
// decididas não bloqueiam a exclusão.
func TestDeleteFeed_AllowedWhenOnlyDecidedRequests(t *testing.T) {
	mockRepo := new(MockFeedRepository)
	mockPending := new(MockPendingChecker)
	svc := feedservice.NewService(mockRepo, mockPending)

	feedID := uuid.New().String()
	mockPending.On("CountPendingByItem", mock.Anything, domain.ItemTypeFeed, feedID).Return(0, nil)
	mockRepo.On("Delete", mock.Anything, feedID).Return(nil)

	err := svc.DeleteFeed(context.Background(), feedID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockPending.AssertExpectations(t)
}

// TestGetFeed_NotFound propaga o NotFound do repositório.
func TestGetFeed_NotFound(t *testing.T) {
	mockRepo := new(MockFeedRepository)
	mockPending := new(MockPendingChecker)
	svc := feedservice.NewService(mockRepo, mockPending)

	feedID := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, feedID).
		Return(domain.Feed{}, apperror.NewNotFoundError("Feed com ID "+feedID+" não encontrado."))

	_, err := svc.GetFeed(context.Background(), feedID)

	assert.Error(t, err)
	var nfErr *apperror.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}
