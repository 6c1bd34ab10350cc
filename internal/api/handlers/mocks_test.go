package handlers_test

import (
	"context"
	"io"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"github.com/jedrzejbor/osiedlsie/internal/models"
	"github.com/jedrzejbor/osiedlsie/internal/services"
	"github.com/jedrzejbor/osiedlsie/internal/validation"
)

// --- Mocks ---

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input *validation.RegisterInput) (string, *models.PublicUser, error) {
	args := m.Called(ctx, input)
	var user *models.PublicUser
	if args.Get(1) != nil {
		user = args.Get(1).(*models.PublicUser)
	}
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, input *validation.LoginInput) (string, *models.PublicUser, error) {
	args := m.Called(ctx, input)
	var user *models.PublicUser
	if args.Get(1) != nil {
		user = args.Get(1).(*models.PublicUser)
	}
	return args.String(0), user, args.Error(2)
}

// MockListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Create(ctx context.Context, input *validation.ListingInput, ownerID string) (*models.Listing, error) {
	args := m.Called(ctx, input, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) FindAll(ctx context.Context, status *models.ListingStatus) ([]models.Listing, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) FindOne(ctx context.Context, id, callerID string) (*models.Listing, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) FindMyListings(ctx context.Context, ownerID string) ([]models.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) Update(ctx context.Context, id string, input *validation.ListingInput, callerID string) (*models.Listing, error) {
	args := m.Called(ctx, id, input, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) Publish(ctx context.Context, id, callerID string) (*models.Listing, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) Unpublish(ctx context.Context, id, callerID string) (*models.Listing, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) Archive(ctx context.Context, id, callerID string) (*models.Listing, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) Remove(ctx context.Context, id, callerID string) error {
	args := m.Called(ctx, id, callerID)
	return args.Error(0)
}

// MockImageService
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) SaveImage(ctx context.Context, meta services.ImageMeta, listingID string, order int) (*models.ListingImage, error) {
	args := m.Called(ctx, meta, listingID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingImage), args.Error(1)
}

func (m *MockImageService) RemoveImage(ctx context.Context, imageID, callerID string) error {
	args := m.Called(ctx, imageID, callerID)
	return args.Error(0)
}

func (m *MockImageService) ReorderImages(ctx context.Context, listingID string, imageIDs []string, callerID string) error {
	args := m.Called(ctx, listingID, imageIDs, callerID)
	return args.Error(0)
}

func (m *MockImageService) FindByListing(ctx context.Context, listingID string) ([]models.ListingImage, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ListingImage), args.Error(1)
}

// MockAsynqClient
type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, filename string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, filename, r, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}
