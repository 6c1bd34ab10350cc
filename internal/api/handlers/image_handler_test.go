package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jedrzejbor/osiedlsie/internal/api/handlers"
	"github.com/jedrzejbor/osiedlsie/internal/config"
	"github.com/jedrzejbor/osiedlsie/internal/models"
	"github.com/jedrzejbor/osiedlsie/internal/services"
)

func testUploadConfig() *config.Config {
	return &config.Config{
		MaxUploadFiles:  10,
		MaxUploadSizeMB: 10,
	}
}

// multipartBody builds a form with the named file parts carrying the given
// content type.
func multipartBody(t *testing.T, field, contentType string, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range filenames {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
		h.Set("Content-Type", contentType)
		part, err := writer.CreatePart(h)
		assert.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestImageHandler_Upload_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockImageSvc := new(MockImageService)
	mockStore := new(MockStorage)
	mockClient := new(MockAsynqClient)
	handler := handlers.NewImageHandler(testUploadConfig(), mockImageSvc, mockStore, mockClient)

	userID := uuid.NewString()
	r := gin.New()
	r.POST("/listings/images/upload", asUser(userID), handler.Upload)

	mockStore.On("Save", mock.Anything, mock.Anything, mock.Anything, "image/jpeg").
		Return("/uploads/listings/stored.jpg", nil).Twice()
	mockImageSvc.On("SaveImage", mock.Anything, mock.Anything, "", mock.Anything).
		Return(&models.ListingImage{ID: uuid.NewString()}, nil).Twice()
	mockClient.On("Enqueue", mock.Anything, mock.Anything).Return(&asynq.TaskInfo{}, nil).Twice()

	body, contentType := multipartBody(t, "images", "image/jpeg", "a.jpg", "b.jpg")
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockImageSvc.AssertExpectations(t)
	mockStore.AssertExpectations(t)
	mockClient.AssertExpectations(t)
}

func TestImageHandler_Upload_RejectsUnsupportedType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockImageSvc := new(MockImageService)
	mockStore := new(MockStorage)
	mockClient := new(MockAsynqClient)
	handler := handlers.NewImageHandler(testUploadConfig(), mockImageSvc, mockStore, mockClient)

	r := gin.New()
	r.POST("/listings/images/upload", asUser(uuid.NewString()), handler.Upload)

	body, contentType := multipartBody(t, "images", "application/pdf", "doc.pdf")
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Dozwolone formaty")
	mockStore.AssertNotCalled(t, "Save")
	mockImageSvc.AssertNotCalled(t, "SaveImage")
}

func TestImageHandler_Upload_NoFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockImageSvc := new(MockImageService)
	mockStore := new(MockStorage)
	mockClient := new(MockAsynqClient)
	handler := handlers.NewImageHandler(testUploadConfig(), mockImageSvc, mockStore, mockClient)

	r := gin.New()
	r.POST("/listings/images/upload", asUser(uuid.NewString()), handler.Upload)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	assert.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings/images/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Nie przesłano")
}

func TestImageHandler_Upload_TooManyFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testUploadConfig()
	cfg.MaxUploadFiles = 2
	mockImageSvc := new(MockImageService)
	mockStore := new(MockStorage)
	mockClient := new(MockAsynqClient)
	handler := handlers.NewImageHandler(cfg, mockImageSvc, mockStore, mockClient)

	r := gin.New()
	r.POST("/listings/images/upload", asUser(uuid.NewString()), handler.Upload)

	body, contentType := multipartBody(t, "images", "image/jpeg", "a.jpg", "b.jpg", "c.jpg")
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockStore.AssertNotCalled(t, "Save")
}

func TestImageHandler_Remove_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockImageSvc := new(MockImageService)
	handler := handlers.NewImageHandler(testUploadConfig(), mockImageSvc, new(MockStorage), new(MockAsynqClient))

	userID := uuid.NewString()
	r := gin.New()
	r.DELETE("/listings/images/:imageId", asUser(userID), handler.Remove)

	imageID := uuid.NewString()
	mockImageSvc.On("RemoveImage", mock.Anything, imageID, userID).Return(services.ErrImageNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/listings/images/"+imageID, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockImageSvc.AssertExpectations(t)
}

func TestImageHandler_Reorder_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockImageSvc := new(MockImageService)
	handler := handlers.NewImageHandler(testUploadConfig(), mockImageSvc, new(MockStorage), new(MockAsynqClient))

	userID := uuid.NewString()
	r := gin.New()
	r.POST("/listings/:id/images/reorder", asUser(userID), handler.Reorder)

	listingID := uuid.NewString()
	first := uuid.NewString()
	second := uuid.NewString()
	mockImageSvc.On("ReorderImages", mock.Anything, listingID, []string{first, second}, userID).Return(nil)

	body := bytes.NewBufferString(`{"imageIds": ["` + first + `", "` + second + `"]}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings/"+listingID+"/images/reorder", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockImageSvc.AssertExpectations(t)
}

func TestImageHandler_Reorder_InvalidImageID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockImageSvc := new(MockImageService)
	handler := handlers.NewImageHandler(testUploadConfig(), mockImageSvc, new(MockStorage), new(MockAsynqClient))

	r := gin.New()
	r.POST("/listings/:id/images/reorder", asUser(uuid.NewString()), handler.Reorder)

	body := bytes.NewBufferString(`{"imageIds": ["not-a-uuid"]}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings/"+uuid.NewString()+"/images/reorder", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockImageSvc.AssertNotCalled(t, "ReorderImages")
}
