package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jedrzejbor/osiedlsie/internal/config"
	"github.com/jedrzejbor/osiedlsie/internal/models"
	"github.com/jedrzejbor/osiedlsie/internal/services"
	"github.com/jedrzejbor/osiedlsie/internal/storage"
	"github.com/jedrzejbor/osiedlsie/internal/tasks"
)

var allowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// ImageHandler exposes the upload, delete and reorder endpoints. Files are
// written to storage first; the row insert and the resize task follow.
type ImageHandler struct {
	cfg          *config.Config
	imageService services.IImageService
	store        storage.Storage
	taskClient   IAsynqClient
}

func NewImageHandler(cfg *config.Config, imageService services.IImageService, store storage.Storage, taskClient IAsynqClient) *ImageHandler {
	return &ImageHandler{cfg: cfg, imageService: imageService, store: store, taskClient: taskClient}
}

// Upload handles POST /listings/images/upload with a multipart "images"
// field. An optional listingId field attaches the uploads immediately.
func (h *ImageHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nie przesłano żadnych plików"})
		return
	}
	if len(files) > h.cfg.MaxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Można przesłać maksymalnie %d zdjęć", h.cfg.MaxUploadFiles)})
		return
	}

	listingID := c.PostForm("listingId")
	if listingID != "" {
		if _, err := uuid.Parse(listingID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
			return
		}
	}

	saved := make([]*models.ListingImage, 0, len(files))
	for i, fileHeader := range files {
		img, err := h.saveOne(c, fileHeader, listingID, i)
		if err != nil {
			return // response already written
		}
		saved = append(saved, img)
	}

	c.JSON(http.StatusCreated, saved)
}

// UploadSingle handles POST /listings/images/upload-single with a multipart
// "image" field and an optional numeric "order" field.
func (h *ImageHandler) UploadSingle(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nie przesłano żadnych plików"})
		return
	}

	listingID := c.PostForm("listingId")
	if listingID != "" {
		if _, err := uuid.Parse(listingID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
			return
		}
	}

	order := 0
	if raw := c.PostForm("order"); raw != "" {
		order, err = strconv.Atoi(raw)
		if err != nil || order < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order value"})
			return
		}
	}

	img, err := h.saveOne(c, fileHeader, listingID, order)
	if err != nil {
		return
	}
	c.JSON(http.StatusCreated, img)
}

// saveOne validates a single upload, writes the file and inserts the row.
// On failure the HTTP response has already been written.
func (h *ImageHandler) saveOne(c *gin.Context, fileHeader *multipart.FileHeader, listingID string, order int) (*models.ListingImage, error) {
	mimeType := fileHeader.Header.Get("Content-Type")
	if !allowedImageMimeTypes[mimeType] {
		err := fmt.Errorf("unsupported mime type %s", mimeType)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dozwolone formaty: JPEG, PNG, WebP"})
		return nil, err
	}
	if fileHeader.Size > h.cfg.MaxUploadSizeBytes() {
		err := fmt.Errorf("file too large: %d bytes", fileHeader.Size)
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Plik jest za duży (max %dMB)", h.cfg.MaxUploadSizeMB)})
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, err
	}
	defer src.Close()

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	path, err := h.store.Save(c.Request.Context(), filename, src, mimeType)
	if err != nil {
		log.Printf("Failed to store upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, err
	}

	img, err := h.imageService.SaveImage(c.Request.Context(), services.ImageMeta{
		Filename:     filename,
		OriginalName: fileHeader.Filename,
		MimeType:     mimeType,
		Size:         fileHeader.Size,
		Path:         path,
	}, listingID, order)
	if err != nil {
		respondServiceError(c, err)
		return nil, err
	}

	h.enqueueProcessing(filename)
	return img, nil
}

// enqueueProcessing schedules the resize task. Uploads succeed even when the
// queue is down; the image simply stays unprocessed.
func (h *ImageHandler) enqueueProcessing(filename string) {
	task, err := tasks.NewImageProcessTask(filename)
	if err != nil {
		log.Printf("Failed to build image task for %s: %v", filename, err)
		return
	}
	if _, err := h.taskClient.Enqueue(task); err != nil {
		log.Printf("Failed to enqueue image task for %s: %v", filename, err)
	}
}

// Remove handles DELETE /listings/images/:imageId.
func (h *ImageHandler) Remove(c *gin.Context) {
	imageID := c.Param("imageId")
	if _, err := uuid.Parse(imageID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image ID format"})
		return
	}

	if err := h.imageService.RemoveImage(c.Request.Context(), imageID, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Zdjęcie zostało usunięte"})
}

// reorderRequest is the body of POST /listings/:id/images/reorder.
type reorderRequest struct {
	ImageIDs []string `json:"imageIds"`
}

// Reorder handles POST /listings/:id/images/reorder.
func (h *ImageHandler) Reorder(c *gin.Context) {
	listingID := c.Param("id")
	if _, err := uuid.Parse(listingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	for _, id := range req.ImageIDs {
		if _, err := uuid.Parse(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image ID format"})
			return
		}
	}

	if err := h.imageService.ReorderImages(c.Request.Context(), listingID, req.ImageIDs, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Kolejność zdjęć została zaktualizowana"})
}
