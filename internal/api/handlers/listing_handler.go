package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jedrzejbor/osiedlsie/internal/models"
	"github.com/jedrzejbor/osiedlsie/internal/services"
	"github.com/jedrzejbor/osiedlsie/internal/validation"
)

// ListingHandler exposes the listing CRUD and lifecycle endpoints.
type ListingHandler struct {
	listingService services.IListingService
}

func NewListingHandler(listingService services.IListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// listingIDParam parses and validates the :id path parameter. It writes the
// error response itself and reports success via ok.
func listingIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return "", false
	}
	return id, true
}

// Create handles POST /listings.
func (h *ListingHandler) Create(c *gin.Context) {
	var input validation.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), &input, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// FindAll handles GET /listings. An optional status query narrows the result;
// requests without one see only published listings.
func (h *ListingHandler) FindAll(c *gin.Context) {
	var status *models.ListingStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ListingStatus(raw)
		switch s {
		case models.StatusDraft, models.StatusPublished, models.StatusArchived:
			status = &s
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
	}

	listings, err := h.listingService.FindAll(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// FindOne handles GET /listings/:id.
func (h *ListingHandler) FindOne(c *gin.Context) {
	id, ok := listingIDParam(c)
	if !ok {
		return
	}

	listing, err := h.listingService.FindOne(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// FindMy handles GET /listings/my/all.
func (h *ListingHandler) FindMy(c *gin.Context) {
	listings, err := h.listingService.FindMyListings(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// Update handles PUT /listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := listingIDParam(c)
	if !ok {
		return
	}
	var input validation.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, err := h.listingService.Update(c.Request.Context(), id, &input, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Publish handles POST /listings/:id/publish.
func (h *ListingHandler) Publish(c *gin.Context) {
	h.transition(c, h.listingService.Publish)
}

// Unpublish handles POST /listings/:id/unpublish.
func (h *ListingHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.listingService.Unpublish)
}

// Archive handles POST /listings/:id/archive.
func (h *ListingHandler) Archive(c *gin.Context) {
	h.transition(c, h.listingService.Archive)
}

func (h *ListingHandler) transition(c *gin.Context, op func(ctx context.Context, id, callerID string) (*models.Listing, error)) {
	id, ok := listingIDParam(c)
	if !ok {
		return
	}

	listing, err := op(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Remove handles DELETE /listings/:id.
func (h *ListingHandler) Remove(c *gin.Context) {
	id, ok := listingIDParam(c)
	if !ok {
		return
	}

	if err := h.listingService.Remove(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ogłoszenie zostało usunięte"})
}
