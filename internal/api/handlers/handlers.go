package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/jedrzejbor/osiedlsie/internal/api/middleware"
	"github.com/jedrzejbor/osiedlsie/internal/services"
	"github.com/jedrzejbor/osiedlsie/internal/validation"
)

// IAsynqClient abstracts the task queue client so handlers can be tested
// without Redis.
type IAsynqClient interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// currentUserID returns the authenticated user id, or "" for anonymous
// requests behind the optional auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextKeyUserID)
}

// respondServiceError maps domain errors onto HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	var verrs validation.Errors
	var pubErr *services.PublishIneligibleError
	switch {
	case errors.As(err, &pubErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Ogłoszenie nie spełnia wymagań publikacji",
			"errors":  pubErr.Fields,
		})
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verrs})
	case errors.Is(err, services.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Ogłoszenie nie zostało znalezione"})
	case errors.Is(err, services.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Zdjęcie nie zostało znalezione"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Brak dostępu do tego zasobu"})
	case errors.Is(err, services.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"message": "Użytkownik z tym adresem email już istnieje"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Nieprawidłowy email lub hasło"})
	default:
		log.Printf("Internal error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
