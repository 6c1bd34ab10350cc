package services

import (
	"errors"
	"fmt"

	"github.com/jedrzejbor/osiedlsie/internal/validation"
)

// Domain errors surfaced to the HTTP layer. Handlers map these onto status
// codes; services never touch HTTP themselves.
var (
	// ErrListingNotFound is returned when a listing id does not exist.
	ErrListingNotFound = errors.New("listing not found")
	// ErrImageNotFound is returned when an image id does not exist.
	ErrImageNotFound = errors.New("image not found")
	// ErrForbidden is returned when the acting user does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrEmailExists is returned when an attempt is made to register an email that already exists.
	ErrEmailExists = errors.New("email already in use by another account")
	// ErrInvalidCredentials is returned on login failure. The same error covers
	// unknown emails and wrong passwords so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// PublishIneligibleError reports that a listing's persisted state does not
// satisfy the full schema required to go live. It carries the complete list
// of violated fields and is distinguishable from a request-body validation
// failure.
type PublishIneligibleError struct {
	Fields validation.Errors
}

func (e *PublishIneligibleError) Error() string {
	return fmt.Sprintf("listing is not eligible for publication: %v", e.Fields.Error())
}
