package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jedrzejbor/osiedlsie/internal/models"
)

var (
	provinces        = models.Provinces
	propertyTypes    = models.PropertyTypes
	advertiserTypes  = models.AdvertiserTypes
	propertyFeatures = models.PropertyFeatures
)

// ListingInput is the partial create/update payload. Every field is optional;
// a field that is present carries the same constraints as in the full publish
// schema. Status is accepted but the listing service forces drafts on create
// regardless.
type ListingInput struct {
	Title          *string  `json:"title" validate:"omitempty,min=10,max=100"`
	Description    *string  `json:"description" validate:"omitempty,min=50,max=5000"`
	Price          *float64 `json:"price" validate:"omitempty,gt=0,lte=100000000"`
	City           *string  `json:"city" validate:"omitempty,min=2,max=100"`
	Province       *string  `json:"wojewodztwo" validate:"omitempty,province"`
	PropertyType   *string  `json:"propertyType" validate:"omitempty,proptype"`
	AdvertiserType *string  `json:"advertiserType" validate:"omitempty,advertiser"`
	PlotSize       *float64 `json:"plotSize" validate:"omitempty,gt=0,lte=10000000"`
	HouseSize      *float64 `json:"houseSize" validate:"omitempty,gt=0,lte=10000"`
	Features       []string `json:"features" validate:"omitempty,dive,feature"`
	ContactName    *string  `json:"contactName" validate:"omitempty,min=2,max=100"`
	ContactPhone   *string  `json:"contactPhone" validate:"omitempty,phone"`
	ContactEmail   *string  `json:"contactEmail" validate:"omitempty,email"`
	Negotiable     *bool    `json:"negotiable"`
	Status         *string  `json:"status" validate:"omitempty,oneof=draft published"`
	ImageIDs       []string `json:"imageIds" validate:"omitempty,dive,uuid"`
}

// listingPublishCheck re-validates a persisted listing against the full
// schema before it may go live. Required fields use pointers so that a field
// never set on the draft is reported as missing.
type listingPublishCheck struct {
	Title          *string  `json:"title" validate:"required,min=10,max=100"`
	Description    *string  `json:"description" validate:"required,min=50,max=5000"`
	Price          *float64 `json:"price" validate:"required,gt=0,lte=100000000"`
	City           *string  `json:"city" validate:"required,min=2,max=100"`
	Province       *string  `json:"wojewodztwo" validate:"required,province"`
	PropertyType   *string  `json:"propertyType" validate:"required,proptype"`
	AdvertiserType *string  `json:"advertiserType" validate:"required,advertiser"`
	PlotSize       *float64 `json:"plotSize" validate:"omitempty,gt=0,lte=10000000"`
	HouseSize      *float64 `json:"houseSize" validate:"omitempty,gt=0,lte=10000"`
	Features       []string `json:"features" validate:"omitempty,dive,feature"`
	ContactName    *string  `json:"contactName" validate:"required,min=2,max=100"`
	ContactPhone   *string  `json:"contactPhone" validate:"required,phone"`
	ContactEmail   *string  `json:"contactEmail" validate:"omitempty,email"`
	ImageIDs       []string `json:"imageIds" validate:"min=2,dive,uuid"`
}

// CheckListingInput validates a partial create/update payload.
func CheckListingInput(in *ListingInput) Errors {
	return check(in, listingMessage)
}

// CheckListingPublish validates the persisted state of a listing, plus the
// IDs of its currently attached images, against the full publish schema.
func CheckListingPublish(l *models.Listing, imageIDs []string) Errors {
	return check(&listingPublishCheck{
		Title:          l.Title,
		Description:    l.Description,
		Price:          l.Price,
		City:           l.City,
		Province:       l.Province,
		PropertyType:   l.PropertyType,
		AdvertiserType: l.AdvertiserType,
		PlotSize:       l.PlotSize,
		HouseSize:      l.HouseSize,
		Features:       l.Features,
		ContactName:    l.ContactName,
		ContactPhone:   l.ContactPhone,
		ContactEmail:   l.ContactEmail,
		ImageIDs:       imageIDs,
	}, listingMessage)
}

// listingMessage maps a violation to the message shown to the client.
func listingMessage(fe validator.FieldError) string {
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	switch field {
	case "title":
		switch fe.Tag() {
		case "required", "min":
			return "Tytuł musi mieć min. 10 znaków"
		case "max":
			return "Tytuł może mieć max. 100 znaków"
		}
	case "description":
		switch fe.Tag() {
		case "required", "min":
			return "Opis musi mieć min. 50 znaków"
		case "max":
			return "Opis może mieć max. 5000 znaków"
		}
	case "price":
		switch fe.Tag() {
		case "required", "gt":
			return "Cena musi być dodatnia"
		case "lte":
			return "Cena nie może przekraczać 100 mln"
		}
	case "city":
		switch fe.Tag() {
		case "required", "min":
			return "Miasto musi mieć min. 2 znaki"
		case "max":
			return "Miasto może mieć max. 100 znaków"
		}
	case "wojewodztwo":
		return "Wybierz województwo z listy"
	case "propertyType":
		return "Wybierz typ nieruchomości"
	case "advertiserType":
		return "Wybierz typ ogłoszeniodawcy"
	case "plotSize":
		switch fe.Tag() {
		case "gt":
			return "Powierzchnia działki musi być dodatnia"
		case "lte":
			return "Powierzchnia działki nie może przekraczać 10 000 000 m²"
		}
	case "houseSize":
		switch fe.Tag() {
		case "gt":
			return "Powierzchnia domu musi być dodatnia"
		case "lte":
			return "Powierzchnia domu nie może przekraczać 10 000 m²"
		}
	case "contactName":
		switch fe.Tag() {
		case "required", "min":
			return "Imię kontaktowe musi mieć min. 2 znaki"
		case "max":
			return "Imię kontaktowe może mieć max. 100 znaków"
		}
	case "contactPhone":
		return "Podaj poprawny numer telefonu"
	case "contactEmail":
		return "Podaj poprawny adres email"
	case "imageIds":
		if fe.Tag() == "min" {
			return "Wymagane są min. 2 zdjęcia do publikacji"
		}
		return "Nieprawidłowy identyfikator zdjęcia"
	}
	if fe.Tag() == "feature" {
		return "Nieprawidłowa cecha nieruchomości"
	}
	return fmt.Sprintf("Nieprawidłowa wartość pola %s", field)
}
