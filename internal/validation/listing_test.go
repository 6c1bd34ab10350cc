package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jedrzejbor/osiedlsie/internal/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func messages(errs Errors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

func fields(errs Errors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestCheckListingInput_EmptyPayloadIsValid(t *testing.T) {
	assert.Nil(t, CheckListingInput(&ListingInput{}))
}

func TestCheckListingInput_PartialConstraintsApply(t *testing.T) {
	in := &ListingInput{
		Title:    strPtr(strings.Repeat("a", 101)),
		Price:    floatPtr(-5),
		Province: strPtr("atlantyda"),
	}
	errs := CheckListingInput(in)
	require.NotNil(t, errs)
	assert.ElementsMatch(t, []string{"title", "price", "wojewodztwo"}, fields(errs))
	assert.Contains(t, messages(errs), "Tytuł może mieć max. 100 znaków")
	assert.Contains(t, messages(errs), "Cena musi być dodatnia")
	assert.Contains(t, messages(errs), "Wybierz województwo z listy")
}

func TestCheckListingInput_PresentFieldsKeepFullBounds(t *testing.T) {
	in := &ListingInput{
		Title:       strPtr("abc"),
		Description: strPtr("za krótki opis"),
		Price:       floatPtr(200000000),
		City:        strPtr("E"),
		ContactName: strPtr("J"),
	}
	errs := CheckListingInput(in)
	require.NotNil(t, errs)
	assert.ElementsMatch(t, []string{"title", "description", "price", "city", "contactName"}, fields(errs))
	assert.Contains(t, messages(errs), "Tytuł musi mieć min. 10 znaków")
	assert.Contains(t, messages(errs), "Opis musi mieć min. 50 znaków")
	assert.Contains(t, messages(errs), "Cena nie może przekraczać 100 mln")
	assert.Contains(t, messages(errs), "Miasto musi mieć min. 2 znaki")
	assert.Contains(t, messages(errs), "Imię kontaktowe musi mieć min. 2 znaki")
}

func TestCheckListingInput_ValidEnums(t *testing.T) {
	in := &ListingInput{
		Province:       strPtr("mazowieckie"),
		PropertyType:   strPtr("siedlisko"),
		AdvertiserType: strPtr("prywatny"),
		Features:       []string{"przy_lesie", "z_widokiem"},
	}
	assert.Nil(t, CheckListingInput(in))
}

func TestCheckListingInput_UnknownFeature(t *testing.T) {
	in := &ListingInput{Features: []string{"przy_lesie", "basen_olimpijski"}}
	errs := CheckListingInput(in)
	require.Len(t, errs, 1)
	assert.Equal(t, "features", errs[0].Field)
	assert.Equal(t, "Nieprawidłowa cecha nieruchomości", errs[0].Message)
}

func TestCheckListingInput_InvalidImageID(t *testing.T) {
	in := &ListingInput{ImageIDs: []string{"not-a-uuid"}}
	errs := CheckListingInput(in)
	require.Len(t, errs, 1)
	assert.Equal(t, "imageIds", errs[0].Field)
	assert.Equal(t, "Nieprawidłowy identyfikator zdjęcia", errs[0].Message)
}

func TestCheckListingInput_InvalidStatus(t *testing.T) {
	in := &ListingInput{Status: strPtr("archived")}
	errs := CheckListingInput(in)
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
}

func TestCheckListingPublish_EmptyDraftReportsAllMissingFields(t *testing.T) {
	errs := CheckListingPublish(&models.Listing{}, nil)
	require.NotNil(t, errs)
	assert.Subset(t, fields(errs), []string{
		"title", "description", "price", "city",
		"wojewodztwo", "propertyType", "advertiserType",
		"contactName", "contactPhone", "imageIds",
	})
	assert.Contains(t, messages(errs), "Wymagane są min. 2 zdjęcia do publikacji")
}

func completeListing() *models.Listing {
	return &models.Listing{
		Title:          strPtr("Siedlisko nad samym jeziorem"),
		Description:    strPtr(strings.Repeat("Spokojna okolica, las i jezioro. ", 3)),
		Price:          floatPtr(450000),
		City:           strPtr("Ełk"),
		Province:       strPtr("warmińsko-mazurskie"),
		PropertyType:   strPtr("siedlisko"),
		AdvertiserType: strPtr("prywatny"),
		ContactName:    strPtr("Jan Kowalski"),
		ContactPhone:   strPtr("+48 600 700 800"),
	}
}

func TestCheckListingPublish_CompleteListingPasses(t *testing.T) {
	imageIDs := []string{
		"0a6f3b52-0f0f-4f6f-9e1e-111111111111",
		"0a6f3b52-0f0f-4f6f-9e1e-222222222222",
	}
	assert.Nil(t, CheckListingPublish(completeListing(), imageIDs))
}

func TestCheckListingPublish_OneImageIsNotEnough(t *testing.T) {
	errs := CheckListingPublish(completeListing(), []string{"0a6f3b52-0f0f-4f6f-9e1e-111111111111"})
	require.Len(t, errs, 1)
	assert.Equal(t, "imageIds", errs[0].Field)
	assert.Equal(t, "Wymagane są min. 2 zdjęcia do publikacji", errs[0].Message)
}

func TestCheckListingPublish_ShortTitle(t *testing.T) {
	l := completeListing()
	l.Title = strPtr("Dom")
	errs := CheckListingPublish(l, []string{
		"0a6f3b52-0f0f-4f6f-9e1e-111111111111",
		"0a6f3b52-0f0f-4f6f-9e1e-222222222222",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Tytuł musi mieć min. 10 znaków", errs[0].Message)
}

func TestCheckListingPublish_PhoneFormat(t *testing.T) {
	l := completeListing()
	l.ContactPhone = strPtr("zadzwoń do mnie")
	errs := CheckListingPublish(l, []string{
		"0a6f3b52-0f0f-4f6f-9e1e-111111111111",
		"0a6f3b52-0f0f-4f6f-9e1e-222222222222",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Podaj poprawny numer telefonu", errs[0].Message)
}

func TestCheckListingPublish_PriceCap(t *testing.T) {
	l := completeListing()
	l.Price = floatPtr(200000001)
	errs := CheckListingPublish(l, []string{
		"0a6f3b52-0f0f-4f6f-9e1e-111111111111",
		"0a6f3b52-0f0f-4f6f-9e1e-222222222222",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Cena nie może przekraczać 100 mln", errs[0].Message)
}
