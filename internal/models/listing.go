package models

import (
	"time"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	StatusDraft     ListingStatus = "draft"
	StatusPublished ListingStatus = "published"
	StatusArchived  ListingStatus = "archived"
)

// Provinces lists the 16 Polish voivodeships accepted for a listing.
var Provinces = []string{
	"dolnośląskie",
	"kujawsko-pomorskie",
	"lubelskie",
	"lubuskie",
	"łódzkie",
	"małopolskie",
	"mazowieckie",
	"opolskie",
	"podkarpackie",
	"podlaskie",
	"pomorskie",
	"śląskie",
	"świętokrzyskie",
	"warmińsko-mazurskie",
	"wielkopolskie",
	"zachodniopomorskie",
}

// PropertyTypes lists the accepted kinds of property.
var PropertyTypes = []string{
	"dom",
	"dzialka",
	"dom_z_dzialka",
	"siedlisko",
	"gospodarstwo",
}

// AdvertiserTypes lists who is posting the listing.
var AdvertiserTypes = []string{"prywatny", "firma", "agencja"}

// PropertyFeatures lists the fixed feature set a listing may carry a subset of.
var PropertyFeatures = []string{
	"przy_lesie",
	"bez_sasiadow_300m",
	"do_remontu",
	"gotowe_do_zamieszkania",
	"z_widokiem",
	"przy_jeziorze",
	"przy_rzece",
	"media_w_dzialce",
	"droga_asfaltowa",
	"okolica_spokojna",
}

// Listing represents a property advertisement. All descriptive fields are
// nullable while the listing is a draft; the publish operation enforces the
// full constraints.
type Listing struct {
	ID             string         `bson:"_id" json:"id"`
	UserID         string         `bson:"user_id" json:"userId"`
	Title          *string        `bson:"title,omitempty" json:"title"`
	Description    *string        `bson:"description,omitempty" json:"description"`
	Price          *float64       `bson:"price,omitempty" json:"price"`
	City           *string        `bson:"city,omitempty" json:"city"`
	Province       *string        `bson:"province,omitempty" json:"wojewodztwo"`
	PropertyType   *string        `bson:"property_type,omitempty" json:"propertyType"`
	AdvertiserType *string        `bson:"advertiser_type,omitempty" json:"advertiserType"`
	PlotSize       *float64       `bson:"plot_size,omitempty" json:"plotSize"`
	HouseSize      *float64       `bson:"house_size,omitempty" json:"houseSize"`
	Features       []string       `bson:"features" json:"features"`
	ContactName    *string        `bson:"contact_name,omitempty" json:"contactName"`
	ContactPhone   *string        `bson:"contact_phone,omitempty" json:"contactPhone"`
	ContactEmail   *string        `bson:"contact_email,omitempty" json:"contactEmail"`
	Negotiable     bool           `bson:"negotiable" json:"negotiable"`
	Status         ListingStatus  `bson:"status" json:"status"`
	PublishedAt    *time.Time     `bson:"published_at,omitempty" json:"publishedAt"`
	CreatedAt      time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updated_at" json:"updatedAt"`
	Images         []ListingImage `bson:"-" json:"images"` // hydrated from listing_images
}
