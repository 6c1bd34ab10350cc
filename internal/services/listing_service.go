package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jedrzejbor/osiedlsie/internal/config"
	"github.com/jedrzejbor/osiedlsie/internal/db"
	"github.com/jedrzejbor/osiedlsie/internal/models"
	"github.com/jedrzejbor/osiedlsie/internal/storage"
	"github.com/jedrzejbor/osiedlsie/internal/validation"
)

// cacheKeyPublishedListings caches the default public catalogue response.
// Every listing or image mutation drops it.
const cacheKeyPublishedListings = "listings:published"

// IListingService manages the listing lifecycle. callerID identifies the
// authenticated user, or is empty for anonymous detail reads.
type IListingService interface {
	Create(ctx context.Context, input *validation.ListingInput, ownerID string) (*models.Listing, error)
	FindAll(ctx context.Context, status *models.ListingStatus) ([]models.Listing, error)
	FindOne(ctx context.Context, id, callerID string) (*models.Listing, error)
	FindMyListings(ctx context.Context, ownerID string) ([]models.Listing, error)
	Update(ctx context.Context, id string, input *validation.ListingInput, callerID string) (*models.Listing, error)
	Publish(ctx context.Context, id, callerID string) (*models.Listing, error)
	Unpublish(ctx context.Context, id, callerID string) (*models.Listing, error)
	Archive(ctx context.Context, id, callerID string) (*models.Listing, error)
	Remove(ctx context.Context, id, callerID string) error
}

type listingService struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    *config.Config
	rdb    *redis.Client
	store  storage.Storage
}

// NewListingService creates a new listing service instance. rdb may be nil,
// in which case catalogue reads skip the cache.
func NewListingService(client *mongo.Client, database *mongo.Database, cfg *config.Config, rdb *redis.Client, store storage.Storage) IListingService {
	return &listingService{client: client, db: database, cfg: cfg, rdb: rdb, store: store}
}

func (s *listingService) listings() *mongo.Collection {
	return s.db.Collection("listings")
}

func (s *listingService) images() *mongo.Collection {
	return s.db.Collection("listing_images")
}

func (s *listingService) Create(ctx context.Context, input *validation.ListingInput, ownerID string) (*models.Listing, error) {
	if verrs := validation.CheckListingInput(input); verrs != nil {
		return nil, verrs
	}

	now := time.Now()
	listing := &models.Listing{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Features:  []string{},
		Status:    models.StatusDraft, // new listings always start as drafts
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(listing, input)

	err := db.WithTransaction(ctx, s.client, func(ctx context.Context) error {
		if _, err := s.listings().InsertOne(ctx, listing); err != nil {
			return fmt.Errorf("failed to insert listing: %w", err)
		}
		if len(input.ImageIDs) > 0 {
			if err := s.attachImages(ctx, listing.ID, input.ImageIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dropCatalogueCache(ctx)
	return s.FindOne(ctx, listing.ID, ownerID)
}

func (s *listingService) FindAll(ctx context.Context, status *models.ListingStatus) ([]models.Listing, error) {
	// Without an explicit status filter the catalogue only ever shows live
	// listings; drafts and archived entries are reachable solely through
	// FindMyListings.
	filter := bson.M{"status": models.StatusPublished}
	cacheable := status == nil
	if status != nil {
		filter["status"] = *status
	}

	if cacheable {
		if cached := s.readCatalogueCache(ctx); cached != nil {
			return cached, nil
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.listings().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	if err := s.hydrateImages(ctx, listings); err != nil {
		return nil, err
	}

	if cacheable {
		s.writeCatalogueCache(ctx, listings)
	}
	return listings, nil
}

func (s *listingService) FindOne(ctx context.Context, id, callerID string) (*models.Listing, error) {
	listing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Status != models.StatusPublished && listing.UserID != callerID {
		return nil, ErrForbidden
	}
	if err := s.hydrateOne(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) FindMyListings(ctx context.Context, ownerID string) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.listings().Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings for user %s: %w", ownerID, err)
	}
	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	if err := s.hydrateImages(ctx, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *listingService) Update(ctx context.Context, id string, input *validation.ListingInput, callerID string) (*models.Listing, error) {
	listing, err := s.findOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if verrs := validation.CheckListingInput(input); verrs != nil {
		return nil, verrs
	}

	applyInput(listing, input)
	listing.UpdatedAt = time.Now()

	err = db.WithTransaction(ctx, s.client, func(ctx context.Context) error {
		if _, err := s.listings().ReplaceOne(ctx, bson.M{"_id": id}, listing); err != nil {
			return fmt.Errorf("failed to update listing %s: %w", id, err)
		}
		if input.ImageIDs != nil {
			// Full reassociation: everything currently attached is detached,
			// then exactly the submitted set is attached.
			if _, err := s.images().UpdateMany(ctx,
				bson.M{"listing_id": id},
				bson.M{"$unset": bson.M{"listing_id": ""}},
			); err != nil {
				return fmt.Errorf("failed to detach images from listing %s: %w", id, err)
			}
			if len(input.ImageIDs) > 0 {
				if err := s.attachImages(ctx, id, input.ImageIDs); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dropCatalogueCache(ctx)
	return s.FindOne(ctx, id, callerID)
}

func (s *listingService) Publish(ctx context.Context, id, callerID string) (*models.Listing, error) {
	listing, err := s.findOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	attached, err := s.imagesForListing(ctx, id)
	if err != nil {
		return nil, err
	}
	imageIDs := make([]string, len(attached))
	for i, img := range attached {
		imageIDs[i] = img.ID
	}

	// Publication is gated on the persisted record, not on whatever the last
	// request body happened to contain.
	if verrs := validation.CheckListingPublish(listing, imageIDs); verrs != nil {
		return nil, &PublishIneligibleError{Fields: verrs}
	}

	now := time.Now()
	err = db.WithTransaction(ctx, s.client, func(ctx context.Context) error {
		_, err := s.listings().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
			"status":       models.StatusPublished,
			"published_at": now,
			"updated_at":   now,
		}})
		if err != nil {
			return fmt.Errorf("failed to publish listing %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Published listing %s", id)

	s.dropCatalogueCache(ctx)
	return s.FindOne(ctx, id, callerID)
}

func (s *listingService) Unpublish(ctx context.Context, id, callerID string) (*models.Listing, error) {
	return s.setStatus(ctx, id, callerID, models.StatusDraft)
}

func (s *listingService) Archive(ctx context.Context, id, callerID string) (*models.Listing, error) {
	return s.setStatus(ctx, id, callerID, models.StatusArchived)
}

func (s *listingService) setStatus(ctx context.Context, id, callerID string, status models.ListingStatus) (*models.Listing, error) {
	if _, err := s.findOwned(ctx, id, callerID); err != nil {
		return nil, err
	}
	_, err := s.listings().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to set listing %s status to %s: %w", id, status, err)
	}

	s.dropCatalogueCache(ctx)
	return s.FindOne(ctx, id, callerID)
}

func (s *listingService) Remove(ctx context.Context, id, callerID string) error {
	if _, err := s.findOwned(ctx, id, callerID); err != nil {
		return err
	}

	attached, err := s.imagesForListing(ctx, id)
	if err != nil {
		return err
	}

	err = db.WithTransaction(ctx, s.client, func(ctx context.Context) error {
		if _, err := s.images().DeleteMany(ctx, bson.M{"listing_id": id}); err != nil {
			return fmt.Errorf("failed to delete images of listing %s: %w", id, err)
		}
		if _, err := s.listings().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			return fmt.Errorf("failed to delete listing %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Row deletion is the source of truth; stray files are only logged.
	for _, img := range attached {
		if err := s.store.Delete(ctx, img.Filename); err != nil {
			log.Printf("Failed to delete file %s: %v", img.Filename, err)
		}
		if err := s.store.Delete(ctx, storage.ThumbFilename(img.Filename)); err != nil {
			log.Printf("Failed to delete thumbnail for %s: %v", img.Filename, err)
		}
	}

	s.dropCatalogueCache(ctx)
	return nil
}

// findByID loads a listing or reports ErrListingNotFound.
func (s *listingService) findByID(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	err := s.listings().FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to find listing %s: %w", id, err)
	}
	return &listing, nil
}

// findOwned loads a listing and checks the caller owns it.
func (s *listingService) findOwned(ctx context.Context, id, callerID string) (*models.Listing, error) {
	listing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != callerID {
		return nil, ErrForbidden
	}
	return listing, nil
}

// attachImages points the given image rows at the listing. Orders are kept
// as they are; reordering is an explicit operation.
func (s *listingService) attachImages(ctx context.Context, listingID string, imageIDs []string) error {
	_, err := s.images().UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": imageIDs}},
		bson.M{"$set": bson.M{"listing_id": listingID}},
	)
	if err != nil {
		return fmt.Errorf("failed to attach images to listing %s: %w", listingID, err)
	}
	return nil
}

func (s *listingService) imagesForListing(ctx context.Context, listingID string) ([]models.ListingImage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := s.images().Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find images for listing %s: %w", listingID, err)
	}
	var imgs []models.ListingImage
	if err := cursor.All(ctx, &imgs); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	if imgs == nil {
		imgs = []models.ListingImage{}
	}
	return imgs, nil
}

func (s *listingService) hydrateOne(ctx context.Context, listing *models.Listing) error {
	imgs, err := s.imagesForListing(ctx, listing.ID)
	if err != nil {
		return err
	}
	listing.Images = imgs
	return nil
}

func (s *listingService) hydrateImages(ctx context.Context, listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	ids := make([]string, len(listings))
	for i := range listings {
		ids[i] = listings[i].ID
		listings[i].Images = []models.ListingImage{}
	}

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := s.images().Find(ctx, bson.M{"listing_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return fmt.Errorf("failed to find images for listings: %w", err)
	}
	var imgs []models.ListingImage
	if err := cursor.All(ctx, &imgs); err != nil {
		return fmt.Errorf("failed to decode images: %w", err)
	}

	byListing := make(map[string][]models.ListingImage, len(listings))
	for _, img := range imgs {
		byListing[img.ListingID] = append(byListing[img.ListingID], img)
	}
	for i := range listings {
		if attached, ok := byListing[listings[i].ID]; ok {
			listings[i].Images = attached
		}
	}
	return nil
}

func (s *listingService) readCatalogueCache(ctx context.Context) []models.Listing {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, cacheKeyPublishedListings).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Failed to read catalogue cache: %v", err)
		}
		return nil
	}
	var listings []models.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		log.Printf("Failed to decode catalogue cache: %v", err)
		return nil
	}
	return listings
}

func (s *listingService) writeCatalogueCache(ctx context.Context, listings []models.Listing) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(listings)
	if err != nil {
		log.Printf("Failed to encode catalogue cache: %v", err)
		return
	}
	if err := s.rdb.Set(ctx, cacheKeyPublishedListings, raw, s.cfg.GetCacheTTL).Err(); err != nil {
		log.Printf("Failed to write catalogue cache: %v", err)
	}
}

func (s *listingService) dropCatalogueCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKeyPublishedListings).Err(); err != nil {
		log.Printf("Failed to drop catalogue cache: %v", err)
	}
}

// applyInput merges the fields present in a partial payload onto the stored
// entity. Status is never merged here; lifecycle transitions go through the
// dedicated operations.
func applyInput(l *models.Listing, in *validation.ListingInput) {
	if in.Title != nil {
		l.Title = in.Title
	}
	if in.Description != nil {
		l.Description = in.Description
	}
	if in.Price != nil {
		l.Price = in.Price
	}
	if in.City != nil {
		l.City = in.City
	}
	if in.Province != nil {
		l.Province = in.Province
	}
	if in.PropertyType != nil {
		l.PropertyType = in.PropertyType
	}
	if in.AdvertiserType != nil {
		l.AdvertiserType = in.AdvertiserType
	}
	if in.PlotSize != nil {
		l.PlotSize = in.PlotSize
	}
	if in.HouseSize != nil {
		l.HouseSize = in.HouseSize
	}
	if in.Features != nil {
		l.Features = in.Features
	}
	if in.ContactName != nil {
		l.ContactName = in.ContactName
	}
	if in.ContactPhone != nil {
		l.ContactPhone = in.ContactPhone
	}
	if in.ContactEmail != nil {
		l.ContactEmail = in.ContactEmail
	}
	if in.Negotiable != nil {
		l.Negotiable = *in.Negotiable
	}
}
