package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jedrzejbor/osiedlsie/internal/db"
	"github.com/jedrzejbor/osiedlsie/internal/models"
	"github.com/jedrzejbor/osiedlsie/internal/storage"
)

// ImageMeta describes a file that has already been written to storage.
type ImageMeta struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Path         string
}

// IImageService manages image rows and their association with listings.
// Files themselves are written by the upload handler before SaveImage is
// called.
type IImageService interface {
	SaveImage(ctx context.Context, meta ImageMeta, listingID string, order int) (*models.ListingImage, error)
	RemoveImage(ctx context.Context, imageID, callerID string) error
	ReorderImages(ctx context.Context, listingID string, imageIDs []string, callerID string) error
	FindByListing(ctx context.Context, listingID string) ([]models.ListingImage, error)
}

type imageService struct {
	client *mongo.Client
	db     *mongo.Database
	rdb    *redis.Client
	store  storage.Storage
}

// NewImageService creates a new image service instance.
func NewImageService(client *mongo.Client, database *mongo.Database, rdb *redis.Client, store storage.Storage) IImageService {
	return &imageService{client: client, db: database, rdb: rdb, store: store}
}

func (s *imageService) images() *mongo.Collection {
	return s.db.Collection("listing_images")
}

func (s *imageService) listings() *mongo.Collection {
	return s.db.Collection("listings")
}

func (s *imageService) SaveImage(ctx context.Context, meta ImageMeta, listingID string, order int) (*models.ListingImage, error) {
	img := &models.ListingImage{
		Filename:     meta.Filename,
		OriginalName: meta.OriginalName,
		MimeType:     meta.MimeType,
		Size:         meta.Size,
		Path:         meta.Path,
		Order:        order,
		ListingID:    listingID,
		CreatedAt:    time.Now(),
	}
	err := db.Try(func() error {
		img.ID = uuid.NewString()
		_, err := s.images().InsertOne(ctx, img)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert image: %w", err)
	}
	return img, nil
}

func (s *imageService) RemoveImage(ctx context.Context, imageID, callerID string) error {
	var img models.ListingImage
	err := s.images().FindOne(ctx, bson.M{"_id": imageID}).Decode(&img)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to find image %s: %w", imageID, err)
	}

	// Ownership is transitive through the listing. Orphan images were
	// uploaded by an authenticated user and never attached; anyone signed in
	// may clean them up.
	if img.ListingID != "" {
		var listing models.Listing
		err := s.listings().FindOne(ctx, bson.M{"_id": img.ListingID}).Decode(&listing)
		if err == nil && listing.UserID != callerID {
			return ErrForbidden
		}
		if err != nil && err != mongo.ErrNoDocuments {
			return fmt.Errorf("failed to find listing %s: %w", img.ListingID, err)
		}
	}

	if _, err := s.images().DeleteOne(ctx, bson.M{"_id": imageID}); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", imageID, err)
	}

	if err := s.store.Delete(ctx, img.Filename); err != nil {
		log.Printf("Failed to delete file %s: %v", img.Filename, err)
	}
	if err := s.store.Delete(ctx, storage.ThumbFilename(img.Filename)); err != nil {
		log.Printf("Failed to delete thumbnail for %s: %v", img.Filename, err)
	}

	s.dropCatalogueCacheShared(ctx)
	return nil
}

func (s *imageService) ReorderImages(ctx context.Context, listingID string, imageIDs []string, callerID string) error {
	var listing models.Listing
	err := s.listings().FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrListingNotFound
		}
		return fmt.Errorf("failed to find listing %s: %w", listingID, err)
	}
	if listing.UserID != callerID {
		return ErrForbidden
	}

	// Positions are assigned from the submitted sequence: first id gets 0,
	// the next 1, and so on. Ids not attached to this listing are ignored.
	err = db.WithTransaction(ctx, s.client, func(ctx context.Context) error {
		for i, imageID := range imageIDs {
			_, err := s.images().UpdateOne(ctx,
				bson.M{"_id": imageID, "listing_id": listingID},
				bson.M{"$set": bson.M{"order": i}},
			)
			if err != nil {
				return fmt.Errorf("failed to reorder image %s: %w", imageID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.dropCatalogueCacheShared(ctx)
	return nil
}

func (s *imageService) FindByListing(ctx context.Context, listingID string) ([]models.ListingImage, error) {
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

func (s *imageService) dropCatalogueCacheShared(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKeyPublishedListings).Err(); err != nil {
		log.Printf("Failed to drop catalogue cache: %v", err)
	}
}
