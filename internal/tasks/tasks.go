package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // registers PNG with image.Decode
	"io"
	"log"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"github.com/jedrzejbor/osiedlsie/internal/config"
	"github.com/jedrzejbor/osiedlsie/internal/storage"
)

// TypeImageProcess normalizes a freshly uploaded listing image.
const TypeImageProcess = "image:process"

// QueueImages is the dedicated queue for image work so a slow resize never
// starves other tasks.
const QueueImages = "images"

// ImageTaskPayload carries the stored filename of the upload to process.
type ImageTaskPayload struct {
	Filename string `json:"filename"`
}

// NewImageProcessTask builds the task enqueued after each upload.
func NewImageProcessTask(filename string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImageTaskPayload{Filename: filename})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image task payload: %w", err)
	}
	return asynq.NewTask(TypeImageProcess, payload, asynq.Queue(QueueImages)), nil
}

// NewClient creates an Asynq client for enqueuing tasks.
func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	})
}

// TaskProcessor holds the dependencies task handlers need.
type TaskProcessor struct {
	cfg   *config.Config
	store storage.Storage
}

func NewTaskProcessor(cfg *config.Config, store storage.Storage) *TaskProcessor {
	return &TaskProcessor{cfg: cfg, store: store}
}

// SetupServer configures and returns an Asynq server with the image handler
// registered. The caller runs it.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     rdb.Options().Addr,
			Password: rdb.Options().Password,
			DB:       rdb.Options().DB,
		},
		asynq.Config{
			Queues: map[string]int{
				"default":   3,
				QueueImages: 5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeImageProcess, processor.HandleImageProcessTask)
	return srv, mux
}

// HandleImageProcessTask bounds the original image to the configured maximum
// dimension and writes a thumbnail alongside it.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image task payload: %v: %w", err, asynq.SkipRetry)
	}
	log.Printf("Processing image task: Filename=%s", payload.Filename)

	src, err := p.store.Open(ctx, payload.Filename)
	if err != nil {
		// Row deletion may have raced the worker; nothing left to process.
		log.Printf("Stored file %s not found: %v", payload.Filename, err)
		return fmt.Errorf("stored file not found: %w", asynq.SkipRetry)
	}
	imgData, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		log.Printf("Error decoding image %s: %v", payload.Filename, err)
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}
	log.Printf("Decoded image %s, format: %s, size: %dx%d", payload.Filename, format, img.Bounds().Dx(), img.Bounds().Dy())

	maxDim := uint(p.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		bounded := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, bounded, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("failed to re-encode resized image: %w", err)
		}
		if _, err := p.store.Save(ctx, payload.Filename, &buf, "image/jpeg"); err != nil {
			return fmt.Errorf("failed to store resized image: %w", err)
		}
		img = bounded
		log.Printf("Resized image %s to %dx%d", payload.Filename, img.Bounds().Dx(), img.Bounds().Dy())
	}

	thumbDim := uint(p.cfg.ThumbnailDimension)
	thumb := resize.Thumbnail(thumbDim, thumbDim, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	thumbName := storage.ThumbFilename(payload.Filename)
	if _, err := p.store.Save(ctx, thumbName, &buf, "image/jpeg"); err != nil {
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}

	log.Printf("Image task processed successfully: Filename=%s", payload.Filename)
	return nil
}
