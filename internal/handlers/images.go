package handlers

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/anonto42/foodhelper/backend/internal/storage"
)

func storeImage(ctx context.Context, images storage.ImageStore, dir, dataURL string) (string, error) {
	img, err := storage.Prepare(dataURL)
	if err != nil {
		return "", err
	}
	return images.Save(ctx, img.Key(dir), img.Data, img.ContentType)
}

// discardImage removes a stored image; failures are logged and otherwise ignored.
func discardImage(ctx context.Context, images storage.ImageStore, logger *log.Logger, url string) {
	if url == "" {
		return
	}
	if err := images.Delete(ctx, url); err != nil {
		logger.Warn("image not removed", "url", url, "err", err)
	}
}
