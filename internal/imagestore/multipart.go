package imagestore

import (
	"context"
	"mime/multipart"

	"github.com/Davidxcr/YelpCamp/internal/logging"
)

// UploadFiles stores each form file in order. If any upload fails, the ones
// already stored are removed again before the error is returned.
func UploadFiles(ctx context.Context, store Store, files []*multipart.FileHeader) ([]Image, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if store == nil {
		return nil, ErrNotConfigured
	}

	images := make([]Image, 0, len(files))
	for _, fh := range files {
		img, err := uploadOne(ctx, store, fh)
		if err != nil {
			DeleteAll(ctx, store, images)
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func uploadOne(ctx context.Context, store Store, fh *multipart.FileHeader) (Image, error) {
	if _, ok := ExtensionFor(fh.Header.Get("Content-Type")); !ok {
		return Image{}, ErrUnsupportedType
	}
	f, err := fh.Open()
	if err != nil {
		return Image{}, err
	}
	defer f.Close()
	return store.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
}

// DeleteAll removes images best-effort; failures are logged, not returned.
func DeleteAll(ctx context.Context, store Store, images []Image) {
	if store == nil {
		return
	}
	for _, img := range images {
		if err := store.Delete(ctx, img.Filename); err != nil {
			logging.Warn().Err(err).Str("filename", img.Filename).Msg("image cleanup failed")
		}
	}
}
