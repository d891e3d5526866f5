package upload

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrStorageDisabled = errors.New("image storage is not configured")

// Storage abstracts the image host so handlers stay testable.
type Storage interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

type cloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage builds a Storage from a cloudinary:// URL.
func NewCloudinaryStorage(url, folder string) (Storage, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &cloudinaryStorage{cld: cld, folder: folder}, nil
}

func (s *cloudinaryStorage) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: name,
		Folder:   s.folder,
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, name string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: s.folder + "/" + name,
	})
	return err
}

// DisabledStorage stands in when no CLOUDINARY_URL is configured. Uploads
// fail cleanly instead of panicking.
type DisabledStorage struct{}

func (DisabledStorage) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	return "", ErrStorageDisabled
}

func (DisabledStorage) Delete(ctx context.Context, name string) error {
	return ErrStorageDisabled
}
