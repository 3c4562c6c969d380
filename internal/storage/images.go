// Package storage keeps uploaded food images on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxImageSize = 5 << 20

var (
	ErrMissingImage     = errors.New("image file is required")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image file too large (max 5MB)")
	ErrInvalidImageName = errors.New("invalid image name")
)

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageStore persists an uploaded image and returns the name it was stored
// under. Delete takes that same name.
type ImageStore interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, name string) error
}

type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	return &LocalImageStore{dir: abs}, nil
}

func (s *LocalImageStore) Dir() string {
	return s.dir
}

func (s *LocalImageStore) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", ErrMissingImage
	}

	extension := strings.ToLower(filepath.Ext(file.Filename))
	wantMIME, ok := allowedExtensions[extension]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, extension)
	}
	if file.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	in, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer in.Close()

	detected, err := mimetype.DetectReader(in)
	if err != nil {
		return "", fmt.Errorf("detect image type: %w", err)
	}
	if !detected.Is(wantMIME) {
		return "", fmt.Errorf("%w: content is %s", ErrUnsupportedImage, detected.String())
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := primitive.NewObjectID().Hex() + extension
	fullPath := filepath.Join(s.dir, name)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(out, io.LimitReader(in, MaxImageSize+1)); err != nil {
		out.Close()
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("close image file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	slog.Debug("image stored", slog.String("name", name), slog.Int64("size", file.Size))
	return name, nil
}

// Delete removes a stored image. Names that would resolve outside the upload
// directory are refused; a missing file is not an error.
func (s *LocalImageStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	if trimmed != filepath.Base(trimmed) || trimmed == "." || trimmed == ".." {
		return fmt.Errorf("%w: %s", ErrInvalidImageName, name)
	}

	target := filepath.Clean(filepath.Join(s.dir, trimmed))
	if !strings.HasPrefix(target, s.dir+string(os.PathSeparator)) {
		return fmt.Errorf("%w: %s", ErrInvalidImageName, name)
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}
