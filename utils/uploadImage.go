package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// invoice photos come straight off a phone camera; cap the long edge so the
// stored object stays reviewable without eating the bucket
const maxImageEdge = 2000

// getGoogleClient initializes a Google Cloud Storage client
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC (GOOGLE_APPLICATION_CREDENTIALS). If you need to provide
	// explicit JSON (e.g. locally), set GCS_CREDENTIALS_JSON.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// DownscaleImage re-encodes the image as JPEG, shrinking it when the long
// edge exceeds maxImageEdge. Unknown formats are returned as an error.
func DownscaleImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageEdge || bounds.Dy() > maxImageEdge {
		if bounds.Dx() >= bounds.Dy() {
			img = imaging.Resize(img, maxImageEdge, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxImageEdge, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveInvoiceImage stores an invoice photo and returns the object path.
// The image is downscaled first; storage backend depends on STORAGE_PROVIDER.
func SaveInvoiceImage(ctx context.Context, data []byte) (string, error) {
	resized, err := DownscaleImage(data)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("invoices/%s.jpg", uuid.NewString())

	switch GetStorageProvider() {
	case StorageProviderGCS:
		if err := saveImageToGCS(ctx, objectName, resized); err != nil {
			return "", err
		}
		return objectName, nil
	case StorageProviderLocal:
		if err := saveImageToLocal(objectName, resized); err != nil {
			return "", err
		}
		return objectName, nil
	}
	return "", errors.New("unknown storage provider")
}

func saveImageToGCS(ctx context.Context, objectName string, data []byte) error {
	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return errors.New("GCS_BUCKET is required")
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if _, err := client.Bucket(bucketName).Attrs(ctx); err != nil {
		return fmt.Errorf("gcs bucket %q not found or not accessible: %v", bucketName, err)
	}

	wc := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = "image/jpeg"

	if _, err = wc.Write(data); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	return nil
}

func saveImageToLocal(objectName string, data []byte) error {
	fullPath := filepath.Join(GetLocalStorageDir(), objectName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0o644)
}
