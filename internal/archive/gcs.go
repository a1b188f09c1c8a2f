package archive

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GCSArchiver stores document copies in a Google Cloud Storage bucket.
type GCSArchiver struct {
	bucket     *storage.BucketHandle
	bucketName string
	prefix     string
}

// NewGCSArchiver creates an archiver writing under archive/ in the given
// bucket.
func NewGCSArchiver(ctx context.Context, bucketName string) (*GCSArchiver, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSArchiver{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
		prefix:     "archive/",
	}, nil
}

// Archive uploads the source document. The write is conditional on the object
// not existing; a duplicate upload of the same object is not a failure.
func (a *GCSArchiver) Archive(ctx context.Context, req Request) (*Result, error) {
	name, err := objectName(req.UserID, req.FileName, time.Now())
	if err != nil {
		return nil, err
	}
	object := a.prefix + name

	src, err := os.Open(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open source document: %w", err)
	}
	defer src.Close()

	writer := a.bucket.Object(object).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	if _, err := io.Copy(writer, src); err != nil {
		_ = writer.Close()
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			log.Printf("archive object %s already exists, skipping", object)
			return &Result{URL: a.url(object)}, nil
		}
		return nil, fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			log.Printf("archive object %s already exists, skipping", object)
			return &Result{URL: a.url(object)}, nil
		}
		return nil, fmt.Errorf("failed to finalize GCS write: %w", err)
	}

	return &Result{URL: a.url(object)}, nil
}

func (a *GCSArchiver) url(object string) string {
	return fmt.Sprintf("gs://%s/%s", a.bucketName, object)
}
