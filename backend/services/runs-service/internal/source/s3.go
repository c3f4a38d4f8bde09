package source

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"hotfire/backend/services/runs-service/internal/models"
)

// S3Options configures an S3/MinIO backed source.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Secure    bool
}

// S3 serves runs stored as objects under an optional key prefix.
type S3 struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewS3 builds the MinIO client. No request is made until the source is used.
func NewS3(opts S3Options) (*S3, error) {
	if strings.TrimSpace(opts.Endpoint) == "" || strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("source: s3 endpoint and bucket are required")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("source: create s3 client: %w", err)
	}
	prefix := strings.Trim(opts.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3{client: client, bucket: opts.Bucket, prefix: prefix}, nil
}

func (s *S3) key(name string) string {
	return s.prefix + name + models.RunExtension
}

// List returns the run names directly under the prefix, sorted.
func (s *S3) List(ctx context.Context) ([]string, error) {
	var runs []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("source: list objects: %w", obj.Err)
		}
		rel := strings.TrimPrefix(obj.Key, s.prefix)
		if strings.Contains(rel, "/") || !isRunFile(rel) {
			continue
		}
		runs = append(runs, strings.TrimSuffix(path.Base(rel), models.RunExtension))
	}
	sort.Strings(runs)
	return runs, nil
}

// Stat describes one run object.
func (s *S3) Stat(ctx context.Context, name string) (models.RunInfo, error) {
	name, err := RunName(name)
	if err != nil {
		return models.RunInfo{}, err
	}
	obj, err := s.client.StatObject(ctx, s.bucket, s.key(name), minio.StatObjectOptions{})
	if err != nil {
		return models.RunInfo{}, mapS3Error(err)
	}
	return models.RunInfo{Name: name, Size: obj.Size, ModTime: obj.LastModified}, nil
}

// Load parses the run's rows.
func (s *S3) Load(ctx context.Context, name string) ([]models.Record, error) {
	rc, info, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := ReadRecords(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", info.FileName(), err)
	}
	return records, nil
}

// Open streams the raw object.
func (s *S3) Open(ctx context.Context, name string) (io.ReadCloser, models.RunInfo, error) {
	info, err := s.Stat(ctx, name)
	if err != nil {
		return nil, models.RunInfo{}, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(info.Name), minio.GetObjectOptions{})
	if err != nil {
		return nil, models.RunInfo{}, mapS3Error(err)
	}
	return obj, info, nil
}

func mapS3Error(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return ErrNotFound
	}
	return fmt.Errorf("source: s3: %w", err)
}
