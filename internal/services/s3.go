package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ImageHost stores images in an S3-compatible bucket. The object key is the
// deletion handle.
type S3ImageHost struct {
	client    *s3.Client
	bucket    string
	folder    string
	publicURL string
	now       func() time.Time
}

type S3ImageHostConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
	Folder          string
}

func NewS3ImageHost(ctx context.Context, cfg S3ImageHostConfig) (*S3ImageHost, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ImageHost{
		client:    client,
		bucket:    cfg.Bucket,
		folder:    cfg.Folder,
		publicURL: cfg.PublicURL,
		now:       time.Now,
	}, nil
}

func (s *S3ImageHost) Upload(ctx context.Context, file io.Reader, filename string) (*HostedImage, error) {
	// Buffer so the SDK can sign a seekable body
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	key := path.Join(s.folder, UniqueFilename(filename, s.now()))
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, &ImageHostError{Op: "upload", Err: err}
	}

	return &HostedImage{URL: objectURL(s.publicURL, key), Handle: key}, nil
}

// objectURL joins the public base URL and an object key, escaping each key
// segment so names like "my tent.jpg" stay valid.
func objectURL(publicURL, key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.TrimSuffix(publicURL, "/") + "/" + strings.Join(segments, "/")
}

func (s *S3ImageHost) Destroy(ctx context.Context, handle string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		return &ImageHostError{Op: "destroy", Err: err}
	}
	return nil
}
