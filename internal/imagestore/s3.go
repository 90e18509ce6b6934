package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PublicURL string
	Folder    string
}

type S3Store struct {
	client s3iface.S3API
	cfg    S3Config
}

// NewS3Store builds a store from static config; credentials come from the
// default AWS chain.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create aws session")
	}
	return NewS3StoreWithClient(s3.New(sess), cfg), nil
}

func NewS3StoreWithClient(client s3iface.S3API, cfg S3Config) *S3Store {
	return &S3Store{client: client, cfg: cfg}
}

func (s *S3Store) Upload(ctx context.Context, name, contentType string, body io.ReadSeeker) (Image, error) {
	ext, ok := ExtensionFor(contentType)
	if !ok {
		return Image{}, ErrUnsupportedType
	}
	if e := strings.ToLower(path.Ext(name)); e == ".jpeg" || e == ".jpg" || e == ".png" || e == ".webp" {
		ext = e
	}

	key := uuid.NewString() + ext
	if s.cfg.Folder != "" {
		key = s.cfg.Folder + "/" + key
	}

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Image{}, errors.Wrap(err, "could not upload image")
	}
	return Image{URL: s.url(key), Filename: key}, nil
}

func (s *S3Store) Delete(ctx context.Context, filename string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(filename),
	})
	return errors.Wrap(err, "could not delete image")
}

// List returns up to max images under prefix, newest first.
func (s *S3Store) List(ctx context.Context, prefix string, max int) ([]Image, error) {
	out, err := s.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.cfg.Bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int64(int64(max)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not list images")
	}

	objects := out.Contents
	sort.SliceStable(objects, func(i, j int) bool {
		return aws.TimeValue(objects[i].LastModified).After(aws.TimeValue(objects[j].LastModified))
	})

	images := make([]Image, 0, len(objects))
	for _, obj := range objects {
		key := aws.StringValue(obj.Key)
		if strings.HasSuffix(key, "/") {
			continue
		}
		images = append(images, Image{URL: s.url(key), Filename: key})
	}
	return images, nil
}

func (s *S3Store) url(key string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
