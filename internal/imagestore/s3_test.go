package imagestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type fakeS3 struct {
	s3iface.S3API

	puts    []*s3.PutObjectInput
	deletes []string
	listed  *s3.ListObjectsV2Input
	objects []*s3.Object
	putErr  error
	failOn  int
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	if f.putErr != nil && len(f.puts) >= f.failOn {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2WithContext(_ aws.Context, in *s3.ListObjectsV2Input, _ ...request.Option) (*s3.ListObjectsV2Output, error) {
	f.listed = in
	return &s3.ListObjectsV2Output{Contents: f.objects}, nil
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	if _, err := NewS3Store(S3Config{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestUploadBuildsKeyAndURL(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, S3Config{Bucket: "camp", Region: "us-west-2", Folder: "YelpCamp"})

	img, err := store.Upload(context.Background(), "tent.PNG", "image/png", bytes.NewReader([]byte("png")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(img.Filename, "YelpCamp/") || !strings.HasSuffix(img.Filename, ".png") {
		t.Fatalf("unexpected key %q", img.Filename)
	}
	if img.URL != "https://camp.s3.us-west-2.amazonaws.com/"+img.Filename {
		t.Fatalf("unexpected url %q", img.URL)
	}
	if aws.StringValue(client.puts[0].ContentType) != "image/png" {
		t.Fatalf("expected content type forwarded")
	}
}

func TestUploadPublicURL(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{}, S3Config{Bucket: "camp", PublicURL: "https://cdn.example.com/"})
	img, err := store.Upload(context.Background(), "a.jpg", "image/jpeg", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if img.URL != "https://cdn.example.com/"+img.Filename {
		t.Fatalf("unexpected url %q", img.URL)
	}
}

func TestUploadRejectsType(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{}, S3Config{Bucket: "camp"})
	_, err := store.Upload(context.Background(), "a.gif", "image/gif", bytes.NewReader(nil))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	now := time.Now()
	client := &fakeS3{objects: []*s3.Object{
		{Key: aws.String("yelpcamp/ocean/old.jpg"), LastModified: aws.Time(now.Add(-time.Hour))},
		{Key: aws.String("yelpcamp/ocean/"), LastModified: aws.Time(now)},
		{Key: aws.String("yelpcamp/ocean/new.jpg"), LastModified: aws.Time(now)},
	}}
	store := NewS3StoreWithClient(client, S3Config{Bucket: "camp", Region: "us-east-1"})

	images, err := store.List(context.Background(), "yelpcamp/ocean/", 30)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(images) != 2 || images[0].Filename != "yelpcamp/ocean/new.jpg" {
		t.Fatalf("unexpected images: %+v", images)
	}
	if aws.Int64Value(client.listed.MaxKeys) != 30 {
		t.Fatalf("expected max keys forwarded")
	}
}

func TestDelete(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, S3Config{Bucket: "camp"})
	if err := store.Delete(context.Background(), "YelpCamp/x.jpg"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(client.deletes) != 1 || client.deletes[0] != "YelpCamp/x.jpg" {
		t.Fatalf("unexpected deletes %v", client.deletes)
	}
}

func formFiles(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, ct := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+name+`"`)
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = io.WriteString(part, "data")
	}
	_ = w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	return form.File["image"]
}

func TestUploadFiles(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, S3Config{Bucket: "camp"})

	images, err := UploadFiles(context.Background(), store, formFiles(t, map[string]string{"a.jpg": "image/jpeg"}))
	if err != nil || len(images) != 1 {
		t.Fatalf("upload files: %v", err)
	}
}

func TestUploadFilesRollsBack(t *testing.T) {
	client := &fakeS3{putErr: errors.New("s3 down"), failOn: 2}
	store := NewS3StoreWithClient(client, S3Config{Bucket: "camp"})

	files := formFiles(t, map[string]string{"a.jpg": "image/jpeg", "b.png": "image/png"})
	if _, err := UploadFiles(context.Background(), store, files); err == nil {
		t.Fatalf("expected error")
	}
	if len(client.deletes) != 1 {
		t.Fatalf("expected first upload to be rolled back, got %v", client.deletes)
	}
}

func TestUploadFilesWithoutStore(t *testing.T) {
	files := formFiles(t, map[string]string{"a.jpg": "image/jpeg"})
	if _, err := UploadFiles(context.Background(), nil, files); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
	if images, err := UploadFiles(context.Background(), nil, nil); err != nil || images != nil {
		t.Fatalf("no files should be a no-op")
	}
}

func TestExtensionFor(t *testing.T) {
	if ext, ok := ExtensionFor("image/JPEG; charset=binary"); !ok || ext != ".jpg" {
		t.Fatalf("expected jpeg accepted")
	}
	if _, ok := ExtensionFor("text/plain"); ok {
		t.Fatalf("expected text rejected")
	}
}
