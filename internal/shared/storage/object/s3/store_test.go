package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"resume-builder/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "renders/resume-1.pdf", want: "renders/resume-1.pdf"},
		{name: "simple prefix", prefix: "cache", key: "renders/resume-1.pdf", want: "cache/renders/resume-1.pdf"},
		{name: "prefix trailing slash", prefix: "cache/", key: "renders/resume-1.pdf", want: "cache/renders/resume-1.pdf"},
		{name: "prefix and key slashes", prefix: "/cache/", key: "/renders/resume-1.pdf", want: "cache/renders/resume-1.pdf"},
		{name: "nested prefix", prefix: "cache/sub", key: "renders/resume-1.pdf", want: "cache/sub/renders/resume-1.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeS3 struct {
	objects map[string][]byte
	lastPut *s3.PutObjectInput
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.lastPut = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestStorePutOpen(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := NewWithClient(fake, "bucket", "/cache/", "kms-key")
	ctx := context.Background()

	n, err := store.Put(ctx, "renders/u/resume-1.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != int64(len("pdf-bytes")) {
		t.Fatalf("unexpected size %d", n)
	}
	if _, ok := fake.objects["cache/renders/u/resume-1.pdf"]; !ok {
		t.Fatalf("expected prefixed key, got %v", fake.objects)
	}
	if fake.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(fake.lastPut.SSEKMSKeyId) != "kms-key" {
		t.Fatalf("expected kms encryption")
	}

	rc, err := store.Open(ctx, "renders/u/resume-1.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "pdf-bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestStoreOpenMissing(t *testing.T) {
	store := NewWithClient(&fakeS3{objects: map[string][]byte{}}, "bucket", "", "")
	if _, err := store.Open(context.Background(), "renders/none.pdf"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIsNotFoundGenericAPIError(t *testing.T) {
	if !isNotFound(&smithy.GenericAPIError{Code: "NotFound"}) {
		t.Fatalf("expected NotFound api error to map")
	}
	if isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) {
		t.Fatalf("expected AccessDenied to stay an error")
	}
}

func TestStoreDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"cache/renders/u/resume-1.pdf": []byte("pdf")}}
	store := NewWithClient(fake, "bucket", "cache", "")
	ctx := context.Background()

	if err := store.Delete(ctx, "renders/u/resume-1.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(fake.objects) != 0 {
		t.Fatalf("expected object removed, got %v", fake.objects)
	}
	if err := store.Delete(ctx, "renders/u/resume-1.pdf"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if err := store.Delete(ctx, "../escape"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
