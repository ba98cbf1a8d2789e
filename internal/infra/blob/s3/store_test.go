package s3

import (
	"context"
	"testing"

	"mortalitycore/internal/blob/core"
)

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("bucket must be required")
	}
}

func TestNewWithStaticCredentials(t *testing.T) {
	store, err := New(context.Background(), Config{
		Bucket:          "exports",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		PathStyle:       true,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if store.Driver() != core.DriverS3 {
		t.Fatalf("driver = %s", store.Driver())
	}
	if store.bucket != "exports" || store.baseURL == nil || store.baseURL.Host != "localhost:9000" {
		t.Fatalf("store = %+v", store)
	}
}

func TestOpenFromEnv(t *testing.T) {
	t.Setenv("MORTALITYCORE_BLOB_S3_BUCKET", "")
	if _, err := OpenFromEnv(context.Background()); err == nil {
		t.Fatal("missing bucket variable must fail")
	}

	t.Setenv("MORTALITYCORE_BLOB_S3_BUCKET", "exports")
	t.Setenv("MORTALITYCORE_BLOB_S3_REGION", "us-west-2")
	t.Setenv("MORTALITYCORE_BLOB_S3_PATH_STYLE", "TRUE")
	store, err := OpenFromEnv(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.bucket != "exports" {
		t.Fatalf("bucket = %s", store.bucket)
	}
}
