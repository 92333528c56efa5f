package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestJoinPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"", "projects/a/cover.png", ""},
		{"http://localhost:9000/dearme", "projects/a/cover.png", "http://localhost:9000/dearme/projects/a/cover.png"},
		{"http://localhost:9000/dearme", "/projects/a/reading.wav", "http://localhost:9000/dearme/projects/a/reading.wav"},
	}
	for _, tt := range tests {
		if got := joinPublicURL(tt.base, tt.key); got != tt.want {
			t.Errorf("joinPublicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestNewClient_TrimsPublicURL(t *testing.T) {
	c, err := NewClient(context.Background(), Options{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		Bucket:    "dearme",
		AccessKey: "minio",
		SecretKey: "minio123",
		PublicURL: "http://localhost:9000/dearme/",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if got := c.PublicURL("k"); got != "http://localhost:9000/dearme/k" {
		t.Errorf("got %q", got)
	}

	url, err := c.GeneratePresignedURL(context.Background(), "projects/a/cover.png", time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "/dearme/projects/a/cover.png") || !strings.Contains(url, "X-Amz-Signature") {
		t.Errorf("presigned url %q", url)
	}
}

func TestNewClient_RequiresBucket(t *testing.T) {
	if _, err := NewClient(context.Background(), Options{Region: "us-east-1"}); err == nil {
		t.Fatal("expected error")
	}
}
