package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quizzku_backend/internal/config"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	provider := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}
	svc := &StorageService{Provider: provider}
	ctx := context.Background()

	url, err := svc.Upload(ctx, "profile_images/abc.png", strings.NewReader("png-bytes"), 9, "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "/uploads/profile_images/abc.png" {
		t.Fatalf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "profile_images", "abc.png"))
	if err != nil {
		t.Fatalf("read uploaded file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("uploaded content = %q", data)
	}

	if err := svc.DeleteURL(ctx, url); err != nil {
		t.Fatalf("delete by url: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "profile_images", "abc.png")); !os.IsNotExist(err) {
		t.Errorf("file still present after delete, stat err = %v", err)
	}
}

func TestDeleteURLIgnoresForeignURL(t *testing.T) {
	provider := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}
	svc := &StorageService{Provider: provider}

	// 来自别的存储后端的历史地址不应报错，也不应删除任何东西
	if err := svc.DeleteURL(context.Background(), "http://cdn.example/bucket/old.png"); err != nil {
		t.Fatalf("delete foreign url: %v", err)
	}
}

func TestObjectName(t *testing.T) {
	local := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: "/tmp"}}
	minio := &MinioStorageProvider{Config: &config.StorageConfig{
		MinioEndpoint: "minio:9000",
		MinioBucket:   "quizzku",
	}}

	tests := []struct {
		name     string
		provider StorageProvider
		url      string
		want     string
	}{
		{"local match", local, "/uploads/profile_images/a.png", "profile_images/a.png"},
		{"local foreign", local, "http://minio:9000/quizzku/a.png", ""},
		{"minio match", minio, "http://minio:9000/quizzku/profile_images/a.png", "profile_images/a.png"},
		{"minio wrong bucket", minio, "http://minio:9000/other/a.png", ""},
		{"minio foreign", minio, "/uploads/a.png", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.provider.ObjectName(tt.url); got != tt.want {
				t.Errorf("ObjectName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
