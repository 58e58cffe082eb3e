package handlers

import (
	"context"
	"sync"
	"time"
)

// StorageHandler interface for object storage operations
type StorageHandler interface {
	UploadCourseFile(ctx context.Context, content []byte, key, contentType string) error
	MintDownloadReference(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
}

var (
	storageHandler StorageHandler
	handlerMu      sync.RWMutex
)

// RegisterStorageHandler sets the storage handler
func RegisterStorageHandler(h StorageHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	storageHandler = h
}

// GetStorageHandler returns the registered storage handler
func GetStorageHandler() StorageHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return storageHandler
}
