// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// read-only operations the tracker needs: verifying access to the target
// bucket, enumerating uploaded objects, and probing single objects. This
// abstraction supports AWS S3 as well as self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "nasa-irsa-spherex")
package storage
