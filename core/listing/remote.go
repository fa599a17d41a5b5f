package listing

import (
	"context"
	"strings"

	"load-manager/core/fault"
	"load-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// RemoteProducer enumerates every object under the bucket's configured
// prefix and produces a listing normalized relative to that prefix.
type RemoteProducer struct {
	client storage.Client
	bucket string
	prefix string
}

// NewRemoteProducer creates a producer for the given bucket and prefix.
func NewRemoteProducer(client storage.Client, bucket, prefix string) *RemoteProducer {
	return &RemoteProducer{client: client, bucket: bucket, prefix: prefix}
}

// Collect enumerates the bucket. Cancellation or an enumeration error yields
// a partial-listing fault; a nil error guarantees a complete enumeration,
// so an empty Set really means an empty prefix.
func (p *RemoteProducer) Collect(ctx context.Context) (Set, error) {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, "listing.remote", "", err)
	}
	if !exists {
		return nil, fault.New(fault.KindNotFound, "listing.remote", "", "bucket %q does not exist", p.bucket)
	}

	prefix := NormalizePath(p.prefix)
	listPrefix := prefix
	if listPrefix != "" {
		listPrefix += "/"
	}

	set := Set{}
	objects := p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{
		Prefix:    listPrefix,
		Recursive: true,
	})

	for obj := range objects {
		if obj.Err != nil {
			return nil, fault.Wrap(fault.KindPartialListing, "listing.remote", "", obj.Err)
		}

		key := NormalizePath(obj.Key)
		if key == "" || strings.HasSuffix(obj.Key, "/") {
			// Directory placeholder objects carry no data.
			continue
		}

		rel, ok := StripPrefix(key, prefix)
		if !ok || rel == "" {
			continue
		}

		set[rel] = Entry{
			Size:     obj.Size,
			Checksum: etagChecksum(obj.ETag),
		}
	}

	// The minio iterator closes its channel on context cancellation without
	// surfacing ctx.Err through ObjectInfo, so check again before declaring
	// the enumeration complete.
	if err := ctx.Err(); err != nil {
		return nil, fault.Wrap(fault.KindPartialListing, "listing.remote", "", err)
	}

	return set, nil
}

// etagChecksum extracts a usable checksum from an S3 ETag. Multipart upload
// ETags ("<md5>-<parts>") are not content digests and are dropped.
func etagChecksum(etag string) string {
	sum := strings.Trim(etag, `"`)
	if sum == "" || strings.Contains(sum, "-") {
		return ""
	}
	return sum
}
