package manifest

import (
	"context"
	"errors"

	"load-manager/core/fault"
	"load-manager/core/listing"
	"load-manager/feature/manifest/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store owns Manifest records. Manifests are immutable after creation;
// re-creating one for an existing load fails with a conflict unless the
// store was configured with the overwrite policy.
type Store struct {
	db        *gorm.DB
	overwrite bool
}

// Options controls store policy.
type Options struct {
	// Overwrite allows Create to replace an existing manifest for the
	// same load_id instead of failing with a conflict.
	Overwrite bool
}

// NewStore creates a manifest store.
func NewStore(db *gorm.DB, opts Options) *Store {
	return &Store{db: db, overwrite: opts.Overwrite}
}

// Create validates the entries and persists a new manifest in a single
// transaction. A failed create leaves no manifest or entry rows behind.
func (s *Store) Create(ctx context.Context, loadID string, entries []models.FileEntry) (*models.Manifest, error) {
	const op = "manifest.create"

	if loadID == "" {
		return nil, fault.New(fault.KindValidation, op, loadID, "load_id is required")
	}
	if len(entries) == 0 {
		return nil, fault.New(fault.KindValidation, op, loadID, "manifest has no file entries")
	}

	seen := make(map[string]struct{}, len(entries))
	var totalBytes int64
	for i := range entries {
		e := &entries[i]
		e.Path = listing.NormalizePath(e.Path)
		if e.Path == "" {
			return nil, fault.New(fault.KindValidation, op, loadID, "entry %d: empty path", i)
		}
		if e.Size <= 0 {
			return nil, fault.New(fault.KindValidation, op, loadID, "entry %q: non-positive size %d", e.Path, e.Size)
		}
		if _, dup := seen[e.Path]; dup {
			return nil, fault.New(fault.KindValidation, op, loadID, "duplicate path %q", e.Path)
		}
		seen[e.Path] = struct{}{}
		e.Position = i
		totalBytes += e.Size
	}

	m := &models.Manifest{
		ID:         uuid.NewString(),
		LoadID:     loadID,
		TotalFiles: len(entries),
		TotalBytes: totalBytes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Manifest
		res := tx.Where("load_id = ?", loadID).First(&existing)
		if res.Error == nil {
			if !s.overwrite {
				return fault.New(fault.KindConflict, op, loadID, "manifest already exists (id %s)", existing.ID)
			}
			if err := tx.Where("manifest_id = ?", existing.ID).Delete(&models.FileEntry{}).Error; err != nil {
				return fault.Wrap(fault.KindInternal, op, loadID, err)
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return fault.Wrap(fault.KindInternal, op, loadID, err)
			}
		} else if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return fault.Wrap(fault.KindInternal, op, loadID, res.Error)
		}

		if err := tx.Create(m).Error; err != nil {
			return fault.Wrap(fault.KindInternal, op, loadID, err)
		}
		for i := range entries {
			entries[i].ManifestID = m.ID
		}
		if err := tx.CreateInBatches(entries, 500).Error; err != nil {
			return fault.Wrap(fault.KindInternal, op, loadID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.Entries = entries
	return m, nil
}

// Get returns the manifest for the load with its entries in manifest order.
func (s *Store) Get(ctx context.Context, loadID string) (*models.Manifest, error) {
	const op = "manifest.get"

	var m models.Manifest
	res := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("load_id = ?", loadID).
		First(&m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, fault.New(fault.KindNotFound, op, loadID, "no manifest for load")
		}
		return nil, fault.Wrap(fault.KindInternal, op, loadID, res.Error)
	}

	return &m, nil
}

// List returns manifest summaries (no entries) ordered by creation time
// ascending. The filter matches load_id by prefix; empty matches all.
// Each call re-queries the store, so the sequence is restartable.
func (s *Store) List(ctx context.Context, filter string) ([]models.Manifest, error) {
	const op = "manifest.list"

	q := s.db.WithContext(ctx).Order("created_at ASC, load_id ASC")
	if filter != "" {
		q = q.Where("load_id LIKE ?", filter+"%")
	}

	var manifests []models.Manifest
	if err := q.Find(&manifests).Error; err != nil {
		return nil, fault.Wrap(fault.KindInternal, op, filter, err)
	}
	return manifests, nil
}

// EntriesFromListing converts a collected listing into ordered manifest
// entries (sorted by path). This is how manifests are authored from the
// staging tree: collect a local listing, then create the manifest from it.
func EntriesFromListing(set listing.Set) []models.FileEntry {
	paths := set.Paths()
	entries := make([]models.FileEntry, 0, len(paths))
	for i, p := range paths {
		e := set[p]
		entries = append(entries, models.FileEntry{
			Position: i,
			Path:     p,
			Size:     e.Size,
			Checksum: e.Checksum,
		})
	}
	return entries
}
