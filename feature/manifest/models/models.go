package models

import (
	"time"

	"gorm.io/gorm"
)

// Manifest declares the set of files belonging to one Load. It is immutable
// after creation.
type Manifest struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	LoadID     string    `gorm:"column:load_id;uniqueIndex;size:128" json:"load_id"`
	TotalFiles int       `gorm:"column:total_files" json:"total_files"`
	TotalBytes int64     `gorm:"column:total_bytes" json:"total_bytes"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`

	Entries []FileEntry `gorm:"foreignKey:ManifestID;references:ID" json:"entries,omitempty"`
}

// TableName overrides the table name.
func (Manifest) TableName() string {
	return "manifests"
}

// FileEntry is one declared file of a manifest. Path is unique within the
// manifest and Position preserves the manifest order.
type FileEntry struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ManifestID string `gorm:"column:manifest_id;size:36;uniqueIndex:idx_manifest_path" json:"-"`
	Position   int    `gorm:"column:position" json:"position"`
	Path       string `gorm:"column:path;size:1024;uniqueIndex:idx_manifest_path" json:"path"`
	Size       int64  `gorm:"column:size" json:"size"`
	Checksum   string `gorm:"column:checksum;size:128" json:"checksum,omitempty"`
}

// TableName overrides the table name.
func (FileEntry) TableName() string {
	return "manifest_entries"
}

// AutoMigrate creates or updates the manifest tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Manifest{}, &FileEntry{})
}
