package listing

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"load-manager/core/fault"
)

// LocalProducer enumerates a local staging tree and produces a normalized
// listing relative to the tree root. Symbolic links are followed or skipped
// according to the configured policy.
type LocalProducer struct {
	root string
	cfg  Config
}

// NewLocalProducer creates a producer for the given staging root.
func NewLocalProducer(root string, cfg Config) *LocalProducer {
	return &LocalProducer{root: root, cfg: cfg}
}

// Collect walks the tree and returns the listing. Cancellation of ctx aborts
// the walk with a partial-listing fault; a nil error guarantees a complete
// enumeration. Local entries carry sizes only, no checksums.
func (p *LocalProducer) Collect(ctx context.Context) (Set, error) {
	info, err := os.Stat(p.root)
	if err != nil {
		return nil, fault.Wrap(fault.KindNotFound, "listing.local", "", err)
	}
	if !info.IsDir() {
		return nil, fault.New(fault.KindValidation, "listing.local", "", "root %q is not a directory", p.root)
	}

	maxDepth := p.cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	set := Set{}
	if err := p.walk(ctx, p.root, "", set, maxDepth); err != nil {
		return nil, err
	}
	return set, nil
}

// walk uses a manual recursion instead of filepath.WalkDir because WalkDir
// never descends through symlinked directories, and staging trees are built
// from them.
func (p *LocalProducer) walk(ctx context.Context, dir, rel string, set Set, depth int) error {
	if err := ctx.Err(); err != nil {
		return fault.Wrap(fault.KindPartialListing, "listing.local", "", err)
	}
	if depth <= 0 {
		return fault.New(fault.KindPartialListing, "listing.local", "", "max depth exceeded at %q (symlink cycle?)", rel)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fault.Wrap(fault.KindPartialListing, "listing.local", "", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return fault.Wrap(fault.KindPartialListing, "listing.local", "", err)
		}

		full := filepath.Join(dir, entry.Name())
		childRel := entry.Name()
		if rel != "" {
			childRel = rel + "/" + entry.Name()
		}

		var info fs.FileInfo
		if entry.Type()&fs.ModeSymlink != 0 {
			if !p.cfg.FollowSymlinks {
				continue
			}
			// Stat resolves the link target; broken links are skipped.
			info, err = os.Stat(full)
			if err != nil {
				continue
			}
		} else {
			info, err = entry.Info()
			if err != nil {
				return fault.Wrap(fault.KindPartialListing, "listing.local", "", err)
			}
		}

		if info.IsDir() {
			if err := p.walk(ctx, full, childRel, set, depth-1); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		set[NormalizePath(childRel)] = Entry{Size: info.Size()}
	}

	return nil
}
