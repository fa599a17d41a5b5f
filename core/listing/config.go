package listing

// Config holds configuration for the listing collectors.
type Config struct {
	// FollowSymlinks makes the local producer descend through symbolic
	// links. Staging "ops" trees are commonly built from symlink farms,
	// so this defaults to true.
	FollowSymlinks bool `mapstructure:"follow_symlinks" default:"true"`
	// MaxDepth bounds the local walk depth when following symlinks,
	// guarding against link cycles. Zero means the built-in limit.
	MaxDepth int `mapstructure:"max_depth" default:"0"`
}

// defaultMaxDepth bounds symlink-following walks when no explicit limit
// is configured.
const defaultMaxDepth = 64
