// Package thumbnail resolves item thumbnails and substitutes a fallback on failure.
package thumbnail

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// ErrUnresolvable is returned when a reference cannot be loaded.
var ErrUnresolvable = errors.New("thumbnail reference unresolvable")

// Resolver loads an image reference.
// A nil error means the reference would display.
type Resolver interface {
	Resolve(ctx context.Context, ref string) error
	// Name returns the resolver type (used in config).
	Name() string
}

// FileResolverConfig holds settings for FileResolver.
type FileResolverConfig struct {
	Root string `yaml:"root" mapstructure:"root" default:"assets" validate:"required"`
}

// FileResolver resolves references as files below a root directory.
type FileResolver struct {
	root string
}

// NewFileResolver creates a FileResolver from provider settings.
func NewFileResolver(settings map[string]any) (*FileResolver, error) {
	var config FileResolverConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	zlog.Debug().Msgf("file resolver config: %+v", config)
	return &FileResolver{root: config.Root}, nil
}

// Resolve checks that ref names a regular file inside the root.
func (r *FileResolver) Resolve(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ref == "" {
		return errors.Wrap(ErrUnresolvable, "empty reference")
	}
	clean := filepath.FromSlash(ref)
	if !filepath.IsLocal(clean) {
		return errors.Wrapf(ErrUnresolvable, "reference %q escapes root", ref)
	}
	info, err := os.Stat(filepath.Join(r.root, clean))
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "stat %q", ref), ErrUnresolvable)
	}
	if !info.Mode().IsRegular() {
		return errors.Wrapf(ErrUnresolvable, "reference %q is not a file", ref)
	}
	return nil
}

// Name returns the resolver name.
func (r *FileResolver) Name() string {
	return "file"
}

// StaticResolverConfig holds settings for StaticResolver.
type StaticResolverConfig struct {
	Deny []string `yaml:"deny" mapstructure:"deny"`
}

// StaticResolver accepts every non-empty reference except the denied ones.
// It stands in for a client-side loader that only learns of failures later.
type StaticResolver struct {
	deny map[string]bool
}

// NewStaticResolver creates a StaticResolver from provider settings.
func NewStaticResolver(settings map[string]any) (*StaticResolver, error) {
	var config StaticResolverConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	deny := make(map[string]bool, len(config.Deny))
	for _, ref := range config.Deny {
		deny[ref] = true
	}
	return &StaticResolver{deny: deny}, nil
}

// Resolve rejects empty and denied references.
func (r *StaticResolver) Resolve(ctx context.Context, ref string) error {
	if ref == "" {
		return errors.Wrap(ErrUnresolvable, "empty reference")
	}
	if r.deny[ref] {
		return errors.Wrapf(ErrUnresolvable, "reference %q denied", ref)
	}
	return nil
}

// Name returns the resolver name.
func (r *StaticResolver) Name() string {
	return "static"
}

// NewResolver creates a resolver of the given type.
func NewResolver(resolverType string, settings map[string]any) (Resolver, error) {
	switch resolverType {
	case "file":
		return NewFileResolver(settings)
	case "static", "":
		return NewStaticResolver(settings)
	default:
		return nil, errors.Newf("unsupported resolver type: %s", resolverType)
	}
}
