package home

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/phasebox/internal/app/playback"
	"github.com/osa030/phasebox/internal/app/thumbnail"
	"github.com/osa030/phasebox/internal/app/transport"
	"github.com/osa030/phasebox/internal/domain/phase"
	"github.com/osa030/phasebox/internal/infra/catalog"
	"github.com/osa030/phasebox/internal/infra/config"
)

// NewControllerFromConfig creates a controller from configuration.
// The playlist is seeded from the configured catalog file, or the embedded default.
func NewControllerFromConfig(cfg *config.Config, player playback.Player) (*Controller, error) {
	items, err := loadSeed(cfg)
	if err != nil {
		return nil, err
	}

	resolver, err := thumbnail.NewResolver(cfg.Thumbnail.Resolver.Type, cfg.Thumbnail.Resolver.Settings)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create thumbnail resolver (type %s)", cfg.Thumbnail.Resolver.Type)
	}
	zlog.Info().Msgf("registered thumbnail resolver: type=%s fallback=%s", resolver.Name(), cfg.Thumbnail.Fallback)

	seekMode, err := transport.ParseSeekMode(cfg.Transport.SeekMode)
	if err != nil {
		return nil, err
	}

	ctrl, err := NewController(Config{
		Transport: transport.Config{
			Duration: cfg.Transport.Duration(),
			SeekStep: cfg.Transport.SeekStep(),
			SeekMode: seekMode,
		},
		RemoveButtonWired: cfg.RemoveButtonWired(),
	}, items, thumbnail.NewTracker(resolver, cfg.Thumbnail.Fallback), player)
	if err != nil {
		return nil, err
	}

	zlog.Info().Msgf("home controller ready: items=%d seek_mode=%s remove_button=%s",
		len(items), seekMode, cfg.Bindings.RemoveButton)
	return ctrl, nil
}

func loadSeed(cfg *config.Config) ([]phase.Item, error) {
	if cfg.Playlist.DefaultPath == "" {
		return catalog.Default(), nil
	}
	items, err := catalog.Load(cfg.Playlist.DefaultPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load default playlist")
	}
	return items, nil
}
