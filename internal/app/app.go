package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/debounce"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
	"github.com/five82/marquee/internal/ui"
)

const userAgent = "marquee"

// Options configure the marquee application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/marquee/prefs.toml
	LogPath    string // empty uses the config's log_file
}

// runtime holds what both the TUI and the headless mode need.
type runtime struct {
	cfg     config.Config
	log     zerolog.Logger
	logFile io.Closer
	client  *tmdb.Client
}

func (r *runtime) Close() error {
	if r.logFile == nil {
		return nil
	}
	return r.logFile.Close()
}

func setup(opts Options) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logPath := cfg.LogFile
	if opts.LogPath != "" {
		if logPath, err = config.ExpandPath(opts.LogPath); err != nil {
			return nil, fmt.Errorf("log path: %w", err)
		}
	}
	logger, file, err := logging.OpenFile(logPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg.LogFile = logPath

	client, err := tmdb.NewClient(tmdb.Options{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Language:          cfg.Language,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSec,
		UserAgent:         userAgent,
		Logger:            &logger,
	})
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("init tmdb client: %w", err)
	}

	return &runtime{cfg: cfg, log: logger, logFile: file, client: client}, nil
}

// Run boots the marquee TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	log := rt.log.With().Str("component", "app").Logger()
	log.Info().
		Str("base_url", rt.cfg.BaseURL).
		Str("language", rt.cfg.Language).
		Dur("debounce", rt.cfg.Debounce).
		Msg("marquee starting")

	userPrefs := prefs.Load(opts.PrefsPath)
	ctrl := state.NewController(rt.client, rt.log)
	debouncer := debounce.New(rt.cfg.Debounce)

	err = ui.Run(ui.Options{
		Context:      ctx,
		Controller:   ctrl,
		Debouncer:    debouncer,
		ImageBaseURL: rt.cfg.ImageBaseURL,
		LogPath:      rt.cfg.LogFile,
		ThemeName:    userPrefs.Theme,
		ShowPosters:  userPrefs.ShowPosters,
		PrefsPath:    opts.PrefsPath,
		Logger:       &rt.log,
	})
	if err != nil {
		log.Error().Err(err).Msg("ui exited with error")
		return err
	}
	log.Info().Msg("marquee stopped")
	return nil
}
