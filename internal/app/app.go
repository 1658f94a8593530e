package app

import (
	"context"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/pipedeck/internal/config"
	"github.com/five82/pipedeck/internal/logging"
	"github.com/five82/pipedeck/internal/pipelineapi"
	"github.com/five82/pipedeck/internal/prefs"
	"github.com/five82/pipedeck/internal/ui"
)

// Options configure pipedeck. Non-zero fields override the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/pipedeck/prefs.toml
	APIURL     string
	PollEvery  int // seconds
	LogFile    string
	LogLevel   string
}

// LoadConfig reads the config file and applies flag overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, errors.Wrap(err, "load config")
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		path, err := config.ExpandPath(v)
		if err != nil {
			return config.Config{}, errors.Wrap(err, "log file")
		}
		cfg.LogFile = path
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// NewClient builds the API client described by cfg.
func NewClient(cfg config.Config) (*pipelineapi.Client, error) {
	client, err := pipelineapi.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "init pipeline client")
	}
	return client, nil
}

// Run boots the dashboard and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options, in io.Reader, out io.Writer) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "setup logging")
	}
	defer closer.Close()

	client, err := NewClient(cfg)
	if err != nil {
		return err
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	log.Info().
		Str("api_url", client.BaseURL()).
		Dur("poll_interval", cfg.PollInterval).
		Bool("poll_backoff", cfg.PollBackoff).
		Msg("pipedeck starting")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := ui.NewProgram(ui.Options{
		Context:      ctx,
		API:          client,
		APIURL:       client.BaseURL(),
		PollInterval: cfg.PollInterval,
		PollBackoff:  cfg.PollBackoff,
		Prefs:        userPrefs,
		PrefsPath:    prefsPath,
	}, tea.WithInput(in), tea.WithOutput(out))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		_, err := program.Run()
		cancel()
		return err
	})
	eg.Go(func() error {
		<-egCtx.Done()
		program.Quit()
		return nil
	})

	if err := eg.Wait(); err != nil {
		return errors.Wrap(err, "tui")
	}
	log.Info().Msg("pipedeck stopped")
	return nil
}
