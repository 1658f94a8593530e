package cmds

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/five82/pipedeck/internal/app"
	"github.com/five82/pipedeck/internal/config"
	"github.com/five82/pipedeck/internal/logging"
	"github.com/five82/pipedeck/internal/pipelineapi"
)

// AddRootFlags registers the persistent flags shared by every command.
func AddRootFlags(root *cobra.Command) {
	root.PersistentFlags().String("config", "", "Path to config file (defaults to ~/.config/pipedeck/config.toml)")
	root.PersistentFlags().String("api-url", "", "Pipeline service URL (overrides api_url)")
	root.PersistentFlags().Int("poll", 0, "Write-count refresh interval in seconds (overrides poll_interval)")
	root.PersistentFlags().String("log-file", "", "Log file path (overrides log_file)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides log_level)")
}

func getRootOptions(cmd *cobra.Command) (app.Options, error) {
	flags := cmd.Root().PersistentFlags()
	configPath, err := flags.GetString("config")
	if err != nil {
		return app.Options{}, err
	}
	apiURL, err := flags.GetString("api-url")
	if err != nil {
		return app.Options{}, err
	}
	poll, err := flags.GetInt("poll")
	if err != nil {
		return app.Options{}, err
	}
	if poll < 0 {
		return app.Options{}, errors.New("poll must be >= 0")
	}
	logFile, err := flags.GetString("log-file")
	if err != nil {
		return app.Options{}, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return app.Options{}, err
	}
	return app.Options{
		ConfigPath: configPath,
		APIURL:     apiURL,
		PollEvery:  poll,
		LogFile:    logFile,
		LogLevel:   logLevel,
	}, nil
}

// session is what a one-shot command needs: resolved config, logging to the
// log file and an API client.
type session struct {
	cfg    config.Config
	client *pipelineapi.Client
	closer io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

func openSession(cmd *cobra.Command) (*session, error) {
	opts, err := getRootOptions(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := app.LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "setup logging")
	}
	client, err := app.NewClient(cfg)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return &session{cfg: cfg, client: client, closer: closer}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// remoteError rewords a RemoteError as "<action>: <detail>" for the terminal.
func remoteError(action string, err error) error {
	return errors.Errorf("%s: %s", action, pipelineapi.Detail(err))
}
