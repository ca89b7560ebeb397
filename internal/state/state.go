package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/calegray/lattice/internal/config"
	"github.com/calegray/lattice/internal/constants"
	"github.com/calegray/lattice/internal/engine"
	"github.com/calegray/lattice/internal/pathutil"
	"github.com/calegray/lattice/internal/watcher"
)

// State aggregates everything a command needs: the loaded configuration,
// the active workspace and the index engine over its vault. The watcher is
// started on demand; most commands never need one.
type State struct {
	Config        *config.Config
	Workspace     *config.Workspace
	WorkspaceName string
	Home          string
	Vault         string
	SnapshotPath  string
	Engine        *engine.Engine

	watcher *watcher.Watcher
}

func NewState(workspaceOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	if workspaceOverride != "" {
		if err := cfg.ActivateWorkspace(workspaceOverride); err != nil {
			return nil, err
		}
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}

	vault := pathutil.Canonical(ws.VaultDir)
	eng := engine.New(engine.Ruleset{
		VaultDir:       vault,
		FileTypes:      append([]string(nil), ws.FileTypes...),
		IgnoredFolders: append([]string(nil), ws.IgnoredFolders...),
	})

	snapshot := ws.SnapshotPath(home, cfg.CurrentWorkspace)
	if err := eng.LoadWithSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("failed to index vault: %w", err)
	}

	return &State{
		Config:        cfg,
		Workspace:     ws,
		WorkspaceName: cfg.CurrentWorkspace,
		Home:          home,
		Vault:         vault,
		SnapshotPath:  snapshot,
		Engine:        eng,
	}, nil
}

// StartWatcher creates and starts the vault watcher, returning its event
// channel. Repeated calls return the same watcher's channel.
func (s *State) StartWatcher() (<-chan watcher.Event, error) {
	if s.watcher != nil {
		return s.watcher.Events(), nil
	}

	w, err := watcher.New(s.Vault)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault watcher: %w", err)
	}
	w.Start()
	s.watcher = w
	return w.Events(), nil
}

// Close stops the watcher if one is running and persists the index
// snapshot for the next start.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.watcher = nil
	}
	if s.Engine != nil {
		if err := s.Engine.SaveSnapshot(s.SnapshotPath); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("closing state: %v", errs)
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}
	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(filepath.Join(home, constants.ConfigDir))
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}
