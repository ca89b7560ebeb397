package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spf13/viper"

	"github.com/calegray/lattice/internal/constants"
)

// Workspace is one indexed vault with its own tracking rules.
type Workspace struct {
	VaultDir string `yaml:"vaultdir" json:"vault_dir"`
	Editor   string `yaml:"editor"   json:"editor"`
	// FileTypes is the extension allow-list for indexing, without dots.
	// The single entry "all" tracks every file.
	FileTypes []string `yaml:"file_types" json:"file_types"`
	// IgnoredFolders are directory names skipped at any depth.
	IgnoredFolders []string `yaml:"ignored_folders" json:"ignored_folders"`
	// MatchAll makes query expressions require every condition instead of
	// any single one.
	MatchAll bool `yaml:"match_all" json:"match_all"`
	// Snapshot overrides the index snapshot location. Empty uses the
	// per-workspace default under the config directory.
	Snapshot string `yaml:"snapshot,omitempty" json:"snapshot,omitempty"`
}

type Config struct {
	Workspaces       map[string]*Workspace `yaml:"workspaces"        json:"workspaces"`
	CurrentWorkspace string                `yaml:"current_workspace" json:"current_workspace"`

	active     *Workspace `yaml:"-"`
	activeName string     `yaml:"-"`
}

var validEditorNames = []string{"nvim", "vim", "nano", "vscode", "code", "hx", "custom"}

var ValidEditors = func() map[string]bool {
	editors := make(map[string]bool, len(validEditorNames))
	for _, editor := range validEditorNames {
		editors[editor] = true
	}
	return editors
}()

func ValidateEditor(editor string) error {
	if _, valid := ValidEditors[editor]; valid {
		return nil
	}
	return fmt.Errorf("invalid editor: %q. Please choose from %s.", editor, validEditorList())
}

func validEditorList() string {
	quoted := make([]string, len(validEditorNames))
	for i, name := range validEditorNames {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

func newWorkspace() *Workspace {
	return &Workspace{
		Editor:         constants.DefaultEditor,
		FileTypes:      []string{constants.DefaultFileType},
		IgnoredFolders: []string{},
	}
}

func (ws *Workspace) ensureDefaults() {
	if len(ws.FileTypes) == 0 {
		ws.FileTypes = []string{constants.DefaultFileType}
	}
	if ws.IgnoredFolders == nil {
		ws.IgnoredFolders = []string{}
	}
	if ws.Editor == "" {
		ws.Editor = constants.DefaultEditor
	}
}

// SnapshotPath returns the workspace's index snapshot location, deriving
// the default under the config directory when none is configured.
func (ws *Workspace) SnapshotPath(home, name string) string {
	if ws.Snapshot != "" {
		return ws.Snapshot
	}
	return filepath.Join(home, constants.ConfigDir, name+"-"+constants.SnapshotFile)
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) == 0 {
		cfg.Workspaces = map[string]*Workspace{
			constants.DefaultWorkspace: newWorkspace(),
		}
		cfg.CurrentWorkspace = constants.DefaultWorkspace
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}
	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}

	if cfg.CurrentWorkspace == "" {
		if len(cfg.Workspaces) == 0 {
			cfg.Workspaces[constants.DefaultWorkspace] = newWorkspace()
			cfg.CurrentWorkspace = constants.DefaultWorkspace
		} else {
			names := cfg.WorkspaceNames()
			cfg.CurrentWorkspace = names[0]
		}
	}

	return cfg.setActiveWorkspace(cfg.CurrentWorkspace)
}

func (cfg *Config) setActiveWorkspace(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	ws, ok := cfg.Workspaces[name]
	if !ok {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if ws == nil {
		ws = newWorkspace()
		cfg.Workspaces[name] = ws
	}

	ws.ensureDefaults()
	cfg.CurrentWorkspace = name
	cfg.active = ws
	cfg.activeName = name

	cfg.syncViperWithActiveWorkspace()
	return nil
}

func (cfg *Config) syncViperWithActiveWorkspace() {
	if cfg.active == nil {
		return
	}
	viper.Set("vaultdir", cfg.active.VaultDir)
	viper.Set("editor", cfg.active.Editor)
	viper.Set("file_types", append([]string(nil), cfg.active.FileTypes...))
	viper.Set("ignored_folders", append([]string(nil), cfg.active.IgnoredFolders...))
	viper.Set("match_all", cfg.active.MatchAll)
}

func (cfg *Config) ActiveWorkspace() (*Workspace, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}

	if cfg.CurrentWorkspace == "" {
		return nil, fmt.Errorf("no workspace is currently selected")
	}

	if err := cfg.setActiveWorkspace(cfg.CurrentWorkspace); err != nil {
		return nil, err
	}
	return cfg.active, nil
}

func (cfg *Config) MustWorkspace() *Workspace {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		panic(err)
	}
	return ws
}

func (cfg *Config) WorkspaceNames() []string {
	names := make([]string, 0, len(cfg.Workspaces))
	for name := range cfg.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cfg *Config) SwitchWorkspace(name string) error {
	if err := cfg.setActiveWorkspace(name); err != nil {
		return err
	}
	return cfg.Save()
}

func (cfg *Config) ActivateWorkspace(name string) error {
	return cfg.setActiveWorkspace(name)
}

func (cfg *Config) AddWorkspace(name string, ws *Workspace, makeCurrent bool) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}

	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}
	if _, exists := cfg.Workspaces[trimmed]; exists {
		return fmt.Errorf("workspace %q already exists", trimmed)
	}

	if ws == nil {
		ws = newWorkspace()
	}
	ws.ensureDefaults()
	cfg.Workspaces[trimmed] = ws

	if cfg.CurrentWorkspace == "" || makeCurrent {
		if err := cfg.setActiveWorkspace(trimmed); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) RemoveWorkspace(name string) error {
	if len(cfg.Workspaces) <= 1 {
		return fmt.Errorf("cannot remove the last workspace")
	}
	if _, exists := cfg.Workspaces[name]; !exists {
		return fmt.Errorf("workspace %q does not exist", name)
	}

	delete(cfg.Workspaces, name)

	if cfg.CurrentWorkspace == name {
		cfg.active = nil
		cfg.CurrentWorkspace = ""
		if err := cfg.ensureInitialized(); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) ChangeEditor(editor string) error {
	if err := ValidateEditor(editor); err != nil {
		return err
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}
	ws.Editor = editor
	return cfg.Save()
}

func (cfg *Config) GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return GetConfigPath(homeDir)
}

func (cfg *Config) Save() error {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}
	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return err
		}
	}

	cfg.syncViperWithActiveWorkspace()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o644)
}
