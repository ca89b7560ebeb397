package constants

const (
	ConfigDir      = ".lattice"
	ConfigFile     = "cfg"
	ConfigFileType = "yaml"

	// SnapshotFile is the default on-disk name of the serialized index
	// snapshot inside the config directory.
	SnapshotFile = "index.json"

	DefaultEditor    = "nvim"
	DefaultFileType  = "md"
	DefaultWorkspace = "default"
)
