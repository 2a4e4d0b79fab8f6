package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/NicabarNimble/go-gitrelease/internal/errors"
)

// ReleaseConfig holds the static release policy for one repository. It
// is loaded once per invocation and passed into the policy and
// transaction components; nothing reads it ambiently.
type ReleaseConfig struct {
	Mainline      string `json:"mainline"`                 // Name of the primary development branch
	TagMainline   bool   `json:"tag_mainline"`             // Tag the mainline directly instead of branching
	BranchPrefix  string `json:"branch_prefix"`            // Prefix for stabilization branch names
	ReleasePrefix string `json:"release_prefix"`           // Prefix for release tag names
	BuildPrefix   string `json:"build_prefix"`             // Prefix for build-only tag names
	VersionFile   string `json:"version_file"`             // Persisted version scalar
	BuildFile     string `json:"build_file,omitempty"`     // Persisted build counter, mainline only
	ArgsFile      string `json:"args_file,omitempty"`      // Free-text blob recorded in commit messages
	CheckpointRef string `json:"checkpoint_ref,omitempty"` // Prefix for ephemeral checkpoint branches
	HooksDir      string `json:"hooks_dir,omitempty"`      // Directory probed for lifecycle hooks
}

// DefaultConfig provides default configuration values
func DefaultConfig() *ReleaseConfig {
	return &ReleaseConfig{
		Mainline:      "master",
		BranchPrefix:  "version-",
		ReleasePrefix: "v",
		BuildPrefix:   "build-",
		VersionFile:   "VERSION",
		BuildFile:     "BUILD",
		ArgsFile:      "RELEASE_ARGS",
		CheckpointRef: "gitrelease/checkpoint-",
		HooksDir:      ".gitrelease",
	}
}

// LoadConfig loads configuration from a file, falling back to defaults
// when the file does not exist.
func LoadConfig(path string) (*ReleaseConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.New("config", fmt.Errorf("failed to read config file: %w", err))
	}

	cfg := &ReleaseConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("config", fmt.Errorf("failed to parse config file: %w", err))
	}

	cfg.MergeDefaults()
	return cfg, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(cfg *ReleaseConfig, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.New("config", fmt.Errorf("failed to marshal config: %w", err))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("config", fmt.Errorf("failed to write config file: %w", err))
	}

	return nil
}

// MergeDefaults merges default values for unset fields
func (c *ReleaseConfig) MergeDefaults() {
	defaults := DefaultConfig()
	if c.Mainline == "" {
		c.Mainline = defaults.Mainline
	}
	if c.BranchPrefix == "" {
		c.BranchPrefix = defaults.BranchPrefix
	}
	if c.ReleasePrefix == "" {
		c.ReleasePrefix = defaults.ReleasePrefix
	}
	if c.BuildPrefix == "" {
		c.BuildPrefix = defaults.BuildPrefix
	}
	if c.VersionFile == "" {
		c.VersionFile = defaults.VersionFile
	}
	if c.CheckpointRef == "" {
		c.CheckpointRef = defaults.CheckpointRef
	}
	if c.HooksDir == "" {
		c.HooksDir = defaults.HooksDir
	}
}

// MainlineRef returns the fully qualified tracking ref of the mainline.
func (c *ReleaseConfig) MainlineRef() string {
	return "refs/heads/" + c.Mainline
}
