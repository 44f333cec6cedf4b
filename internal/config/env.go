package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEnvironmentInvalid marks a directory that does not look like the root of
// a supervised stack. Nothing is ever signalled after this error.
var ErrEnvironmentInvalid = errors.New("not a recognisable stack root")

// Env anchors a run to one stack root and carries the derived paths every
// component reads from. It replaces ambient working-directory state: construct
// it once and pass it down.
type Env struct {
	Root      string
	ConfigDir string
	PidsDir   string
	SitesDir  string
	Procfile  string
}

// NewEnv resolves the stack root to an absolute path and derives the standard
// layout beneath it.
func NewEnv(root string) (*Env, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve stack root: %w", err)
	}
	return &Env{
		Root:      abs,
		ConfigDir: filepath.Join(abs, "config"),
		PidsDir:   filepath.Join(abs, "config", "pids"),
		SitesDir:  filepath.Join(abs, "sites"),
		Procfile:  filepath.Join(abs, "Procfile"),
	}, nil
}

// Validate checks the marker paths that identify a stack root: the process
// manifest and the sites directory. It must pass before any signalling.
func (e *Env) Validate() error {
	info, err := os.Stat(e.Procfile)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: missing process manifest %s", ErrEnvironmentInvalid, e.Procfile)
	}
	info, err = os.Stat(e.SitesDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: missing sites directory %s", ErrEnvironmentInvalid, e.SitesDir)
	}
	return nil
}

// SiteConfigPath returns the location of the shared site configuration file.
func (e *Env) SiteConfigPath() string {
	return filepath.Join(e.SitesDir, "common_site_config.json")
}

// Path resolves a possibly relative path against the stack root.
func (e *Env) Path(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(e.Root, path))
}

// PortFor reads the port number a source describes. A missing file or absent
// key yields the source default, or zero when none is configured; zero means
// the port strategy is inapplicable for the role.
func (e *Env) PortFor(src *PortSource) (int, error) {
	if src == nil {
		return 0, nil
	}
	if src.RedisConf != "" {
		port, err := RedisPort(e.Path(src.RedisConf))
		if err != nil {
			return 0, err
		}
		if port > 0 {
			return port, nil
		}
	}
	if src.SiteKey != "" {
		cfg, err := LoadSiteConfig(e.SiteConfigPath())
		if err != nil {
			return 0, err
		}
		if port := cfg.Port(src.SiteKey); port > 0 {
			return port, nil
		}
	}
	return src.Default, nil
}
