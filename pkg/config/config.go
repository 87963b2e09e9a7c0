// Package config resolves run settings through the layered precedence
// chain: command-line flags, an explicit config file, a project-local
// config file, the `repocat` field of the project's package.json, and
// built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Settings are the resolved values the pipeline trusts as-is.
type Settings struct {
	IgnoreFile   string // ignore-spec file name, root-relative
	PreamblePath string // empty means built-in preamble text
	OutputFile   string // output document path
	ShowProgress bool
	MaxFileBytes int64 // per-file content ceiling
}

// Defaults returns the built-in settings layer.
func Defaults() Settings {
	return Settings{
		IgnoreFile:   ".repocatignore",
		PreamblePath: "",
		OutputFile:   "repocat.txt",
		ShowProgress: true,
		MaxFileBytes: 1 << 20,
	}
}

// projectConfigNames are probed in order under the project root.
var projectConfigNames = []string{
	"repocat.config.json",
	"repocat.config.yaml",
	"repocat.config.yml",
}

// overlay is one config layer; pointer fields distinguish "absent" from
// "set to the zero value" so a layer only overrides what it names.
type overlay struct {
	IgnoreFile   *string `json:"ignoreFile" yaml:"ignoreFile"`
	Preamble     *string `json:"preamble" yaml:"preamble"`
	Output       *string `json:"output" yaml:"output"`
	Progress     *bool   `json:"progress" yaml:"progress"`
	MaxFileBytes *int64  `json:"maxFileBytes" yaml:"maxFileBytes"`
}

func (s *Settings) apply(o overlay) {
	if o.IgnoreFile != nil {
		s.IgnoreFile = *o.IgnoreFile
	}
	if o.Preamble != nil {
		s.PreamblePath = *o.Preamble
	}
	if o.Output != nil {
		s.OutputFile = *o.Output
	}
	if o.Progress != nil {
		s.ShowProgress = *o.Progress
	}
	if o.MaxFileBytes != nil {
		s.MaxFileBytes = *o.MaxFileBytes
	}
}

// Resolve builds Settings for root. explicitPath, when non-empty, names a
// config file the user asked for; it being unreadable or malformed is a
// fatal error. Malformed project-local layers warn and fall through to the
// next layer. Flags are applied by the caller on top of the result.
func Resolve(root, explicitPath string, logger *zap.Logger) (Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := Defaults()

	if o, ok := manifestLayer(root, logger); ok {
		settings.apply(o)
	}
	if o, ok := projectLayer(root, logger); ok {
		settings.apply(o)
	}
	if explicitPath != "" {
		o, err := readOverlay(explicitPath)
		if err != nil {
			return Settings{}, fmt.Errorf("config file %s: %w", explicitPath, err)
		}
		settings.apply(o)
	}
	return settings, nil
}

// manifestLayer reads the `repocat` field of package.json, if any.
func manifestLayer(root string, logger *zap.Logger) (overlay, bool) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return overlay{}, false
	}
	var manifest struct {
		Repocat *overlay `json:"repocat"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		logger.Warn("Ignoring malformed package.json", zap.Error(err))
		return overlay{}, false
	}
	if manifest.Repocat == nil {
		return overlay{}, false
	}
	return *manifest.Repocat, true
}

// projectLayer reads the first project-local config file that exists.
func projectLayer(root string, logger *zap.Logger) (overlay, bool) {
	for _, name := range projectConfigNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		o, err := readOverlay(path)
		if err != nil {
			logger.Warn("Ignoring malformed project config",
				zap.String("file", path), zap.Error(err))
			return overlay{}, false
		}
		return o, true
	}
	return overlay{}, false
}

// readOverlay parses one config file, choosing the codec by extension.
func readOverlay(path string) (overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return overlay{}, err
	}
	var o overlay
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &o); err != nil {
			return overlay{}, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &o); err != nil {
			return overlay{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	return o, nil
}
