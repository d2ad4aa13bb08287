package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	DefaultLabel = "Default"
	profileExt   = ".yaml"
	appDir       = "baotang"
)

var ErrNoConfig = errors.New("no config selected")

// ConfigRoot resolves, in order: $BAOTANG_CONFIG_DIR, %APPDATA%,
// $XDG_CONFIG_HOME and ~/.config.
func ConfigRoot() string {
	if dir := os.Getenv("BAOTANG_CONFIG_DIR"); dir != "" {
		return dir
	}
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, appDir)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir)
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDir)
}

func ConfigsDir() string {
	return filepath.Join(ConfigRoot(), "configs")
}

func CurrentLabelFile() string {
	return filepath.Join(ConfigRoot(), "current_config")
}

func ConfigPathByLabel(label string) string {
	return filepath.Join(ConfigsDir(), label+profileExt)
}

func validLabel(label string) error {
	switch {
	case strings.TrimSpace(label) == "":
		return errors.New("label cannot be empty")
	case strings.ContainsAny(label, `/\`) || label == "." || label == "..":
		return fmt.Errorf("invalid label %q", label)
	}
	return nil
}

func ensureDirs() error {
	return os.MkdirAll(ConfigsDir(), 0755)
}

func CurrentLabel() (string, error) {
	b, err := os.ReadFile(CurrentLabelFile())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	label := strings.TrimSpace(string(b))
	if label == "" {
		return "", ErrNoConfig
	}

	return label, nil
}

// ActiveConfigPath returns ErrNoConfig until a profile has been selected.
func ActiveConfigPath() (string, error) {
	label, err := CurrentLabel()
	if err != nil {
		return "", err
	}

	return ConfigPathByLabel(label), nil
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

func ListConfigs() ([]ConfigInfo, error) {
	paths, err := filepath.Glob(filepath.Join(ConfigsDir(), "*"+profileExt))
	if err != nil {
		return nil, err
	}

	active, _ := CurrentLabel()

	out := make([]ConfigInfo, 0, len(paths))
	for _, p := range paths {
		label := strings.TrimSuffix(filepath.Base(p), profileExt)
		out = append(out, ConfigInfo{Label: label, Path: p, Active: label == active})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func SwitchConfig(label string) error {
	if err := validLabel(label); err != nil {
		return err
	}

	path := ConfigPathByLabel(label)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config %q does not exist", path)
	}

	return writeCurrentLabel(label)
}

func writeCurrentLabel(label string) error {
	if err := ensureDirs(); err != nil {
		return err
	}
	return os.WriteFile(CurrentLabelFile(), []byte(label), 0644)
}

// InitDefaultConfig writes the Default profile and makes it active. It
// returns os.ErrExist, together with the path, when the profile is already there.
func InitDefaultConfig() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	path := ConfigPathByLabel(DefaultLabel)
	if _, err := os.Stat(path); err == nil {
		return path, os.ErrExist
	}

	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	if err := writeCurrentLabel(DefaultLabel); err != nil {
		return "", err
	}

	return path, nil
}
