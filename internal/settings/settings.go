package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "settings.yaml"

	InterpreterAuto     = "auto"
	InterpreterInternal = "internal"
	DefaultInterpreter  = "python"
	DefaultCommand      = "flake8"
	DefaultTimeout      = 30 * time.Second

	StyleFill    = "fill"
	StyleOutline = "outline"
	StyleNone    = "none"
)

var configDirFunc = configDir

// Settings holds every option the plugin reads. It is loaded once at startup
// and treated as read-only afterwards.
type Settings struct {
	PythonInterpreter string        `yaml:"python_interpreter"`
	Flake8Command     string        `yaml:"flake8_command"`
	PluginDir         string        `yaml:"plugin_dir"`
	PackagesPath      string        `yaml:"packages_path"`
	Select            []string      `yaml:"select"`
	Ignore            []string      `yaml:"ignore"`
	Errors            []string      `yaml:"errors"`
	Highlight         bool          `yaml:"highlight"`
	HighlightStyle    string        `yaml:"highlight_style"`
	GutterMarks       bool          `yaml:"gutter_marks"`
	Popup             bool          `yaml:"popup"`
	ResultsPane       bool          `yaml:"results_pane"`
	LintOnSave        bool          `yaml:"lint_on_save"`
	LintOnLoad        bool          `yaml:"lint_on_load"`
	Timeout           time.Duration `yaml:"timeout"`
	Exclude           []string      `yaml:"exclude"`
}

func Default() Settings {
	return Settings{
		PythonInterpreter: InterpreterAuto,
		Flake8Command:     DefaultCommand,
		Select:            []string{},
		Ignore:            []string{},
		Errors:            []string{},
		Highlight:         true,
		HighlightStyle:    StyleFill,
		GutterMarks:       true,
		LintOnSave:        true,
		LintOnLoad:        true,
		Timeout:           DefaultTimeout,
		Exclude:           []string{},
	}
}

// Load reads the settings file, layering it over Default. A missing file is
// not an error.
func Load() (Settings, error) {
	path, err := Path()
	if err != nil {
		return Settings{}, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return Settings{}, err
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}

	return s, nil
}

// Save writes s to the settings file, creating the directory if needed.
func Save(s Settings) error {
	if err := ensureConfigDir(); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing settings %s: %w", path, err)
	}

	return nil
}

// Init writes the default settings file. An existing file is left alone
// unless force is set.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("settings file %s already exists", path)
		}
	}
	return path, Save(Default())
}

// Set updates a single key in the settings file. List values are given
// comma separated.
func Set(key, value string) error {
	s, err := Load()
	if err != nil {
		return err
	}

	node := yaml.Node{}
	if err := node.Encode(s); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	found := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != key {
			continue
		}
		found = true
		if err := setNode(node.Content[i+1], value); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}
	if !found {
		return fmt.Errorf("unknown setting %q", key)
	}

	var updated Settings
	if err := node.Decode(&updated); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return Save(updated)
}

func setNode(n *yaml.Node, value string) error {
	if n.Kind == yaml.SequenceNode {
		n.Content = nil
		for _, item := range strings.Split(value, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return nil
	}
	if n.Kind != yaml.ScalarNode {
		return errors.New("not a scalar setting")
	}
	n.Value = value
	if n.Tag == "!!str" {
		return nil
	}
	n.Tag = ""
	return nil
}

func Path() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(base, "flake8lint"), nil
}

func ensureConfigDir() error {
	dir, err := configDirFunc()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}
