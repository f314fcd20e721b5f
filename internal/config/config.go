package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the project directory when
// no --config flag is given.
const DefaultFileName = ".checkup.yaml"

// Config holds all configuration for the task runner.
type Config struct {
	// Pattern filters the version-control index, e.g. "*.py".
	Pattern string `env:"CHECKUP_PATTERN" yaml:"pattern" default:"*.py"`

	Format FormatConfig `yaml:"format"`
	Lint   LintConfig   `yaml:"lint"`

	// ProjectDir is set at runtime, not from config.
	ProjectDir string `yaml:"-"`
}

// FormatConfig describes the formatter invocation. Command strings are
// whitespace-split into an argv prefix; file paths are appended.
type FormatConfig struct {
	Command   string `env:"CHECKUP_FORMAT_COMMAND" yaml:"command" default:"black"`
	CheckArgs string `yaml:"check_args" default:"--check"`
	WriteArgs string `yaml:"write_args"`
}

// LintConfig describes the two independent type checker invocations.
type LintConfig struct {
	StrictChecker string `env:"CHECKUP_STRICT_CHECKER" yaml:"strict_checker" default:"mypy --strict"`
	SecondChecker string `env:"CHECKUP_SECOND_CHECKER" yaml:"second_checker" default:"pyright"`
}

// CheckArgv returns the formatter argv for check-only mode, without file paths.
func (c *Config) CheckArgv() []string {
	return appendArgs(c.Format.Command, c.Format.CheckArgs)
}

// WriteArgv returns the formatter argv for write mode, without file paths.
func (c *Config) WriteArgv() []string {
	return appendArgs(c.Format.Command, c.Format.WriteArgs)
}

// StrictArgv returns the first type checker argv, without file paths.
func (c *Config) StrictArgv() []string {
	return strings.Fields(c.Lint.StrictChecker)
}

// SecondArgv returns the second type checker argv, without file paths.
func (c *Config) SecondArgv() []string {
	return strings.Fields(c.Lint.SecondChecker)
}

func appendArgs(command, extra string) []string {
	argv := strings.Fields(command)
	return append(argv, strings.Fields(extra)...)
}

// Load loads configuration with the priority:
// code defaults -> config file -> environment.
// A missing config file is not an error.
func Load(configPath, projectDir string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	if projectDir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		projectDir = dir
	}
	cfg.ProjectDir = projectDir

	if configPath == "" {
		configPath = filepath.Join(projectDir, DefaultFileName)
	}
	if err := loadYAML(configPath, cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
	}

	applyEnv(cfg)

	for name, argv := range map[string][]string{
		"format.command":      strings.Fields(cfg.Format.Command),
		"lint.strict_checker": cfg.StrictArgv(),
		"lint.second_checker": cfg.SecondArgv(),
	} {
		if len(argv) == 0 {
			return nil, fmt.Errorf("config %s is empty", name)
		}
	}

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func applyDefaults(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)

		if !fv.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			applyDefaults(fv.Addr().Interface())
			continue
		}

		tag := field.Tag.Get("default")
		if tag == "" {
			continue
		}

		if fv.IsZero() {
			setFieldFromString(fv, field.Type, tag)
		}
	}
}

func applyEnv(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)

		if !fv.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			applyEnv(fv.Addr().Interface())
			continue
		}

		envKey := field.Tag.Get("env")
		if envKey == "" {
			continue
		}

		envVal, ok := os.LookupEnv(envKey)
		if !ok {
			continue
		}

		setFieldFromString(fv, field.Type, envVal)
	}
}

func setFieldFromString(fv reflect.Value, ft reflect.Type, val string) {
	switch ft.Kind() {
	case reflect.String:
		fv.SetString(val)
	case reflect.Int:
		if n, err := strconv.Atoi(val); err == nil {
			fv.SetInt(int64(n))
		}
	case reflect.Bool:
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			fv.SetBool(true)
		case "false", "0", "no":
			fv.SetBool(false)
		}
	}
}
