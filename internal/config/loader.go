package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v2"

	"github.com/nickalie/crawlship/internal/core/target"
)

// Loader defines the interface for loading configuration.
type Loader interface {
	Load(configPath string) (*Config, error)
}

// DefaultLoader implements the Loader interface using file-based configuration.
type DefaultLoader struct {
	validator *validator.Validate
	loaders   map[string]func(string) (*Config, error)
	globals   []string
}

// LoaderOption defines functional options for DefaultLoader
type LoaderOption func(*DefaultLoader)

// WithGlobalConfigs overrides the machine and user level INI files merged
// beneath the project configuration.
func WithGlobalConfigs(paths ...string) LoaderOption {
	return func(l *DefaultLoader) {
		l.globals = paths
	}
}

// NewLoader creates a new configuration loader with default implementations.
func NewLoader(opts ...LoaderOption) Loader {
	loader := &DefaultLoader{
		validator: validator.New(),
		loaders:   make(map[string]func(string) (*Config, error)),
		globals:   globalConfigPaths(),
	}

	// Register default loaders
	loader.loaders[".cfg"] = loader.loadINIConfig
	loader.loaders[".ini"] = loader.loadINIConfig
	loader.loaders[".yaml"] = loader.loadYAMLConfig
	loader.loaders[".yml"] = loader.loadYAMLConfig
	loader.loaders[".toml"] = loader.loadTOMLConfig
	loader.loaders[".json"] = loader.loadJSONConfig

	for _, opt := range opts {
		opt(loader)
	}

	return loader
}

// Load loads and validates configuration from the specified path.
func (l *DefaultLoader) Load(configPath string) (*Config, error) {
	config, err := l.loadConfigByExtension(configPath)
	if err != nil {
		return nil, err
	}

	if err := l.validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadConfigByExtension loads configuration based on file extension
func (l *DefaultLoader) loadConfigByExtension(configPath string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(configPath))

	loader, ok := l.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported config file extension: %s", ext)
	}

	return loader(configPath)
}

// validateConfig validates the resolved targets and fills in their names.
func (l *DefaultLoader) validateConfig(config *Config) error {
	for name, tgt := range config.Targets {
		if tgt.Name == "" {
			tgt.Name = name
		}
		if err := l.validator.Struct(tgt); err != nil {
			if validationErrors, ok := err.(validator.ValidationErrors); ok {
				return fmt.Errorf("target '%s' validation failed: %s", name, formatValidationErrors(validationErrors))
			}
			return fmt.Errorf("target '%s' validation failed: %w", name, err)
		}
	}
	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(errs validator.ValidationErrors) string {
	errMsgs := make([]string, 0, len(errs))
	for _, err := range errs {
		errMsgs = append(errMsgs, fmt.Sprintf(
			"Field '%s' failed validation: %s (condition: %s)",
			err.Field(),
			err.Tag(),
			err.Param(),
		))
	}
	return strings.Join(errMsgs, "\n")
}

// Section names of the INI format: [deploy] is the base target, each
// [deploy:<name>] layers over it, and [settings] names the crawler settings
// module.
const (
	deploySection       = "deploy"
	deploySectionPrefix = "deploy:"
	settingsSection     = "settings"
	settingsDefaultKey  = "default"
)

// loadINIConfig loads configuration from an INI file, merging any global
// configuration files beneath it. Values support environment-variable
// expansion.
func (l *DefaultLoader) loadINIConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	sources := append(append([]string{}, l.globals...), configPath)
	others := make([]interface{}, 0, len(sources)-1)
	for _, src := range sources[1:] {
		others = append(others, src)
	}

	file, err := ini.LoadSources(ini.LoadOptions{Loose: true}, sources[0], others...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse INI: %w", err)
	}
	file.ValueMapper = os.ExpandEnv

	config := &Config{Targets: make(map[string]*target.Target)}

	if section, err := file.GetSection(settingsSection); err == nil {
		config.Settings = section.Key(settingsDefaultKey).String()
	}

	base := &target.Target{}
	if section, err := file.GetSection(deploySection); err == nil {
		applySection(base, section)
	}
	if base.URL != "" {
		tgt := *base
		tgt.Name = DefaultTargetName
		config.Targets[DefaultTargetName] = &tgt
	}

	for _, section := range file.Sections() {
		if !strings.HasPrefix(section.Name(), deploySectionPrefix) {
			continue
		}
		tgt := *base
		applySection(&tgt, section)
		tgt.Name = strings.TrimPrefix(section.Name(), deploySectionPrefix)
		config.Targets[tgt.Name] = &tgt
	}

	return config, nil
}

// applySection overrides target fields with the keys present in the section.
func applySection(tgt *target.Target, section *ini.Section) {
	fields := map[string]*string{
		"url":      &tgt.URL,
		"project":  &tgt.Project,
		"username": &tgt.Username,
		"password": &tgt.Password,
		"version":  &tgt.Version,
		"settings": &tgt.Settings,
	}
	for key, field := range fields {
		if section.HasKey(key) {
			*field = section.Key(key).String()
		}
	}
}

// document is the shape of YAML, TOML and JSON configuration files.
type document struct {
	Settings string                    `yaml:"settings" json:"settings" toml:"settings"`
	Targets  map[string]*target.Target `yaml:"targets" json:"targets" toml:"targets"`
}

// loadYAMLConfig loads configuration from YAML file
func (l *DefaultLoader) loadYAMLConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dataStr := replaceEnvVariables(string(data))

	var doc document
	if err := yaml.Unmarshal([]byte(dataStr), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return resolveDocument(&doc), nil
}

// loadTOMLConfig loads configuration from TOML file
func (l *DefaultLoader) loadTOMLConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dataStr := replaceEnvVariables(string(data))

	var doc document
	if err := toml.Unmarshal([]byte(dataStr), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return resolveDocument(&doc), nil
}

// loadJSONConfig loads configuration from JSON file
func (l *DefaultLoader) loadJSONConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dataStr := replaceEnvVariables(string(data))

	var doc document
	if err := json.Unmarshal([]byte(dataStr), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return resolveDocument(&doc), nil
}

// resolveDocument layers named targets over the default entry the same way
// the INI sections layer over [deploy].
func resolveDocument(doc *document) *Config {
	config := &Config{
		Settings: doc.Settings,
		Targets:  make(map[string]*target.Target),
	}

	base := doc.Targets[DefaultTargetName]
	if base == nil {
		base = &target.Target{}
	}

	for name, tgt := range doc.Targets {
		if name == DefaultTargetName {
			continue
		}
		merged := mergeTarget(base, tgt)
		merged.Name = name
		config.Targets[name] = merged
	}

	if base.URL != "" {
		tgt := *base
		tgt.Name = DefaultTargetName
		config.Targets[DefaultTargetName] = &tgt
	}

	return config
}

// mergeTarget fills unset fields of override from base.
func mergeTarget(base, override *target.Target) *target.Target {
	merged := *base
	fields := []struct {
		dst *string
		src string
	}{
		{&merged.URL, override.URL},
		{&merged.Project, override.Project},
		{&merged.Username, override.Username},
		{&merged.Password, override.Password},
		{&merged.Version, override.Version},
		{&merged.Settings, override.Settings},
	}
	for _, f := range fields {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	return &merged
}

// replaceEnvVariables replaces environment variables in the content
func replaceEnvVariables(content string) string {
	re := regexp.MustCompile(`\${(\w+)}`)
	return re.ReplaceAllStringFunc(content, func(s string) string {
		key := re.FindStringSubmatch(s)[1]
		return os.Getenv(key)
	})
}
