// Command configgen renders per-service config files from a dev profile so
// question-service and web share one JWT secret and issuer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

type Profile struct {
	OutputDir string                    `yaml:"outputDir"`
	Auth      AuthProfile               `yaml:"auth"`
	Services  map[string]ServiceProfile `yaml:"services"`
}

type AuthProfile struct {
	JWTSecret string `yaml:"jwtSecret"`
	JWTIssuer string `yaml:"jwtIssuer"`
}

type ServiceProfile struct {
	Base      string         `yaml:"base"`
	Output    string         `yaml:"output"`
	Overrides map[string]any `yaml:"overrides"`
}

// authSections names the config section that carries token settings per service.
var authSections = map[string]string{
	"question-service": "auth",
	"web":              "session",
}

func main() {
	profilePath := flag.String("profile", "configs/dev-profile.yaml", "Path to config profile")
	outputDir := flag.String("output-dir", "", "Override output directory")
	flag.Parse()

	if err := run(*profilePath, *outputDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(profilePath, outputDir string) error {
	profilePathAbs, err := filepath.Abs(profilePath)
	if err != nil {
		return fmt.Errorf("resolve profile path failed: %w", err)
	}
	profile, err := loadProfile(profilePathAbs)
	if err != nil {
		return fmt.Errorf("load profile failed: %w", err)
	}
	if outputDir != "" {
		profile.OutputDir = outputDir
	}
	if profile.OutputDir == "" {
		return errors.New("output directory is required")
	}
	profileDir := filepath.Dir(profilePathAbs)
	if !filepath.IsAbs(profile.OutputDir) {
		profile.OutputDir = filepath.Join(profileDir, profile.OutputDir)
	}

	names := make([]string, 0, len(profile.Services))
	for name := range profile.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		service := profile.Services[name]
		if service.Base == "" {
			return fmt.Errorf("service %q missing base config", name)
		}
		if !filepath.IsAbs(service.Base) {
			service.Base = filepath.Join(profileDir, service.Base)
		}
		config, err := render(profile, name, service)
		if err != nil {
			return fmt.Errorf("render config for %q failed: %w", name, err)
		}
		if err := writeYAML(resolveOutputPath(profile.OutputDir, service), config); err != nil {
			return fmt.Errorf("write config for %q failed: %w", name, err)
		}
	}
	return nil
}

func render(profile *Profile, name string, service ServiceProfile) (map[string]any, error) {
	base, err := loadYAML(service.Base)
	if err != nil {
		return nil, err
	}
	config, ok := normalizeValue(base).(map[string]any)
	if !ok {
		return nil, errors.New("base config is not a map")
	}
	if len(service.Overrides) > 0 {
		config = mergeMap(config, normalizeValue(service.Overrides).(map[string]any))
	}
	applySharedAuth(profile.Auth, name, config)
	return config, nil
}

func loadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile failed: %w", err)
	}
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile failed: %w", err)
	}
	if len(profile.Services) == 0 {
		return nil, errors.New("profile has no services")
	}
	return &profile, nil
}

func loadYAML(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml failed: %w", err)
	}
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("parse yaml failed: %w", err)
	}
	return value, nil
}

func writeYAML(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir failed: %w", err)
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal yaml failed: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func resolveOutputPath(outputDir string, service ServiceProfile) string {
	output := service.Output
	if output == "" {
		output = filepath.Base(service.Base)
	}
	if filepath.IsAbs(output) {
		return output
	}
	return filepath.Join(outputDir, output)
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = normalizeValue(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprintf("%v", k)] = normalizeValue(v)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, normalizeValue(item))
		}
		return out
	default:
		return value
	}
}

// mergeMap overlays override onto base. Nested maps merge; anything else replaces.
func mergeMap(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base))
	for k, v := range base {
		merged[k] = v
	}
	for key, value := range override {
		baseChild, baseIsMap := merged[key].(map[string]any)
		overrideChild, overrideIsMap := value.(map[string]any)
		if baseIsMap && overrideIsMap {
			merged[key] = mergeMap(baseChild, overrideChild)
			continue
		}
		merged[key] = value
	}
	return merged
}

func applySharedAuth(auth AuthProfile, serviceName string, config map[string]any) {
	section, ok := authSections[serviceName]
	if !ok || (auth.JWTSecret == "" && auth.JWTIssuer == "") {
		return
	}
	target, ok := config[section].(map[string]any)
	if !ok {
		target = map[string]any{}
		config[section] = target
	}
	if auth.JWTSecret != "" {
		target["jwtSecret"] = auth.JWTSecret
	}
	if auth.JWTIssuer != "" {
		target["jwtIssuer"] = auth.JWTIssuer
	}
}
