package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMergeMapNested(t *testing.T) {
	base := map[string]any{
		"server": map[string]any{"addr": "0.0.0.0:8080", "readTimeout": "5s"},
		"logger": map[string]any{"level": "info"},
	}
	override := map[string]any{
		"server": map[string]any{"addr": "127.0.0.1:9000"},
		"logger": "disabled",
	}
	merged := mergeMap(base, override)

	server := merged["server"].(map[string]any)
	if server["addr"] != "127.0.0.1:9000" || server["readTimeout"] != "5s" {
		t.Fatalf("unexpected server section: %v", server)
	}
	if merged["logger"] != "disabled" {
		t.Fatalf("scalar override not applied: %v", merged["logger"])
	}
	if base["server"].(map[string]any)["addr"] != "0.0.0.0:8080" {
		t.Fatalf("base config mutated")
	}
}

func TestApplySharedAuth(t *testing.T) {
	auth := AuthProfile{JWTSecret: "dev-secret", JWTIssuer: "questrack"}
	cases := []struct {
		service string
		section string
	}{
		{service: "question-service", section: "auth"},
		{service: "web", section: "session"},
	}
	for _, tc := range cases {
		config := map[string]any{}
		applySharedAuth(auth, tc.service, config)
		section, ok := config[tc.section].(map[string]any)
		if !ok {
			t.Fatalf("%s: missing %s section", tc.service, tc.section)
		}
		if section["jwtSecret"] != "dev-secret" || section["jwtIssuer"] != "questrack" {
			t.Fatalf("%s: unexpected section %v", tc.service, section)
		}
	}

	other := map[string]any{}
	applySharedAuth(auth, "unknown", other)
	if len(other) != 0 {
		t.Fatalf("unknown service should be untouched: %v", other)
	}
}

func TestRunWritesServiceConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "web.yaml"), "server:\n  addr: 0.0.0.0:8080\nsession:\n  cookieName: qt_session\n")
	writeFile(t, filepath.Join(dir, "profile.yaml"), `outputDir: out
auth:
  jwtSecret: shared
  jwtIssuer: questrack
services:
  web:
    base: web.yaml
    overrides:
      server:
        addr: 127.0.0.1:18080
`)

	if err := run(filepath.Join(dir, "profile.yaml"), ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "web.yaml"))
	if err != nil {
		t.Fatalf("read output failed: %v", err)
	}
	var out struct {
		Server struct {
			Addr string `yaml:"addr"`
		} `yaml:"server"`
		Session struct {
			CookieName string `yaml:"cookieName"`
			JWTSecret  string `yaml:"jwtSecret"`
		} `yaml:"session"`
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("parse output failed: %v", err)
	}
	if out.Server.Addr != "127.0.0.1:18080" {
		t.Fatalf("addr = %q", out.Server.Addr)
	}
	if out.Session.CookieName != "qt_session" || out.Session.JWTSecret != "shared" {
		t.Fatalf("unexpected session section: %+v", out.Session)
	}
}

func TestRunRequiresBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "profile.yaml"), "outputDir: out\nservices:\n  web: {}\n")
	if err := run(filepath.Join(dir, "profile.yaml"), ""); err == nil {
		t.Fatalf("expected error for missing base config")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s failed: %v", path, err)
	}
}
