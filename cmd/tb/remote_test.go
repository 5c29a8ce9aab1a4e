package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	in := RemotesConfig{
		Active: "prod",
		Remotes: map[string]Remote{
			"prod":  {URL: "https://board.example.com", Token: "tok_abc", NATSURL: "nats://prod:4222"},
			"local": {URL: "http://localhost:8080"},
		},
	}
	if err := saveRemotesConfig(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := loadRemotesConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Active != "prod" {
		t.Errorf("Active = %q, want %q", got.Active, "prod")
	}
	prod := got.Remotes["prod"]
	if prod.URL != "https://board.example.com" || prod.Token != "tok_abc" || prod.NATSURL != "nats://prod:4222" {
		t.Errorf("prod remote = %+v, wrong values", prod)
	}
	if local := got.Remotes["local"]; local.Token != "" || local.NATSURL != "" {
		t.Errorf("local remote = %+v, want only a URL", local)
	}
}

func TestLoadRemotesConfig_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadRemotesConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Active != "" || len(cfg.Remotes) != 0 {
		t.Errorf("expected empty config, got %+v", cfg)
	}
	if cfg.Remotes == nil {
		t.Error("Remotes map must not be nil")
	}
}

func TestSaveRemotesConfig_Permissions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := saveRemotesConfig(RemotesConfig{Remotes: map[string]Remote{}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	path, _ := remoteConfigPath()
	check := func(p string, want os.FileMode) {
		t.Helper()
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if got := info.Mode().Perm(); got != want {
			t.Errorf("%s permissions = %04o, want %04o", p, got, want)
		}
	}
	check(path, 0o600)
	check(filepath.Dir(path), 0o700)
}

func TestRemoteLifecycle(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	mustRun := func(fn func() error) {
		t.Helper()
		if err := fn(); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	for _, c := range []interface{ SetOut(w io.Writer) }{remoteAddCmd, remoteUseCmd, remoteRemoveCmd} {
		c.SetOut(&buf)
	}

	mustRun(func() error { return remoteAddCmd.RunE(remoteAddCmd, []string{"local", "http://localhost:8080"}) })
	mustRun(func() error { return remoteAddCmd.RunE(remoteAddCmd, []string{"local", "http://localhost:8081"}) }) // upsert
	mustRun(func() error { return remoteUseCmd.RunE(remoteUseCmd, []string{"local"}) })

	cfg, _ := loadRemotesConfig()
	if cfg.Active != "local" {
		t.Fatalf("Active = %q, want %q", cfg.Active, "local")
	}
	if got := cfg.Remotes["local"].URL; got != "http://localhost:8081" {
		t.Errorf("URL after upsert = %q", got)
	}

	buf.Reset()
	remoteListCmd.SetOut(&buf)
	mustRun(func() error { return remoteListCmd.RunE(remoteListCmd, nil) })
	if !strings.Contains(buf.String(), "* local") {
		t.Errorf("list missing active marker; got:\n%s", buf.String())
	}

	buf.Reset()
	remoteShowCmd.SetOut(&buf)
	mustRun(func() error { return remoteShowCmd.RunE(remoteShowCmd, nil) })
	out := buf.String()
	if !strings.Contains(out, "local") || !strings.Contains(out, "localhost:8081") || !strings.Contains(out, "(active)") {
		t.Errorf("show missing expected content; got:\n%s", out)
	}

	mustRun(func() error { return remoteRemoveCmd.RunE(remoteRemoveCmd, []string{"local"}) })
	cfg, _ = loadRemotesConfig()
	if _, ok := cfg.Remotes["local"]; ok {
		t.Error("remote 'local' should be gone")
	}
	if cfg.Active != "" {
		t.Errorf("Active should be cleared, got %q", cfg.Active)
	}
}

func TestRemoteTokenHandling(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := remoteAddCmd.Flags().Set("token", "tok_verylongsecret"); err != nil {
		t.Fatalf("set token flag: %v", err)
	}
	t.Cleanup(func() { _ = remoteAddCmd.Flags().Set("token", "") })

	var buf bytes.Buffer
	remoteAddCmd.SetOut(&buf)
	remoteUseCmd.SetOut(&buf)
	if err := remoteAddCmd.RunE(remoteAddCmd, []string{"prod", "https://board.example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := remoteUseCmd.RunE(remoteUseCmd, []string{"prod"}); err != nil {
		t.Fatal(err)
	}

	buf.Reset()
	remoteListCmd.SetOut(&buf)
	if err := remoteListCmd.RunE(remoteListCmd, nil); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "tok_verylongsecret") {
		t.Error("full token must not appear in list output")
	}
	if !strings.Contains(buf.String(), "tok_very...") {
		t.Errorf("expected truncated token in list; got:\n%s", buf.String())
	}

	buf.Reset()
	remoteShowCmd.SetOut(&buf)
	if err := remoteShowCmd.RunE(remoteShowCmd, nil); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "tok_verylongsecret") {
		t.Error("full token must not appear in show output")
	}
	if !strings.Contains(buf.String(), "tok_very**********") {
		t.Errorf("expected masked token in show; got:\n%s", buf.String())
	}
}

func TestRemoteErrorCases(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"use unknown", func() error { return remoteUseCmd.RunE(remoteUseCmd, []string{"ghost"}) }},
		{"remove unknown", func() error { return remoteRemoveCmd.RunE(remoteRemoveCmd, []string{"ghost"}) }},
		{"show no active", func() error { return remoteShowCmd.RunE(remoteShowCmd, nil) }},
		{"add without scheme", func() error { return remoteAddCmd.RunE(remoteAddCmd, []string{"x", "localhost:8080"}) }},
		{"add grpc scheme", func() error { return remoteAddCmd.RunE(remoteAddCmd, []string{"x", "grpc://host:9090"}) }},
		{"add bad name", func() error { return remoteAddCmd.RunE(remoteAddCmd, []string{"prod east", "http://localhost:8080"}) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			if err := tc.fn(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token, fill, want string
	}{
		{"", "...", ""},
		{"short", "*", "short"},
		{"exactly8", "*", "exactly8"},
		{"tok_verylongsecret", "...", "tok_very..."},
		{"tok_1234", "...", "tok_1234"},
		{"abcdefghij", "*", "abcdefgh**"},
	}
	for _, tt := range tests {
		if got := maskToken(tt.token, tt.fill); got != tt.want {
			t.Errorf("maskToken(%q, %q) = %q, want %q", tt.token, tt.fill, got, tt.want)
		}
	}
}

func TestRemoteValidate(t *testing.T) {
	tests := []struct {
		name    string
		remote  Remote
		wantErr bool
	}{
		{"http", Remote{URL: "http://localhost:8080"}, false},
		{"https with nats", Remote{URL: "https://board.example.com", NATSURL: "nats://nats:4222"}, false},
		{"tls nats", Remote{URL: "https://board.example.com", NATSURL: "tls://nats:4222"}, false},
		{"no scheme", Remote{URL: "localhost:8080"}, true},
		{"no host", Remote{URL: "http://"}, true},
		{"nats over http", Remote{URL: "http://localhost:8080", NATSURL: "http://nats:4222"}, true},
		{"nats without host", Remote{URL: "http://localhost:8080", NATSURL: "nats://"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.remote.validate(); (err != nil) != tc.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRemotesConfig_SetAndLookup(t *testing.T) {
	cfg := RemotesConfig{Remotes: map[string]Remote{}}
	for _, name := range []string{"", "-prod", "prod east", "a.b"} {
		if err := cfg.set(name, Remote{URL: "http://localhost:8080"}); err == nil {
			t.Errorf("set(%q) accepted a bad name", name)
		}
	}
	if err := cfg.set("prod-east_1", Remote{URL: "https://board.example.com"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, _, err := cfg.lookup(""); err != errNoActiveRemote {
		t.Errorf("lookup with no active = %v, want errNoActiveRemote", err)
	}
	cfg.Active = "prod-east_1"
	name, r, err := cfg.lookup("")
	if err != nil || name != "prod-east_1" || r.URL != "https://board.example.com" {
		t.Errorf("lookup active = %q %+v %v", name, r, err)
	}
	if _, _, err := cfg.lookup("ghost"); err == nil {
		t.Error("lookup of unknown remote should fail")
	}

	if err := cfg.remove(""); err != nil {
		t.Fatalf("remove active: %v", err)
	}
	if cfg.Active != "" || len(cfg.Remotes) != 0 {
		t.Errorf("after remove = %+v", cfg)
	}
}

func TestRemoteConfigPath_StateDirOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := filepath.Join(t.TempDir(), "state")
	t.Setenv("TASKBOARD_STATE_DIR", dir)

	if err := saveRemotesConfig(RemotesConfig{Active: "local", Remotes: map[string]Remote{"local": {URL: "http://localhost:8080"}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	path, err := remoteConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "remotes.toml") {
		t.Errorf("path = %q, want it under %q", path, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "remotes.toml" {
		t.Errorf("state dir holds %v, want only remotes.toml", entries)
	}
	cfg, err := loadRemotesConfig()
	if err != nil || cfg.Active != "local" {
		t.Errorf("load = %+v, %v", cfg, err)
	}
}

func TestLoadRemotesConfig_Malformed(t *testing.T) {
	t.Setenv("TASKBOARD_STATE_DIR", t.TempDir())
	path, _ := remoteConfigPath()
	if err := os.WriteFile(path, []byte("active = [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadRemotesConfig(); err == nil {
		t.Fatal("expected error for malformed remotes.toml")
	}
}
