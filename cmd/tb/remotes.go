package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/BurntSushi/toml"
)

// RemotesConfig is the contents of remotes.toml: named board servers and the
// one tb talks to when --url is not given.
type RemotesConfig struct {
	Active  string            `toml:"active"`
	Remotes map[string]Remote `toml:"remotes"`
}

// Remote is a board server profile.
type Remote struct {
	URL     string `toml:"url"`
	Token   string `toml:"token,omitempty"`
	NATSURL string `toml:"nats_url,omitempty"`
}

var errNoActiveRemote = errors.New("no active remote; specify a name or run 'tb remote use <name>'")

var reRemoteName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// validate checks that r points at a board HTTP API and, when set, a NATS
// server that tb watch can subscribe to.
func (r Remote) validate() error {
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("remote URL must be http(s)://host[:port], got %q", r.URL)
	}
	if r.NATSURL == "" {
		return nil
	}
	n, err := url.Parse(r.NATSURL)
	if err != nil || (n.Scheme != "nats" && n.Scheme != "tls") || n.Host == "" {
		return fmt.Errorf("NATS URL must be nats://host[:port] or tls://host[:port], got %q", r.NATSURL)
	}
	return nil
}

// lookup returns the named remote, or the active one when name is empty.
func (c RemotesConfig) lookup(name string) (string, Remote, error) {
	if name == "" {
		name = c.Active
	}
	if name == "" {
		return "", Remote{}, errNoActiveRemote
	}
	r, ok := c.Remotes[name]
	if !ok {
		return "", Remote{}, fmt.Errorf("remote %q not found", name)
	}
	return name, r, nil
}

// set adds or replaces a remote after validating it.
func (c *RemotesConfig) set(name string, r Remote) error {
	if !reRemoteName.MatchString(name) {
		return fmt.Errorf("remote name %q must be letters, digits, '-' or '_'", name)
	}
	if err := r.validate(); err != nil {
		return err
	}
	c.Remotes[name] = r
	return nil
}

// remove deletes a remote, clearing Active if it pointed there.
func (c *RemotesConfig) remove(name string) error {
	name, _, err := c.lookup(name)
	if err != nil {
		return err
	}
	delete(c.Remotes, name)
	if c.Active == name {
		c.Active = ""
	}
	return nil
}

// stateDir is $TASKBOARD_STATE_DIR, falling back to ~/.local/state/taskboard.
func stateDir() (string, error) {
	if dir := os.Getenv("TASKBOARD_STATE_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate state dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "taskboard"), nil
}

func remoteConfigPath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return filepath.Join(dir, "remotes.toml"), nil
}

func loadRemotesConfig() (RemotesConfig, error) {
	path, err := remoteConfigPath()
	if err != nil {
		return RemotesConfig{}, err
	}
	cfg := RemotesConfig{Remotes: map[string]Remote{}}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return RemotesConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]Remote{}
	}
	return cfg, nil
}

// saveRemotesConfig replaces remotes.toml through a temp file in the same
// directory, so a failed write never truncates the existing config.
func saveRemotesConfig(cfg RemotesConfig) error {
	path, err := remoteConfigPath()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".remotes-*.toml")
	if err != nil {
		return fmt.Errorf("write remotes: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		return fmt.Errorf("encode remotes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write remotes: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// The active remote is resolved once per process. TASKBOARD_REMOTE names a
// remote to use instead of the one marked active.
var (
	remoteOnce   sync.Once
	activeRemote Remote
)

func loadActiveRemote() Remote {
	remoteOnce.Do(func() {
		cfg, err := loadRemotesConfig()
		if err != nil {
			return
		}
		if _, r, err := cfg.lookup(os.Getenv("TASKBOARD_REMOTE")); err == nil {
			activeRemote = r
		}
	})
	return activeRemote
}

func activeRemoteURL() string     { return loadActiveRemote().URL }
func activeRemoteToken() string   { return loadActiveRemote().Token }
func activeRemoteNATSURL() string { return loadActiveRemote().NATSURL }
