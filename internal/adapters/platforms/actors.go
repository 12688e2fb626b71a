package platforms

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"postproof/internal/domain"
	"postproof/pkg/log"

	"gopkg.in/yaml.v3"
)

const (
	defaultDatasetLimit = 5
	defaultProxyGroup   = "RESIDENTIAL"
)

// Actor identifies the scraping actor used for one platform and the input
// field that caps how many items it emits.
type Actor struct {
	ID       string `yaml:"id"`
	LimitKey string `yaml:"limit_key"`
}

var defaultActors = map[domain.Platform]Actor{
	domain.PlatformX:        {ID: "apidojo/tweet-scraper", LimitKey: "maxItems"},
	domain.PlatformThreads:  {ID: "curious_coder/threads-scraper", LimitKey: "maxItems"},
	domain.PlatformFacebook: {ID: "apify/facebook-posts-scraper", LimitKey: "resultsLimit"},
	domain.PlatformLinkedIn: {ID: "supreme_coder/linkedin-post", LimitKey: "limitPerSource"},
}

// ActorConfig is the actor catalogue. Values loaded from a file are
// reloaded when the file changes.
type ActorConfig struct {
	mu           sync.RWMutex
	actors       map[domain.Platform]Actor
	datasetLimit int
	proxyGroup   string

	filePath    string
	lastModTime time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// rawActorConfig represents the YAML structure.
type rawActorConfig struct {
	DatasetLimit int              `yaml:"dataset_limit"`
	ProxyGroup   string           `yaml:"proxy_group"`
	Actors       map[string]Actor `yaml:"actors"`
}

// DefaultActorConfig returns the built-in catalogue.
func DefaultActorConfig() *ActorConfig {
	c := &ActorConfig{stop: make(chan struct{})}
	c.apply(rawActorConfig{}, nil)
	return c
}

// LoadActorConfig loads the catalogue from a YAML file and checks it for
// changes every interval. A missing file yields the built-in catalogue.
func LoadActorConfig(filePath string, interval time.Duration) (*ActorConfig, error) {
	c := DefaultActorConfig()
	c.filePath = filePath

	info, err := os.Stat(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		log.GlobalWarn("actor config not found, using defaults", "path", filePath)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat actor config: %w", err)
	}

	if err := c.reload(); err != nil {
		return nil, err
	}
	c.lastModTime = info.ModTime()

	if interval > 0 {
		go c.watch(interval)
	}

	return c, nil
}

// reload reads the configuration from the file.
func (c *ActorConfig) reload() error {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return fmt.Errorf("read actor config: %w", err)
	}

	var raw rawActorConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse actor config: %w", err)
	}

	overrides := make(map[domain.Platform]Actor, len(raw.Actors))
	for name, a := range raw.Actors {
		p, err := domain.ParsePlatform(name)
		if err != nil {
			return fmt.Errorf("actor config: %w", err)
		}
		if _, dup := overrides[p]; dup {
			return fmt.Errorf("actor config: platform %s listed twice", p)
		}
		overrides[p] = a
	}

	c.apply(raw, overrides)
	return nil
}

// apply overlays the file settings and per-platform overrides on the
// built-in defaults.
func (c *ActorConfig) apply(raw rawActorConfig, overrides map[domain.Platform]Actor) {
	actors := make(map[domain.Platform]Actor, len(defaultActors))
	for p, a := range defaultActors {
		actors[p] = a
	}
	for p, a := range overrides {
		merged := actors[p]
		if a.ID != "" {
			merged.ID = a.ID
		}
		if a.LimitKey != "" {
			merged.LimitKey = a.LimitKey
		}
		actors[p] = merged
	}

	limit := raw.DatasetLimit
	if limit <= 0 {
		limit = defaultDatasetLimit
	}
	group := raw.ProxyGroup
	if group == "" {
		group = defaultProxyGroup
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.actors = actors
	c.datasetLimit = limit
	c.proxyGroup = group
}

// watch monitors the configuration file for changes and reloads it.
func (c *ActorConfig) watch(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			info, err := os.Stat(c.filePath)
			if err != nil || !info.ModTime().After(c.lastModTime) {
				continue
			}
			if err := c.reload(); err != nil {
				log.GlobalError("actor config reload failed", "path", c.filePath, "error", err.Error())
				continue
			}
			c.lastModTime = info.ModTime()
			log.GlobalInfo("actor config reloaded", "path", c.filePath)
		}
	}
}

// Close stops the reload watcher.
func (c *ActorConfig) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Actor returns the actor for a platform (thread-safe).
func (c *ActorConfig) Actor(p domain.Platform) Actor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.actors[p]
}

// DatasetLimit returns how many dataset items are read per run (thread-safe).
func (c *ActorConfig) DatasetLimit() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.datasetLimit
}

// ProxyGroup returns the proxy group requested from the runner (thread-safe).
func (c *ActorConfig) ProxyGroup() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.proxyGroup
}
