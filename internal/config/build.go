package config

import (
	"fmt"

	"github.com/tokenring-ai/codebase/internal/logging"
	"github.com/tokenring-ai/codebase/internal/matcher"
	"github.com/tokenring-ai/codebase/internal/resource"
	"github.com/tokenring-ai/codebase/internal/session"
)

// kindForType maps config type spellings to resource kinds.
func kindForType(t string) (resource.Kind, error) {
	switch t {
	case "fileTree":
		return resource.KindFileTree, nil
	case "repoMap":
		return resource.KindRepoMap, nil
	case "wholeFile":
		return resource.KindWholeFile, nil
	default:
		return 0, fmt.Errorf("unknown resource type %q", t)
	}
}

// BuildRegistry populates a registry with matcher-backed resources from the
// config. It also returns the matchers so a watcher can cover them.
func BuildRegistry(cfg *Config) (*resource.Registry, []*matcher.Matcher, error) {
	registry := resource.NewRegistry()
	var matchers []*matcher.Matcher

	for name, rc := range cfg.Resources {
		kind, err := kindForType(rc.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("resource %q: %w", name, err)
		}
		m := matcher.New(cfg.Workspace, rc.Include, rc.Exclude)
		matchers = append(matchers, m)
		registry.Register(resource.Resource{
			Name:       name,
			Kind:       kind,
			Enumerator: m,
		})
	}

	logging.Boot("Registry built: %d resource(s) from config", len(cfg.Resources))
	return registry, matchers, nil
}

// NewSession creates a session seeded from the config's default-enabled
// names, wildcard-resolved against the registry.
func NewSession(cfg *Config, registry *resource.Registry) (*session.Session, error) {
	sess := session.New()
	if len(cfg.DefaultEnabled) == 0 {
		return sess, nil
	}
	if err := registry.Enable(cfg.DefaultEnabled, sess); err != nil {
		return nil, fmt.Errorf("seeding session from default_enabled: %w", err)
	}
	return sess, nil
}
