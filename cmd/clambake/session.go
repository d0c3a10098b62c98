package main

import (
	"errors"
	"strconv"
	"strings"

	"clambake/internal/config"
	"clambake/internal/identity"
)

// requireIdentity loads the saved session identity and converts absence into
// an actionable error for commands that must act as a registered instance.
func requireIdentity(cfg *config.Config) (*identity.Identity, error) {
	id, err := identity.Load(cfg.InstanceFile)
	if errors.Is(err, identity.ErrNotRegistered) {
		return nil, errors.New("not registered, run 'clambake register' first")
	}
	if err != nil {
		return nil, err
	}
	return id, nil
}

// optionalIdentity loads the saved identity if one exists. Commands that can
// run as a plain human operator (task create, task done, remember) use this
// and fall back to the "human" attribution.
func optionalIdentity(cfg *config.Config) *identity.Identity {
	id, err := identity.Load(cfg.InstanceFile)
	if err != nil {
		return nil
	}
	return id
}

// splitList parses a comma-separated flag value into trimmed elements.
// Empty input yields nil.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitIDList parses a comma-separated flag value into int64 ids.
func splitIDList(s string) ([]int64, error) {
	var ids []int64
	for _, p := range splitList(s) {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, errors.New("invalid id list: " + s)
		}
		ids = append(ids, n)
	}
	return ids, nil
}

// truncate shortens s to max runes, appending an ellipsis when trimmed.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// shortID returns at most the first 8 characters of an instance id, the
// width used in list output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
