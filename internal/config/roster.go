package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

// LoadRoster reads the name -> email roster. ROSTER_FILE wins over NAMES;
// both hold a flat mapping and NAMES is usually JSON, which yaml accepts.
func LoadRoster(cfg ReminderConfig) (domain.Roster, error) {
	switch {
	case cfg.RosterFile != "":
		content, err := os.ReadFile(cfg.RosterFile)
		if err != nil {
			return nil, fmt.Errorf("read roster %s: %w", cfg.RosterFile, err)
		}
		return ParseRoster(content)
	case cfg.RosterJSON != "":
		return ParseRoster([]byte(cfg.RosterJSON))
	default:
		return nil, errors.New("no roster configured")
	}
}

// ParseRoster decodes a name -> email mapping and drops blank names.
func ParseRoster(content []byte) (domain.Roster, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	roster := make(domain.Roster, len(raw))
	for name, email := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		roster[name] = strings.TrimSpace(email)
	}
	return roster, nil
}
