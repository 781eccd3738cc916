package patch

import (
	"fmt"
	"strings"

	"github.com/vk/patchbaygo/internal/engine"
)

// ParsePortRef parses an "instance" or "instance.port" address. When the
// port half is omitted, defaultPort is used, so the common one-in one-out
// chain reads as `from = "osc1"` / `to = "filt"`.
func ParsePortRef(s string, defaultPort string) (engine.PortRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return engine.PortRef{}, fmt.Errorf("empty port address")
	}

	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return engine.PortRef{}, fmt.Errorf("invalid port address %q", s)
		}
		return engine.PortRef{Module: parts[0], Port: defaultPort}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return engine.PortRef{}, fmt.Errorf("invalid port address %q", s)
		}
		return engine.PortRef{Module: parts[0], Port: parts[1]}, nil
	default:
		return engine.PortRef{}, fmt.Errorf("invalid port address %q: want \"instance\" or \"instance.port\"", s)
	}
}
