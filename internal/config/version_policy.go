package config

import (
	"sort"
	"strings"
)

// CurrentConfigVersion is the configVersion ssr documents and accepts.
const CurrentConfigVersion = "1"

// configSections lists, per accepted configVersion, the top-level fields a
// file may declare.
var configSections = map[string][]string{
	CurrentConfigVersion: {"configVersion", "source", "where", "output", "workers"},
}

// IsSupportedConfigVersion reports whether v has a known section layout.
func IsSupportedConfigVersion(v string) bool {
	_, ok := configSections[v]
	return ok
}

// SupportedConfigVersions returns the accepted versions in sorted order.
func SupportedConfigVersions() []string {
	out := make([]string, 0, len(configSections))
	for v := range configSections {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func unsupportedVersionMessage(v string) string {
	return "unsupported configVersion: \"" + v + "\" (supported: " + strings.Join(SupportedConfigVersions(), ", ") + ")"
}
