package version

import "runtime/debug"

// Set at build time:
// go build -ldflags "-X github.com/Conceptual-Machines/loopgen-api/internal/version.Version=$(git describe --dirty)"

var Version string

// Hash is the short VCS revision baked in by the go tool, if any
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	modified := false
	revision := ""
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.modified":
			modified = setting.Value == "true"
		case "vcs.revision":
			revision = setting.Value
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		return revision + "-dirty"
	}
	return revision
}()

// Get returns the release version, the revision, or "dev"
func Get() string {
	if Version != "" {
		return Version
	}
	if Hash != "" {
		return Hash
	}
	return "dev"
}
