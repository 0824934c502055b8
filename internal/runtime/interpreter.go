package runtime

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInterpreterNotFound is returned by Probe when the interpreter is not on
// the search path.
var ErrInterpreterNotFound = errors.New("interpreter not found")

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// Interpreter is the result of probing an interpreter binary.
type Interpreter struct {
	Name string
	Path string
	// Banner is the raw --version output, trimmed.
	Banner string
	// Version is nil when the banner carries no recognizable version.
	Version *semver.Version
}

// Probe locates name on the search path and queries its version.
func Probe(ctx context.Context, r Runner, name string) (*Interpreter, error) {
	path, err := r.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInterpreterNotFound, name, err)
	}

	out, err := RunChecked(ctx, r, Command{Name: name, Args: []string{"--version"}, Quiet: true})
	if err != nil {
		return nil, fmt.Errorf("querying %s version: %w", name, err)
	}

	// Python 2 printed its banner to stderr.
	banner := strings.TrimSpace(out.Stdout)
	if banner == "" {
		banner = strings.TrimSpace(out.Stderr)
	}

	return &Interpreter{
		Name:    name,
		Path:    path,
		Banner:  banner,
		Version: ParseVersion(banner),
	}, nil
}

// ParseVersion extracts the first dotted version from a banner such as
// "Python 3.11.4". It returns nil when nothing parses.
func ParseVersion(banner string) *semver.Version {
	m := versionPattern.FindString(banner)
	if m == "" {
		return nil
	}
	v, err := ParseSemver(m)
	if err != nil {
		return nil
	}
	return v
}

// MeetsMinimum reports whether v is at least min. Both tolerate a leading "v".
func MeetsMinimum(v *semver.Version, min string) (bool, error) {
	if v == nil {
		return false, fmt.Errorf("no version to compare")
	}
	mv, err := ParseSemver(min)
	if err != nil {
		return false, fmt.Errorf("parsing minimum version %q: %w", min, err)
	}
	return v.Compare(mv) >= 0, nil
}

// ParseSemver parses a version such as "3.8" or "v3.11.4".
func ParseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
