// Package idmap computes the {inner, outer, count} triplets needed to
// populate a user namespace's uid_map/gid_map, either from the caller's
// effective IDs or from the system sub-UID/sub-GID allocation files.
package idmap

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Kind selects which mapping to compute.
type Kind int

const (
	UID Kind = iota
	GID
	SubUID
	SubGID
)

// Mapping is the (target, source, range) triplet written into a uid_map or
// gid_map file, or passed to newuidmap/newgidmap.
type Mapping struct {
	Target int
	Source int
	Range  int
}

var (
	// ErrSubIDFileMissing is returned when /etc/subuid or /etc/subgid cannot
	// be opened.
	ErrSubIDFileMissing = errors.New("sub-id file not found")
	// ErrNoSubIDEntry is returned when the current user has no entry in the
	// sub-id file.
	ErrNoSubIDEntry = errors.New("no sub-id entry for current user")
	// ErrMalformedSubIDEntry is returned when a matching entry's numeric
	// fields fail to parse.
	ErrMalformedSubIDEntry = errors.New("malformed sub-id entry")
)

// Compute builds the mapping triplet for the given kind.
func Compute(kind Kind) (Mapping, error) {
	switch kind {
	case UID:
		return Mapping{Target: 0, Source: int(unix.Geteuid()), Range: 1}, nil
	case GID:
		return Mapping{Target: 0, Source: int(unix.Getegid()), Range: 1}, nil
	case SubUID:
		return computeSubID("/etc/subuid")
	case SubGID:
		return computeSubID("/etc/subgid")
	default:
		return Mapping{}, fmt.Errorf("unknown id mapping kind %d", kind)
	}
}

func computeSubID(path string) (Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("%w: %s: %v", ErrSubIDFileMissing, path, err)
	}
	defer f.Close()

	username := os.Getenv("USER")
	prefix := username + ":"

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) != 3 {
			return Mapping{}, fmt.Errorf("%w: %q", ErrMalformedSubIDEntry, line)
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return Mapping{}, fmt.Errorf("%w: start field %q: %v", ErrMalformedSubIDEntry, fields[1], err)
		}
		count, err := strconv.Atoi(fields[2])
		if err != nil {
			return Mapping{}, fmt.Errorf("%w: range field %q: %v", ErrMalformedSubIDEntry, fields[2], err)
		}
		return Mapping{Target: 1, Source: start, Range: count}, nil
	}
	if err := scanner.Err(); err != nil {
		return Mapping{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Mapping{}, fmt.Errorf("%w: %s has no entry for %q", ErrNoSubIDEntry, path, username)
}

// Format renders a mapping as the single space-delimited line the kernel's
// uid_map/gid_map files expect: "target source range".
func Format(m Mapping) string {
	return fmt.Sprintf("%d %d %d", m.Target, m.Source, m.Range)
}

// Flatten renders a mapping as [target, source, range] strings, the argument
// form newuidmap/newgidmap expect.
func Flatten(m Mapping) []string {
	return []string{
		strconv.Itoa(m.Target),
		strconv.Itoa(m.Source),
		strconv.Itoa(m.Range),
	}
}
