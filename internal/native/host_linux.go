//go:build linux

package native

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// UI_DEV_SETUP first shipped in Linux 4.5.
var uinputSetupSince = semver.MustParse("4.5.0")

var releasePrefix = regexp.MustCompile(`^\d+\.\d+(\.\d+)?`)

// KernelRelease returns the running kernel's release string, as uname -r.
func KernelRelease() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}
	return unix.ByteSliceToString(uts.Release[:]), nil
}

// ParseKernelVersion extracts major.minor.patch from a release string such
// as "6.1.0-18-amd64" or "5.10.160+".
func ParseKernelVersion(release string) (*semver.Version, error) {
	v := releasePrefix.FindString(release)
	if v == "" {
		return nil, fmt.Errorf("kernel release %q has no version", release)
	}
	return semver.NewVersion(v)
}

// SupportsUinputSetup reports whether the kernel release understands the
// UI_DEV_SETUP ioctl.
func SupportsUinputSetup(release string) bool {
	v, err := ParseKernelVersion(release)
	if err != nil {
		return false
	}
	return !v.LessThan(uinputSetupSince)
}

// WaitForPath blocks until path exists, ctx is done, or timeout passes. The
// uinput node can show up after the daemon when the module loads late.
func WaitForPath(ctx context.Context, path string, timeout time.Duration, l *zerolog.Logger) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// it may have appeared before the watch was set up
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if l != nil {
		l.Info().Str("path", path).Dur("timeout", timeout).Msg("waiting for device node")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", path, ctx.Err())
		case ev, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if filepath.Clean(ev.Name) == filepath.Clean(path) && ev.Has(fsnotify.Create) {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			if l != nil {
				l.Warn().Err(err).Str("dir", dir).Msg("watcher error")
			}
		}
	}
}
