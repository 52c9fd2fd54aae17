package releasify

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/oshokin/release-forge/internal/logger"
)

const (
	// MarkerFilename marks that a releasify run is in progress to avoid
	// two runs fighting over the same output folder.
	MarkerFilename = "release-forge-build-marker.bin"

	// markerLifetime is the period after which a leftover marker from a
	// crashed run is considered stale.
	markerLifetime = 30 * time.Second

	// baseExecutable is the tool's executable name without platform extension.
	baseExecutable = "release-forge"
)

// IsBuildRunningNow checks presence of a run marker and attempts recovery
// when it looks stale: a marker without a live release-forge process behind
// it is removed and the run may proceed.
func IsBuildRunningNow(ctx context.Context) bool {
	logger.Debug(ctx, "Checking for the presence of a build marker")

	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The build marker is too old, attempting cleanup")

		if isProcessAlive(toolExecutable()) {
			return true
		}

		if err = os.Remove(MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read build marker: %v", err)

	return false
}

// createMarker writes the run marker; removeMarker is its counterpart.
func createMarker() error {
	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return err
	}

	return marker.Close()
}

// removeMarker deletes the run marker, tolerating its absence.
func removeMarker() {
	_ = os.Remove(MarkerFilename)
}

// isProcessAlive reports whether another process with the provided
// executable name is currently running.
func isProcessAlive(processName string) bool {
	processList, err := ps.Processes()
	if err != nil {
		return false
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == processName {
			return true
		}
	}

	return false
}

// toolExecutable returns the platform-specific executable name.
func toolExecutable() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return baseExecutable + ".exe"
	}

	return baseExecutable
}
