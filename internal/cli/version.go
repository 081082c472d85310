package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Version information for all StartASM tools.
const (
	Version   = "1.2.0"
	BuildDate = "2026-10-19"
)

// CommitSHA is set at link time with -ldflags "-X".
var CommitSHA = "unknown"

// VersionInfo contains version and build information.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns structured version information.
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// SemVer returns the tool version as a parsed semantic version.
func SemVer() *semver.Version {
	return semver.MustParse(Version)
}

// CheckVersion reports whether the tool version satisfies constraint.
// An empty constraint is always satisfied.
func CheckVersion(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	if ok, errs := c.Validate(SemVer()); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("startasm %s does not satisfy %q: %w", Version, constraint, errs[0])
		}
		return fmt.Errorf("startasm %s does not satisfy %q", Version, constraint)
	}
	return nil
}

// PrintVersion writes version information in a consistent format.
func PrintVersion(w io.Writer, toolName string, jsonOutput bool) {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err == nil {
			fmt.Fprintln(w, string(data))
			return
		}
		// Fall back to plain text.
		fmt.Fprintf(w, "Error: Failed to marshal version info to JSON: %v\n", err)
	}

	fmt.Fprintf(w, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
}
