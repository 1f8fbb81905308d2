package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// BinaryName is the name of the rsaforge executable.
const BinaryName = "rsaforge"

// BinaryVersion is set at build time via -ldflags. Defaults to "dev".
var BinaryVersion = "dev"

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return ""
}

// Info is the version report printed by `rsaforge version`.
type Info struct {
	Binary        string `json:"binary" yaml:"binary"`
	Version       string `json:"version" yaml:"version"`
	ModuleVersion string `json:"moduleVersion,omitempty" yaml:"moduleVersion,omitempty"`
	GoVersion     string `json:"goVersion" yaml:"goVersion"`
	Platform      string `json:"platform" yaml:"platform"`
}

// Current collects the build information of the running binary.
func Current() Info {
	return Info{
		Binary:        BinaryName,
		Version:       BinaryVersion,
		ModuleVersion: ModuleVersion(),
		GoVersion:     runtime.Version(),
		Platform:      fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
