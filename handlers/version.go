package handlers

import (
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"sync"
)

// Version is set at build time with -ldflags "-X aspcal/handlers.Version=...".
var Version string

var (
	resolvedVersion string
	versionOnce     sync.Once
)

type VersionResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion,omitempty"`
}

// GetVersion returns the build version: the linker-set Version, then
// version.txt, then the module build info (cached after first call).
func GetVersion() string {
	versionOnce.Do(func() {
		if v := strings.TrimSpace(Version); v != "" {
			resolvedVersion = v
			return
		}

		for _, path := range []string{"version.txt", "/app/version.txt"} {
			data, err := os.ReadFile(path)
			if err == nil {
				if v := strings.TrimSpace(string(data)); v != "" {
					resolvedVersion = v
					return
				}
			}
		}

		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
			return
		}

		resolvedVersion = "dev"
	})
	return resolvedVersion
}

// GetVersionHandler serves the build version as JSON.
func GetVersionHandler(w http.ResponseWriter, r *http.Request) {
	resp := VersionResponse{Version: GetVersion()}
	if info, ok := debug.ReadBuildInfo(); ok {
		resp.GoVersion = info.GoVersion
	}
	writeJSON(w, http.StatusOK, resp)
}
