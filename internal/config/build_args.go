package config

import (
	"fmt"
	"runtime/debug"
)

const ModuleName = "fmcpx"

// Set via -ldflags "-X github.com/fedmcp/fmcpx/internal/config.BuildVersion=..." at build time.
var (
	BuildVersion = ""
	BuildCommit  = ""
	BuildTime    = ""
)

const devVersion = "0.0.0-dev"

// Version returns the ldflags version, the module version from build info,
// or 0.0.0-dev.
func Version() string {
	if BuildVersion != "" {
		return BuildVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion
}

func GetFormattedBuildArgs() string {
	s := fmt.Sprintf("%s version %s", ModuleName, Version())
	if BuildCommit != "" {
		s += fmt.Sprintf(" (commit %s", BuildCommit)
		if BuildTime != "" {
			s += ", built " + BuildTime
		}
		s += ")"
	}
	return s
}
