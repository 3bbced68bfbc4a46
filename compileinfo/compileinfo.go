package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

// BuildInfo describes the toolchain and VCS state a binary was built from.
type BuildInfo struct {
	Main      string
	GoVersion string
	Revision  string
	BuildTime string
	Dirty     bool
}

func (b BuildInfo) String() string {
	dirty := ""
	if b.Dirty {
		dirty = " The working tree was dirty at build time."
	}

	return fmt.Sprintf("Built %s with %s from revision %s (%s).%s", b.Main, b.GoVersion, b.Revision, b.BuildTime, dirty)
}

func Get() BuildInfo {
	out := BuildInfo{}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.Main = bi.Path
	out.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Revision = s.Value
		case "vcs.time":
			out.BuildTime = s.Value
		case "vcs.modified":
			out.Dirty = s.Value == "true"
		}
	}

	return out
}

func PrintToStdErr() {
	fmt.Fprintf(os.Stderr, "%s\n", Get())
}
