package version

// values are set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	BuiltBy   = "unknown"
	SdkCommit = ""
)

var FullVersion = composeFullVersion()

func composeFullVersion() string {
	ret := Version
	if Commit != "none" {
		ret += " (" + Commit + ")"
	}
	return ret
}
