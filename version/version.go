package version

// overridden at build time via -ldflags

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	FullVersion = Version + " (" + Commit + ", " + BuildDate + ")"
)
