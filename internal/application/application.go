package application

const (
	// AppName is the program name shown in usage and error messages
	AppName = "patch_tracking_cli"

	// Description is the one-line summary shown in help output
	Description = "command line tool for manipulating patch tracking information"

	// Version is the client version reported by --version
	Version = "1.0.0"
)
