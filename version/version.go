package version

// Version is the current reviewbridge release. It gates skill reinstalls:
// a workspace whose manifest records a different version gets its skill
// files refreshed on the next activation.
var Version = "0.3.0"
