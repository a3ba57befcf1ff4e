package models

// Rendering defaults
const (
	// DefaultDateLayout mirrors the short US locale rendering (M/D/YYYY).
	DefaultDateLayout = "1/2/2006"
	// NoCheck is rendered when a ledger transaction has no check reference.
	NoCheck = "N/A"
	// PatternDisplaySeparator separates pattern alternatives in rendered output.
	PatternDisplaySeparator = ", "
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
