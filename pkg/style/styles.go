package style

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle    = DefaultPalette.Fg(RoleHeading).Bold(true).MarginBottom(1)
	SubtitleStyle = DefaultPalette.Fg(RoleHeading).Bold(true)
	MutedStyle    = DefaultPalette.Fg(RoleMuted)

	SuccessStyle = DefaultPalette.Fg(RoleSuccess).Bold(true)
	ErrorStyle   = DefaultPalette.Fg(RoleError).Bold(true)
	WarningStyle = DefaultPalette.Fg(RoleWarning).Bold(true)
	InfoStyle    = DefaultPalette.Fg(RoleInfo)

	CodeStyle = DefaultPalette.Fg(RoleCode)
	PathStyle = DefaultPalette.Fg(RolePath).Italic(true)

	VaultStyle     = DefaultPalette.Fg(RoleVault).Bold(true)
	BranchStyle    = DefaultPalette.Fg(RoleBranch)
	PlatformStyle  = DefaultPalette.Fg(RolePlatform)
	DirectoryStyle = DefaultPalette.Fg(RoleDirectory).Bold(true)

	// left column of key/value listings
	keyStyle = MutedStyle.Width(10)
)

// Note markers.
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
	InfoIndicator    = InfoStyle.Render("•")
	ActiveIndicator  = VaultStyle.Render("*")
)

// Indent pads s by two spaces per level.
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}

// KeyValue renders one "key  value" row of an info listing.
func KeyValue(key, value string) string {
	return keyStyle.Render(key) + " " + value
}
