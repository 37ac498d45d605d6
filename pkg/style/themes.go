package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Role names a kind of text the renderers color.
type Role string

const (
	RoleHeading   Role = "heading"
	RoleMuted     Role = "muted"
	RoleSuccess   Role = "success"
	RoleError     Role = "error"
	RoleWarning   Role = "warning"
	RoleInfo      Role = "info"
	RolePath      Role = "path"
	RoleCode      Role = "code"
	RoleVault     Role = "vault"
	RoleBranch    Role = "branch"
	RolePlatform  Role = "platform"
	RoleDirectory Role = "directory"
)

// Palette maps each role to a light/dark color pair.
type Palette map[Role]lipgloss.AdaptiveColor

// DefaultPalette is used by every styled renderer.
var DefaultPalette = Palette{
	RoleHeading:   {Light: "#212529", Dark: "#F8F9FA"},
	RoleMuted:     {Light: "#6C757D", Dark: "#ADB5BD"},
	RoleSuccess:   {Light: "#28A745", Dark: "#4CDD76"},
	RoleError:     {Light: "#DC3545", Dark: "#FF6B7D"},
	RoleWarning:   {Light: "#B8860B", Dark: "#FFD54F"},
	RoleInfo:      {Light: "#17A2B8", Dark: "#4DD0E1"},
	RolePath:      {Light: "#5A6470", Dark: "#A0A8B0"},
	RoleCode:      {Light: "#007ACC", Dark: "#3D9EFF"},
	RoleVault:     {Light: "#8B5CF6", Dark: "#A78BFA"},
	RoleBranch:    {Light: "#0EA5E9", Dark: "#38BDF8"},
	RolePlatform:  {Light: "#F59E0B", Dark: "#FBBF24"},
	RoleDirectory: {Light: "#10B981", Dark: "#34D399"},
}

// Color returns the color for r, falling back to the muted one.
func (p Palette) Color(r Role) lipgloss.AdaptiveColor {
	if c, ok := p[r]; ok {
		return c
	}
	return p[RoleMuted]
}

// Fg is a style with r's color as foreground.
func (p Palette) Fg(r Role) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Color(r))
}
