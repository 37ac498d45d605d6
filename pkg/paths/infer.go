package paths

import (
	"path/filepath"
	"strings"
)

const vscodeSettingsSuffix = "Code/User/settings.json"

// InferVaultPath derives the vault-relative name for an absolute source path.
// Rules apply in order:
//
//  1. under ~/.config: the remainder (~/.config/nvim/init.vim -> nvim/init.vim)
//  2. a dotfile directly in home, with the dot stripped:
//     *rc -> <base>/<name> (.zshrc -> zsh/zshrc),
//     gitconfig -> git/gitconfig, .ssh -> ssh/ssh,
//     anything else -> <name>/<name>
//  3. VS Code user settings -> vscode/settings.json
//  4. under home: the home-relative path
//  5. the bare file name
//
// The result always uses forward slashes.
func (p *paths) InferVaultPath(source string) string {
	source = filepath.Clean(source)
	name := filepath.Base(source)

	configDir := filepath.Join(p.home, ".config")
	if rel, ok := relativeTo(configDir, source); ok {
		return filepath.ToSlash(rel)
	}

	if filepath.Dir(source) == p.home && strings.HasPrefix(name, ".") && len(name) > 1 {
		return dotfileVaultPath(name)
	}

	if strings.Contains(filepath.ToSlash(source), vscodeSettingsSuffix) {
		return "vscode/settings.json"
	}

	if rel, ok := relativeTo(p.home, source); ok {
		return filepath.ToSlash(rel)
	}

	return name
}

func dotfileVaultPath(name string) string {
	stripped := strings.TrimPrefix(name, ".")

	switch {
	case strings.HasSuffix(stripped, "rc") && len(stripped) > len("rc"):
		return strings.TrimSuffix(stripped, "rc") + "/" + stripped
	case stripped == "gitconfig":
		return "git/gitconfig"
	case name == ".ssh" || strings.HasPrefix(stripped, "ssh/"):
		return "ssh/" + stripped
	default:
		return stripped + "/" + stripped
	}
}

// relativeTo returns path relative to base when path is strictly inside base.
func relativeTo(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

var sensitivePatterns = []string{".env", "credential", "secret", "password"}

var sensitiveSuffixes = []string{".key", ".pem"}

// IsSensitive reports whether a path looks like it holds secrets.
func IsSensitive(path string) bool {
	lower := strings.ToLower(path)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
