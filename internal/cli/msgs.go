package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort              = "Keep files from anywhere on your machine in git-backed vaults"
	MsgInitShort              = "Create a vault, optionally backed by a remote"
	MsgLinkShort              = "Start tracking a file or directory"
	MsgUnlinkShort            = "Stop tracking a vault path"
	MsgListShort              = "List tracked files"
	MsgStatusShort            = "Compare tracked files with the vault"
	MsgBackupShort            = "Copy tracked files into the vault, commit and push"
	MsgRestoreShort           = "Pull and copy vault files back into place"
	MsgConfigShort            = "Get and set gfv settings"
	MsgVaultShort             = "Manage vaults"
	MsgVaultListShort         = "List vaults"
	MsgVaultCreateShort       = "Create and register a vault"
	MsgVaultSwitchShort       = "Make a vault the active one"
	MsgVaultRemoveShort       = "Unregister a vault"
	MsgVaultInfoShort         = "Show details of a vault"
	MsgVaultSetRemoteShort    = "Point a vault at a remote"
	MsgVaultSetBranchShort    = "Rename the branch a vault syncs"
	MsgVaultRemoveRemoteShort = "Make a vault local only"
	MsgDebugShort             = "Troubleshooting helpers"
	MsgDebugPathsShort        = "Show where gfv keeps its files"
	MsgDebugCleanShort        = "Delete the gfv home directory"
	MsgAliasShort             = "Manage command aliases"
	MsgAliasAddShort          = "Define an alias"
	MsgAliasRemoveShort       = "Delete an alias"
	MsgAliasListShort         = "List aliases"
	MsgCompletionShort        = "Generate shell completion script"

	// Status messages
	MsgSwitched          = "Switched to vault [vault]%s[/vault]"
	MsgVaultUnregistered = "Removed vault [vault]%s[/vault] from the configuration"
	MsgVaultDeleted      = "Removed vault [vault]%s[/vault] and deleted %s"
	MsgVaultKept         = "Vault directory preserved at %s"
	MsgRemoteSet         = "Vault [vault]%s[/vault] now syncs with %s on [branch]%s[/branch]"
	MsgRemoteRemoved     = "Vault [vault]%s[/vault] is now local only"
	MsgBranchSet         = "Vault [vault]%s[/vault] now uses branch [branch]%s[/branch]"
	MsgConfigSet         = "Set %s = %s"
	MsgConfigUnset       = "Unset %s"
	MsgAliasAdded        = "Alias [bold]%s[/bold] -> %s"
	MsgAliasReplaced     = "Alias [bold]%s[/bold] -> %s (was: %s)"
	MsgAliasRemoved      = "Removed alias [bold]%s[/bold] (was: %s)"
	MsgCancelled         = "Cancelled."
	MsgNothingToClean    = "Nothing to clean: %s does not exist"
	MsgCleaned           = "Deleted %s"
	MsgNotSet            = "(not set)"
	MsgLocalOnly         = "not configured (local only)"
	MsgPathExists        = "exists"
	MsgPathMissing       = "not found"

	// Confirmations
	MsgConfirmRemove       = "Remove vault %q from the configuration?"
	MsgConfirmRemoveDelete = "Remove vault %q and PERMANENTLY DELETE its directory?"
	MsgConfirmClean        = "Delete %s including all vaults, repositories and configuration?"
	MsgConfirmAliasReplace = "Alias %q already expands to %q. Overwrite it?"

	// Error messages
	MsgErrInvalidFormat = "invalid --format value: %s"
	MsgErrReadOnlyKey   = "%s is derived from the vault and cannot be set"
	MsgErrUsageHint     = "run '%s --help' for usage"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagVault       = "Vault to operate on (default: the active vault)"
	MsgFlagFormat      = "Output format: auto, term, text, json or yaml"
	MsgFlagName        = "Name of the vault"
	MsgFlagPath        = "Directory of the vault (default: ~/.gfv/<name>)"
	MsgFlagRemote      = "URL of the remote repository"
	MsgFlagBranch      = "Branch to sync (default: sync.default_branch, or the remote's)"
	MsgFlagPlatform    = "Only restore on this platform: macos, linux or windows"
	MsgFlagYes         = "Do not ask for confirmation"
	MsgFlagDeleteFiles = "Also delete the stored files"
	MsgFlagDeleteDir   = "Also delete the vault directory"
	MsgFlagLong        = "Show type, platform and source of each file"
	MsgFlagMessage     = "Commit message"
	MsgFlagDryRun      = "Show what would be restored without changing anything"
	MsgFlagForce       = "Overwrite local changes without asking"
	MsgFlagList        = "List every setting"
	MsgFlagUnset       = "Reset a key to its default"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/link-long.txt
	msgLinkLongRaw string
	MsgLinkLong    = strings.TrimSpace(msgLinkLongRaw)

	//go:embed msgs/link-example.txt
	msgLinkExampleRaw string
	MsgLinkExample    = strings.TrimRight(msgLinkExampleRaw, "\n")

	//go:embed msgs/unlink-long.txt
	msgUnlinkLongRaw string
	MsgUnlinkLong    = strings.TrimSpace(msgUnlinkLongRaw)

	//go:embed msgs/list-long.txt
	msgListLongRaw string
	MsgListLong    = strings.TrimSpace(msgListLongRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/backup-long.txt
	msgBackupLongRaw string
	MsgBackupLong    = strings.TrimSpace(msgBackupLongRaw)

	//go:embed msgs/backup-example.txt
	msgBackupExampleRaw string
	MsgBackupExample    = strings.TrimRight(msgBackupExampleRaw, "\n")

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/restore-example.txt
	msgRestoreExampleRaw string
	MsgRestoreExample    = strings.TrimRight(msgRestoreExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/config-example.txt
	msgConfigExampleRaw string
	MsgConfigExample    = strings.TrimRight(msgConfigExampleRaw, "\n")

	//go:embed msgs/vault-long.txt
	msgVaultLongRaw string
	MsgVaultLong    = strings.TrimSpace(msgVaultLongRaw)

	//go:embed msgs/alias-long.txt
	msgAliasLongRaw string
	MsgAliasLong    = strings.TrimSpace(msgAliasLongRaw)

	//go:embed msgs/alias-example.txt
	msgAliasExampleRaw string
	MsgAliasExample    = strings.TrimRight(msgAliasExampleRaw, "\n")

	//go:embed msgs/debug-clean-long.txt
	msgDebugCleanLongRaw string
	MsgDebugCleanLong    = strings.TrimSpace(msgDebugCleanLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
