// Package topics adds conceptual help pages to a cobra command tree.
//
// Topics are .md or .txt files in an fs.FS (normally the set embedded in
// this package). `help <name>` shows the topic when one exists and falls back
// to command help otherwise; `help topics` lists them. Files named
// option-<flag> document a flag and may be looked up as `help --<flag>`.
package topics

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

const optionPrefix = "option-"

// Topic is one help page.
type Topic struct {
	Name     string
	FilePath string
	// Title is the first markdown heading, or empty.
	Title   string
	Content string
}

// Options configures a TopicManager.
type Options struct {
	// Extensions of files read as topics; [".txt", ".md"] when empty.
	Extensions []string
	// Renderer formats topic bodies; Plain when nil.
	Renderer Renderer
}

// TopicManager holds the loaded topics.
type TopicManager struct {
	fsys       fs.FS
	topics     map[string]*Topic
	extensions []string
	renderer   Renderer
}

func New(fsys fs.FS) *TopicManager {
	return NewWithOptions(fsys, Options{})
}

func NewWithOptions(fsys fs.FS, opts Options) *TopicManager {
	tm := &TopicManager{
		fsys:       fsys,
		topics:     map[string]*Topic{},
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(tm.extensions) == 0 {
		tm.extensions = []string{".txt", ".md"}
	}
	if tm.renderer == nil {
		tm.renderer = Plain
	}
	return tm
}

// Load reads every topic file below the root. A missing root is not an
// error; a later file with the same base name replaces an earlier one.
func (tm *TopicManager) Load() error {
	err := fs.WalkDir(tm.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := path.Ext(p)
		if d.IsDir() || !tm.accepts(ext) {
			return nil
		}
		data, err := fs.ReadFile(tm.fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		tm.topics[name] = &Topic{
			Name:     name,
			FilePath: p,
			Title:    heading(string(data)),
			Content:  string(data),
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (tm *TopicManager) accepts(ext string) bool {
	for _, e := range tm.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// heading returns the text of the first "# " line.
func heading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// GetTopic finds a topic by name. Leading dashes are ignored and flag
// topics are found with or without their option- prefix.
func (tm *TopicManager) GetTopic(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if t, ok := tm.topics[name]; ok {
		return t, true
	}
	t, ok := tm.topics[optionPrefix+name]
	return t, ok
}

// ListTopics returns the sorted topic names.
func (tm *TopicManager) ListTopics() []string {
	names := make([]string, 0, len(tm.topics))
	for name := range tm.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (tm *TopicManager) Render(t *Topic) string {
	return tm.renderer.Render(t.Content, path.Ext(t.FilePath))
}

// WriteIndex writes the `help topics` listing.
func (tm *TopicManager) WriteIndex(w io.Writer, program string) {
	names := tm.ListTopics()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, flags []*Topic
	for _, name := range names {
		t := tm.topics[name]
		if strings.HasPrefix(name, optionPrefix) {
			flags = append(flags, t)
		} else {
			general = append(general, t)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	section := func(title, prefix string, list []*Topic) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s\n", title)
		for _, t := range list {
			label := prefix + strings.TrimPrefix(t.Name, optionPrefix)
			if t.Title == "" || t.Title == label {
				fmt.Fprintf(w, "  %s\n", label)
				continue
			}
			fmt.Fprintf(w, "  %-18s %s\n", label, t.Title)
		}
	}
	section("General topics:", "", general)
	section("Option topics:", "--", flags)
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", program)
}

// Initialize installs topic help on rootCmd with default options.
func Initialize(rootCmd *cobra.Command, fsys fs.FS) (*TopicManager, error) {
	return InitializeWithOptions(rootCmd, fsys, Options{})
}

// InitializeWithOptions loads the topics and replaces the help command of
// rootCmd with one that knows about them.
func InitializeWithOptions(rootCmd *cobra.Command, fsys fs.FS, opts Options) (*TopicManager, error) {
	tm := NewWithOptions(fsys, opts)
	if err := tm.Load(); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}

	commandHelp := rootCmd.HelpFunc()
	program := rootCmd.Name()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: fmt.Sprintf(`Help shows the usage of a command, or a topic page.

  %[1]s help backup     usage of the backup command
  %[1]s help sync       the sync topic
  %[1]s help topics     list every topic`, program),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			names := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
				}
			}
			return append(names, tm.ListTopics()...), cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			switch {
			case len(args) == 0:
				commandHelp(rootCmd, nil)
				return
			case args[0] == "topics":
				tm.WriteIndex(out, program)
				return
			}
			if t, ok := tm.GetTopic(args[0]); ok {
				fmt.Fprint(out, tm.Render(t))
				return
			}
			target, _, err := rootCmd.Find(args)
			if err != nil || target == nil || target == rootCmd {
				fmt.Fprintf(out, "Unknown help topic %q. Run '%s help topics' for a list.\n", strings.Join(args, " "), program)
				return
			}
			commandHelp(target, nil)
		},
	}

	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" {
			rootCmd.RemoveCommand(c)
			break
		}
	}
	rootCmd.SetHelpCommand(helpCmd)
	return tm, nil
}
