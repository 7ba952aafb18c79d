// Package help adds topic pages to a cobra help command. Topics are
// markdown or text files read from an fs.FS, usually an embedded
// directory, and are listed with "help topics".
package help

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/spf13/cobra"
)

// Topic is one help page
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Renderer formats topic content for display
type Renderer interface {
	Render(content string, ext string) string
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(content string, ext string) string

// Render calls f
func (f RendererFunc) Render(content string, ext string) string { return f(content, ext) }

// Plain returns content unchanged
var Plain = RendererFunc(func(content, _ string) string { return content })

// Options configures Topics
type Options struct {
	// Extensions defaults to .md and .txt
	Extensions []string
	// Renderer defaults to Plain
	Renderer Renderer
}

// Topics holds the pages loaded from a filesystem
type Topics struct {
	pages    map[string]*Topic
	renderer Renderer
}

// Load reads every topic file below root in fsys. Flag topics are
// stored with an "option-" prefix, e.g. option-dry-run.md.
func Load(fsys fs.FS, root string, opts Options) (*Topics, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".md", ".txt"}
	}
	t := &Topics{pages: make(map[string]*Topic), renderer: opts.Renderer}
	if t.renderer == nil {
		t.renderer = Plain
	}

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := path.Ext(p)
		if d.IsDir() || !contains(exts, ext) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		t.pages[name] = &Topic{Name: name, Path: p, Content: string(data)}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to load help topics from %s", root)
	}
	return t, nil
}

// Get finds a topic. "--dry-run" and "dry-run" both match option-dry-run.
func (t *Topics) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if topic, ok := t.pages[name]; ok {
		return topic, true
	}
	topic, ok := t.pages["option-"+name]
	return topic, ok
}

// Names returns every topic name, sorted
func (t *Topics) Names() []string {
	names := make([]string, 0, len(t.pages))
	for name := range t.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the formatted content of topic
func (t *Topics) Render(topic *Topic) string {
	return t.renderer.Render(topic.Content, path.Ext(topic.Path))
}

// WriteList prints the topic index, general topics before flag topics
func (t *Topics) WriteList(w io.Writer, app string) {
	names := t.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []string
	for _, name := range names {
		if opt, ok := strings.CutPrefix(name, "option-"); ok {
			options = append(options, opt)
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", app)
}

// Install replaces root's help command with one that also knows about
// topics. Anything that is not a topic falls through to cobra's help.
func (t *Topics) Install(root *cobra.Command) {
	original := root.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: "Help provides help for any command or topic.\n\nTo see all available help topics:\n  " +
			root.Name() + " help topics",
		// Flag topics such as --dry-run arrive as arguments
		DisableFlagParsing: true,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, t.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			switch {
			case len(args) == 0:
				original(root, args)
			case args[0] == "topics":
				t.WriteList(out, root.Name())
			default:
				if topic, ok := t.Get(args[0]); ok {
					fmt.Fprint(out, t.Render(topic))
					return
				}
				target, _, err := root.Find(args)
				if err != nil || target == nil {
					original(root, args)
					return
				}
				original(target, args)
			}
		},
	}

	for _, c := range root.Commands() {
		if c.Name() == "help" {
			root.RemoveCommand(c)
			break
		}
	}
	root.SetHelpCommand(helpCmd)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
