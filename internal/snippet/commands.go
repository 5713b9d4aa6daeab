package snippet

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/deriamis/mongosh/internal/branding"
	"github.com/deriamis/mongosh/internal/catalog"
	"github.com/deriamis/mongosh/internal/manifest"
	"github.com/deriamis/mongosh/internal/npm"
	"github.com/deriamis/mongosh/internal/prompt"
)

// HelpText is printed by `snippet help`.
const HelpText = `snippet <command> [args...]

  snippet install <name>     Install a new snippet
  snippet uninstall <name>   Remove an installed snippet
  snippet update             Get the latest versions of installed snippets
  snippet search             List available snippets
  snippet ls                 List installed snippets
  snippet outdated           List outdated snippets
  snippet help               Show this text
  snippet help <name>        Show information about a specific snippet
  snippet info               Show information about the snippet repository
`

// RunCommand executes one snippet subcommand. args[0] is the subcommand;
// an empty args list shows the help text.
func (m *Manager) RunCommand(ctx context.Context, args []string, p prompt.Prompter) (string, error) {
	if len(args) == 0 {
		return HelpText, nil
	}
	if p == nil {
		p = prompt.Fixed(prompt.AnswerNone)
	}

	switch verb := args[0]; verb {
	case "help":
		if len(args) > 1 {
			return m.Readme(ctx, args[1])
		}
		return HelpText, nil
	case "install", "uninstall", "update":
		return m.modify(ctx, verb, args[1:], p)
	case "ls":
		return m.listing(ctx, p, "ls", "--depth=0")
	case "outdated":
		return m.listing(ctx, p, "outdated")
	case "search":
		return m.Search(ctx)
	case "info":
		return m.Info(ctx)
	default:
		return `Unknown command "` + verb + `". Run '` + CommandName + ` help' to list all available commands.`, nil
	}
}

// Readme returns the long description of a snippet.
func (m *Manager) Readme(ctx context.Context, name string) (string, error) {
	idx, err := m.catalog.Load(ctx, false)
	if err != nil {
		return "", err
	}
	entry, ok := idx.Lookup(name)
	if !ok {
		return "", &NameError{Name: name, Err: ErrUnknownSnippet}
	}
	if entry.Readme == "" {
		return "", &NameError{Name: name, Err: ErrNoHelpAvailable}
	}
	return entry.Readme, nil
}

// Info describes the snippet repository.
func (m *Manager) Info(ctx context.Context) (string, error) {
	idx, err := m.catalog.Load(ctx, false)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Snippet repository homepage:   %s\nSnippet index URL:             %s\n",
		idx.Metadata.Homepage, m.catalog.URI()), nil
}

// Search lists every snippet in the catalog as a table.
func (m *Manager) Search(ctx context.Context) (string, error) {
	idx, err := m.catalog.Load(ctx, false)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tDESCRIPTION")
	for _, e := range idx.Entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.SnippetName, version, e.Description)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// modify runs install, uninstall or update for the named snippets.
func (m *Manager) modify(ctx context.Context, verb string, names []string, p prompt.Prompter) (string, error) {
	idx, err := m.catalog.Load(ctx, false)
	if err != nil {
		return "", err
	}
	pkgs := make([]string, 0, len(names))
	for _, name := range names {
		pkg, ok := idx.ResolveName(name)
		if !ok {
			return "", &NameError{Name: name, Err: ErrUnknownSnippet}
		}
		pkgs = append(pkgs, pkg)
	}

	inv, _, err := m.EnsureSetup(ctx, p)
	if err != nil {
		return "", err
	}

	if len(pkgs) > 0 {
		if err := m.editor.Edit(func(s *manifest.State) error {
			for _, pkg := range pkgs {
				if verb == "uninstall" {
					s.Remove(pkg)
				} else {
					s.Set(pkg, manifest.LatestSpec)
				}
			}
			return nil
		}); err != nil {
			return "", err
		}
	}

	if _, err := m.runner.Run(ctx, inv, verb, pkgs...); err != nil {
		return "", err
	}
	if err := m.syncRCFile(); err != nil {
		return "", err
	}

	if verb != "install" || len(pkgs) == 0 {
		return "Done!", nil
	}

	list := strings.Join(names, ",")
	answer, err := p.Prompt(ctx, fmt.Sprintf("Installed new snippets %s. Do you want to load them now? [Y/n]", list), prompt.KindYesNo)
	if err != nil {
		return "", err
	}
	if answer != prompt.AnswerNo {
		if err := m.loadPackages(ctx, pkgs); err != nil {
			return "", err
		}
	}
	return "Finished installing snippets: " + list, nil
}

func (m *Manager) syncRCFile() error {
	state, err := m.editor.Read()
	if err != nil {
		return err
	}
	return m.rc.Sync(state.Names())
}

func (m *Manager) loadPackages(ctx context.Context, pkgs []string) error {
	loader := m.currentLoader()
	if loader == nil {
		return nil
	}
	for _, pkg := range pkgs {
		path, err := npm.ResolveModule(m.installDir, pkg)
		if err != nil {
			return err
		}
		if err := loader.Load(ctx, path); err != nil {
			return fmt.Errorf("loading %s: %w", pkg, err)
		}
	}
	return nil
}

// listing runs an npm listing command and shows snippet names in place of
// package names.
func (m *Manager) listing(ctx context.Context, p prompt.Prompter, verb string, args ...string) (string, error) {
	inv, idx, err := m.EnsureSetup(ctx, p)
	if err != nil {
		return "", err
	}
	out, err := m.runner.Run(ctx, inv, verb, args...)
	if err != nil {
		return "", err
	}
	return rewriteNames(out, idx), nil
}

// rewriteNames replaces every package name in out with <prefix>:<snippet>,
// in catalog order.
func rewriteNames(out string, idx *catalog.Index) string {
	for _, e := range idx.Entries {
		if e.Name == "" {
			continue
		}
		re := regexp.MustCompile(regexp.QuoteMeta(e.Name))
		out = re.ReplaceAllLiteralString(out, branding.PackagePrefix()+":"+e.SnippetName)
	}
	return out
}
