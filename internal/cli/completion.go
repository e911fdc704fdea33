package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
)

// CompletionCmd generates shell completions
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

// completionCommand is one leaf or group of the command tree
type completionCommand struct {
	path  string // "config show"
	help  string
	flags []string
}

// Run executes the completion command
func (c *CompletionCmd) Run(globals *Globals, kctx *kong.Context) error {
	root := kctx.Model.Node
	globalFlags := flagWords(root.Flags)
	commands := collectCommands(root, "")

	switch c.Shell {
	case "bash":
		return writeBash(globals.Stdout, commands, globalFlags)
	case "zsh":
		// bash completions work in zsh through bashcompinit
		if _, err := io.WriteString(globals.Stdout, "#compdef eccstat\nautoload -U +X bashcompinit && bashcompinit\n"); err != nil {
			return err
		}
		return writeBash(globals.Stdout, commands, globalFlags)
	case "fish":
		return writeFish(globals.Stdout, commands)
	default:
		return fmt.Errorf("unsupported shell: %s", c.Shell)
	}
}

func collectCommands(node *kong.Node, prefix string) []completionCommand {
	var out []completionCommand
	for _, child := range node.Children {
		if child.Hidden || child.Type != kong.CommandNode {
			continue
		}
		path := strings.TrimSpace(prefix + " " + child.Name)
		out = append(out, completionCommand{path: path, help: child.Help, flags: flagWords(child.Flags)})
		out = append(out, collectCommands(child, path)...)
	}
	return out
}

func flagWords(flags []*kong.Flag) []string {
	var words []string
	for _, f := range flags {
		if f.Hidden {
			continue
		}
		words = append(words, "--"+f.Name)
		if f.Short != 0 {
			words = append(words, "-"+string(f.Short))
		}
	}
	sort.Strings(words)
	return words
}

func writeBash(w io.Writer, commands []completionCommand, globalFlags []string) error {
	var b strings.Builder
	b.WriteString("# eccstat bash completion script\n")
	b.WriteString("# Add to ~/.bashrc:\n#   eval \"$(eccstat completion bash)\"\n\n")
	b.WriteString("_eccstat_completions() {\n")
	b.WriteString("    local cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    local cmd=\"${COMP_WORDS[1]}\"\n")
	fmt.Fprintf(&b, "    local global_flags=%q\n\n", strings.Join(globalFlags, " "))
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(topLevel(commands), " ")+" ${global_flags}")
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")
	for _, cmd := range commands {
		if strings.Contains(cmd.path, " ") {
			continue
		}
		words := append(subcommands(commands, cmd.path), cmd.flags...)
		fmt.Fprintf(&b, "        %s)\n", cmd.path)
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(words, " ")+" ${global_flags}")
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n}\n\ncomplete -o default -F _eccstat_completions eccstat\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFish(w io.Writer, commands []completionCommand) error {
	var b strings.Builder
	b.WriteString("# eccstat fish completion script\n")
	b.WriteString("# Add to ~/.config/fish/completions/eccstat.fish\n\n")
	for _, cmd := range commands {
		if strings.Contains(cmd.path, " ") {
			continue
		}
		fmt.Fprintf(&b, "complete -c eccstat -n \"__fish_use_subcommand\" -a %q -d %q\n", cmd.path, cmd.help)
	}
	for _, cmd := range commands {
		parts := strings.Fields(cmd.path)
		for _, f := range cmd.flags {
			if !strings.HasPrefix(f, "--") {
				continue
			}
			fmt.Fprintf(&b, "complete -c eccstat -n \"__fish_seen_subcommand_from %s\" -l %s\n", parts[len(parts)-1], strings.TrimPrefix(f, "--"))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func topLevel(commands []completionCommand) []string {
	var out []string
	for _, c := range commands {
		if !strings.Contains(c.path, " ") {
			out = append(out, c.path)
		}
	}
	return out
}

func subcommands(commands []completionCommand, parent string) []string {
	var out []string
	for _, c := range commands {
		if rest, ok := strings.CutPrefix(c.path, parent+" "); ok && !strings.Contains(rest, " ") {
			out = append(out, rest)
		}
	}
	return out
}
