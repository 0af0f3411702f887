// Package docs renders the command reference from a loaded registry.
package docs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"kiwi-bot/internal/command"
	"kiwi-bot/pkg/cmd"
)

// DefaultTemplate is used when no template file is present.
const DefaultTemplate = `# kiwi-bot commands

Commands are gated by permission level. Levels come from per-guild overrides
set with ` + "`/config permission-level`" + `; holding the trusted role grants level 100.

{{.CommandSections}}`

// CommandSections renders one section per command kind, sorted by name.
func CommandSections(reg *command.Registry, prefix string) string {
	var buf bytes.Buffer
	section := func(title string, kind command.Kind, lead string) {
		all := reg.All(kind)
		if len(all) == 0 {
			return
		}
		fmt.Fprintf(&buf, "### %s\n\n", title)
		for _, c := range all {
			level := 0
			if def, ok := cmd.As[command.Definition](c); ok {
				level = def.PermissionLevel()
			}
			fmt.Fprintf(&buf, "- **%s%s** (level %d): %s\n", lead, c.Name(), level, c.Description())
			if sc, ok := cmd.As[*command.SlashCommand](c); ok {
				for _, o := range sc.SlashDefinition().Options {
					fmt.Fprintf(&buf, "  - `%s`: %s\n", o.Name, o.Description)
				}
			}
		}
		buf.WriteString("\n")
	}
	section("Slash commands", command.KindSlash, "/")
	section("Prefix commands", command.KindPrefix, prefix)
	return buf.String()
}

// Render executes tmpl with the command sections of reg.
func Render(tmpl string, reg *command.Registry, prefix string) ([]byte, error) {
	t, err := template.New("commands").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	data := struct {
		CommandSections string
	}{
		CommandSections: CommandSections(reg, prefix),
	}
	var out bytes.Buffer
	if err := t.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return out.Bytes(), nil
}

// UpdateFile renders the reference into outPath, using the template at
// tmplPath when it exists and DefaultTemplate otherwise.
func UpdateFile(reg *command.Registry, prefix, tmplPath, outPath string) error {
	tmpl := DefaultTemplate
	if tmplPath != "" {
		data, err := os.ReadFile(tmplPath)
		switch {
		case err == nil:
			tmpl = string(data)
		case !os.IsNotExist(err):
			return fmt.Errorf("read template: %w", err)
		}
	}

	out, err := Render(tmpl, reg, prefix)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(outPath, out, 0o644)
}
