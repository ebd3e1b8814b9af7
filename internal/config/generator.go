package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Generator renders Settings back into a Lua config file that ParseString
// accepts. The registry token is never written; it belongs in the
// environment.
type Generator struct {
	indent string
	now    func() time.Time
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
		now:    time.Now,
	}
}

// Generate renders s as a godotmgr table.
func (g *Generator) Generate(s *Settings) (string, error) {
	if s == nil {
		return "", fmt.Errorf("generate config: nil settings")
	}

	var buf bytes.Buffer

	buf.WriteString("-- GodotManager configuration\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(g.now().UTC().Format(time.RFC3339))
	buf.WriteString("\n")
	buf.WriteString("-- Set the registry token through " + EnvGitHubToken + " or " + envKey(KeyRegistryToken) + ".\n\n")

	buf.WriteString(luaGlobalRoot + " = {\n")

	g.openSection(&buf, luaSectionRegistry)
	g.writeString(&buf, "owner", s.Registry.Owner)
	g.writeString(&buf, "repo", s.Registry.Repo)
	g.writeInt(&buf, "page_size", s.Registry.PageSize)
	if s.Registry.BaseURL != "" {
		g.writeString(&buf, "base_url", s.Registry.BaseURL)
	}
	g.closeSection(&buf, false)

	g.openSection(&buf, luaSectionInstall)
	g.writeString(&buf, "root", s.Install.Root)
	g.writeString(&buf, "variant", s.Install.Variant)
	g.closeSection(&buf, false)

	g.openSection(&buf, luaSectionNetwork)
	g.writeString(&buf, "api_timeout", s.Network.APITimeout.String())
	g.writeString(&buf, "download_timeout", s.Network.DownloadTimeout.String())
	g.writeString(&buf, "user_agent", s.Network.UserAgent)
	g.writeInt(&buf, "max_archive_mb", s.Network.MaxArchiveMB)
	g.closeSection(&buf, true)

	buf.WriteString("}\n")

	return buf.String(), nil
}

func (g *Generator) openSection(buf *bytes.Buffer, name string) {
	buf.WriteString(g.indent)
	buf.WriteString(name)
	buf.WriteString(" = {\n")
}

func (g *Generator) closeSection(buf *bytes.Buffer, last bool) {
	buf.WriteString(g.indent)
	if last {
		buf.WriteString("},\n")
		return
	}
	buf.WriteString("},\n\n")
}

func (g *Generator) writeString(buf *bytes.Buffer, key, value string) {
	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString(key)
	buf.WriteString(" = ")
	buf.WriteString(g.quoteLuaString(value))
	buf.WriteString(",\n")
}

func (g *Generator) writeInt(buf *bytes.Buffer, key string, value int) {
	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	fmt.Fprintf(buf, "%s = %d,\n", key, value)
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}

// envKey maps a dotted setting key to its environment variable.
func envKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}
