package content

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"pkt.systems/rhinoterm/schema"
)

// Builtins lists the command names the interpreter dispatches itself.
var Builtins = []string{"help", "clear", "ascii", "cd", "ls", "pwd", "run", "share", "exit"}

// Catalog is an immutable snapshot of portfolio content.
type Catalog struct {
	Site        Site            `yaml:"site"`
	Banner      Banner          `yaml:"banner"`
	Categories  []Category      `yaml:"categories"`
	Directories []Directory     `yaml:"directories"`
	Files       map[string]File `yaml:"files"`

	commands map[string]Command
	dirs     map[schema.DirName]Directory
}

// Site carries identity strings used by the prompt, pwd and share.
type Site struct {
	Title      string `yaml:"title"`
	Owner      string `yaml:"owner"`
	URL        string `yaml:"url"`
	HomeUser   string `yaml:"home_user"`
	PromptUser string `yaml:"prompt_user"`
	PromptHost string `yaml:"prompt_host"`
}

// Banner holds the art and welcome text drawn on start and after clear.
type Banner struct {
	Rhino   []string `yaml:"rhino"`
	Title   []string `yaml:"title"`
	Welcome []string `yaml:"welcome"`
}

// Category groups commands under a help label.
type Category struct {
	Label    string    `yaml:"label"`
	Commands []Command `yaml:"commands"`
}

// Command is one entry of the command vocabulary.
type Command struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Builtin     bool          `yaml:"builtin,omitempty"`
	Style       schema.Style  `yaml:"style,omitempty"`
	Effect      schema.Effect `yaml:"effect,omitempty"`
	Output      []string      `yaml:"output,omitempty"`
	Links       []Link        `yaml:"links,omitempty"`
}

// Link marks a substring of the output that becomes a hyperlink once typed.
type Link struct {
	Match string `yaml:"match"`
	URL   string `yaml:"url"`
}

// Directory is one role-play directory.
type Directory struct {
	Name     schema.DirName `yaml:"name"`
	Listing  []string       `yaml:"listing"`
	Hidden   []string       `yaml:"hidden,omitempty"`
	Runnable []string       `yaml:"runnable,omitempty"`
}

// File is content shown in the sub-terminal by run.
type File struct {
	Effect  schema.Effect `yaml:"effect,omitempty"`
	Content string        `yaml:"content"`
}

// Span is a rune range [Start, End) of a line that links to URL.
type Span struct {
	Start int
	End   int
	URL   string
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrInvalidContent, err)
	}
	if err := cat.normalize(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// LoadFile reads and parses a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return Parse(data)
}

func (c *Catalog) normalize() error {
	if c.Site.HomeUser == "" {
		c.Site.HomeUser = "c0derhin0"
	}
	if c.Site.PromptUser == "" {
		c.Site.PromptUser = "visitor"
	}
	if c.Site.PromptHost == "" {
		c.Site.PromptHost = "c0derhin0-wp.com"
	}
	builtin := make(map[string]bool, len(Builtins))
	for _, name := range Builtins {
		builtin[name] = true
	}
	c.commands = make(map[string]Command)
	for ci := range c.Categories {
		cat := &c.Categories[ci]
		for i := range cat.Commands {
			cmd := &cat.Commands[i]
			name := strings.ToLower(strings.Join(strings.Fields(cmd.Name), " "))
			if name == "" {
				return fmt.Errorf("%w: command without a name in %q", schema.ErrInvalidContent, cat.Label)
			}
			if _, dup := c.commands[name]; dup {
				return fmt.Errorf("%w: duplicate command %q", schema.ErrInvalidContent, name)
			}
			if cmd.Builtin && !builtin[name] {
				return fmt.Errorf("%w: unknown builtin %q", schema.ErrInvalidContent, name)
			}
			if !cmd.Builtin && builtin[name] {
				return fmt.Errorf("%w: %q is reserved for a builtin", schema.ErrInvalidContent, name)
			}
			style, ok := schema.NormalizeStyle(string(cmd.Style))
			if !ok {
				return fmt.Errorf("%w: command %q has unknown style %q", schema.ErrInvalidContent, name, cmd.Style)
			}
			effect, ok := schema.NormalizeEffect(string(cmd.Effect))
			if !ok {
				return fmt.Errorf("%w: command %q has unknown effect %q", schema.ErrInvalidContent, name, cmd.Effect)
			}
			for _, link := range cmd.Links {
				if link.Match == "" || link.URL == "" {
					return fmt.Errorf("%w: command %q has an incomplete link", schema.ErrInvalidContent, name)
				}
			}
			cmd.Name = name
			cmd.Style = style
			cmd.Effect = effect
			c.commands[name] = *cmd
		}
	}

	c.dirs = make(map[schema.DirName]Directory, len(c.Directories))
	for _, dir := range c.Directories {
		if _, ok := schema.LookupDir(string(dir.Name)); !ok {
			return fmt.Errorf("%w: unknown directory %q", schema.ErrInvalidContent, dir.Name)
		}
		c.dirs[dir.Name] = dir
	}
	for _, name := range schema.Dirs() {
		dir, ok := c.dirs[name]
		if !ok {
			c.dirs[name] = Directory{Name: name}
			continue
		}
		for _, file := range dir.Runnable {
			if _, ok := c.Files[file]; !ok {
				return fmt.Errorf("%w: runnable %q in %q has no file entry", schema.ErrInvalidContent, file, name)
			}
		}
	}

	for name, file := range c.Files {
		effect, ok := schema.NormalizeEffect(string(file.Effect))
		if !ok {
			return fmt.Errorf("%w: file %q has unknown effect %q", schema.ErrInvalidContent, name, file.Effect)
		}
		file.Effect = effect
		c.Files[name] = file
	}
	return nil
}

// Command looks up a command by its lowercased name.
func (c *Catalog) Command(name string) (Command, bool) {
	cmd, ok := c.commands[name]
	return cmd, ok
}

// Commands returns all commands in declared order.
func (c *Catalog) Commands() []Command {
	var out []Command
	for _, cat := range c.Categories {
		out = append(out, cat.Commands...)
	}
	return out
}

// Directory returns the named directory. Every fixed directory exists.
func (c *Catalog) Directory(name schema.DirName) Directory {
	if dir, ok := c.dirs[name]; ok {
		return dir
	}
	return Directory{Name: name}
}

// File returns the run target with the given name.
func (c *Catalog) File(name string) (File, bool) {
	file, ok := c.Files[name]
	return file, ok
}

// Lines splits file content into display lines without the trailing newline.
func (f File) Lines() []string {
	text := strings.TrimRight(strings.ReplaceAll(f.Content, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Spans locates link matches in line. Longer matches claim their range
// first; a match overlapping a claimed range is skipped to the next occurrence.
func Spans(line string, links []Link) []Span {
	if len(links) == 0 || line == "" {
		return nil
	}
	ordered := append([]Link(nil), links...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Match) > len(ordered[j].Match)
	})
	var spans []Span
	for _, link := range ordered {
		from := 0
		for from < len(line) {
			idx := strings.Index(line[from:], link.Match)
			if idx < 0 {
				break
			}
			byteStart := from + idx
			start := utf8.RuneCountInString(line[:byteStart])
			end := start + utf8.RuneCountInString(link.Match)
			if !overlaps(spans, start, end) {
				spans = append(spans, Span{Start: start, End: end, URL: link.URL})
				break
			}
			from = byteStart + len(link.Match)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

func overlaps(spans []Span, start, end int) bool {
	for _, s := range spans {
		if start < s.End && s.Start < end {
			return true
		}
	}
	return false
}
