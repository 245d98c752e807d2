// Package cli is the interactive terminal front end of the design editor.
// It drives one editor workspace through a readline prompt.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"room-planner/internal/editor"
)

// ErrExit is returned by ExecuteCommand when the user asks to quit.
var ErrExit = errors.New("exit requested")

type CLI struct {
	ws     *editor.Workspace
	out    io.Writer
	now    func() time.Time
	Prompt string
}

func NewCLI(ws *editor.Workspace, out io.Writer) *CLI {
	c := &CLI{ws: ws, out: out, now: time.Now}
	c.UpdatePrompt()
	return c
}

// Run reads and executes one line.
func (c *CLI) Run(rl *readline.Instance) error {
	line, err := rl.Readline()
	if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	return c.ExecuteCommand(c.ParseArgs(line))
}

// ExecuteScript runs every line of a file, stopping at the first error.
func (c *CLI) ExecuteScript(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := c.ExecuteCommand(c.ParseArgs(line)); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
	}
	return sc.Err()
}

// UpdatePrompt shows the current design name, with a star when it
// differs from its saved copy.
func (c *CLI) UpdatePrompt() {
	d := c.ws.Store.CurrentDesign()
	if d == nil {
		c.Prompt = "> "
		return
	}
	mark := ""
	if saved, ok := c.ws.Store.SavedDesign(d.ID); !ok || !saved.UpdatedAt.Equal(d.UpdatedAt) {
		mark = "*"
	}
	c.Prompt = fmt.Sprintf("%s%s> ", d.Name, mark)
}

// ParseArgs splits input on spaces; double quotes group words.
func (c *CLI) ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch {
		case char == '"':
			inQuotes = !inQuotes
			quoted = true
		case (char == ' ' || char == '\t') && !inQuotes:
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}
	return args
}

func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}
	defer c.UpdatePrompt()

	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "new":
		return c.handleNew(rest)
	case "ls", "list":
		return c.handleList(rest)
	case "show":
		return c.handleShow(rest)
	case "load":
		return c.handleLoad(rest)
	case "save":
		return c.handleSave(rest)
	case "dup":
		return c.handleDuplicate(rest)
	case "rm":
		return c.handleRemoveDesign(rest)
	case "info":
		return c.handleInfo(rest)
	case "add":
		return c.handleAdd(rest)
	case "place":
		return c.handlePlace(rest)
	case "set":
		return c.handleSet(rest)
	case "del":
		return c.handleDeleteElement(rest)
	case "move":
		return c.handleMove(rest)
	case "resize":
		return c.handleResize(rest)
	case "rotate":
		return c.handleRotate(rest)
	case "select":
		return c.handleSelect(rest)
	case "view":
		return c.handleView(rest)
	case "stats":
		return c.handleStats(rest)
	case "templates":
		return c.handleTemplates(rest)
	case "use":
		return c.handleUseTemplate(rest)
	case "palette":
		return c.handlePalette(rest)
	case "settings":
		return c.handleSettings(rest)
	case "render":
		return c.handleRender(rest)
	case "export":
		return c.handleExport(rest)
	case "import":
		return c.handleImport(rest)
	case "help":
		return c.handleHelp(rest)
	case "exit", "quit":
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (c *CLI) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *CLI) handleHelp(args []string) error {
	if len(args) == 0 {
		names := make([]string, 0, len(commandHelp))
		for name := range commandHelp {
			names = append(names, name)
		}
		slices.Sort(names)
		c.printf("Available commands:\n")
		for _, name := range names {
			c.printf("  %s\n", name)
		}
		c.printf("\nUse 'help <command>' for more information about a specific command.\n")
		return nil
	}
	help, ok := commandHelp[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	c.printf("%s\n", help)
	return nil
}

// commandHelp contains help text for each command.
var commandHelp = map[string]string{
	"new": `Syntax: new <name> [room:<width>x<length>[cm|inch]]
Description: Starts a new empty design and makes it current. It is not saved until 'save'.
Example: new "Guest Room" room:400x350cm`,

	"ls": `Syntax: ls [query] [--sort name|created|updated|elements] [--order asc|desc] [--category <c>] [--recent] [--templates]
Description: Lists saved designs. The number in the first column can be used instead of an id.
Example: ls bed --sort name --order asc`,

	"show": `Syntax: show
Description: Prints the elements of the current design in z-order.`,

	"load": `Syntax: load <#|id>
Description: Makes a copy of a saved design the current design and clears the selection.`,

	"save": `Syntax: save
Description: Saves the current design, replacing the saved copy with the same id.`,

	"dup": `Syntax: dup <#|id>
Description: Adds a copy of a saved design, named "<name> Copy", to the top of the list.`,

	"rm": `Syntax: rm <#|id>
Description: Removes a saved design. The current design is cleared when it has the same id.`,

	"info": `Syntax: info [name:<n>] [description:<d>] [category:<c>] [room:<w>x<l>[cm|inch]]
Description: Shows or edits the current design's metadata.`,

	"add": `Syntax: add <type> <x> <y> <width> <height> [name] [color:<c>] [opacity:<0..1>] [rotation:<deg>] [furniture:<t>] [locked:true]
Description: Adds an element to the current design.
Example: add sofa 10 20 200 90 "Corner Sofa" color:#777 furniture:sofa`,

	"place": `Syntax: place <palette-id> <x> <y>
Description: Adds a palette item at the given position. See 'palette'.`,

	"set": `Syntax: set <#|id> <field>:<value>...
Description: Updates element fields: name, type, furniture, x, y, width, height, rotation, opacity, color, locked.
Example: set 2 color:#ff0000 opacity:0.5`,

	"del": `Syntax: del <#|id>
Description: Deletes an element from the current design.`,

	"move": `Syntax: move <#|id> <dx> <dy>
Description: Moves an element by an offset. Locked elements cannot be moved.`,

	"resize": `Syntax: resize <#|id> <width> <height>
Description: Sets an element's size. Locked elements cannot be resized.`,

	"rotate": `Syntax: rotate <#|id> <degrees>
Description: Sets an element's rotation. Locked elements cannot be rotated.`,

	"select": `Syntax: select [#|id]
Description: Selects an element, or clears the selection without arguments.`,

	"view": `Syntax: view [2d|3d]
Description: Shows or sets the view mode.`,

	"stats": `Syntax: stats
Description: Prints totals over the saved designs.`,

	"templates": `Syntax: templates
Description: Lists the built-in room templates.`,

	"use": `Syntax: use <template-id>
Description: Starts a new design from a template. Example: use bedroom`,

	"palette": `Syntax: palette [category]
Description: Lists the furniture palette with category counts.`,

	"settings": `Syntax: settings [reset | <field> <value>]
Description: Shows or changes settings: theme (light|dark|auto), unit (feet|meters), grid, snap, autosave (on|off).`,

	"render": `Syntax: render <file.svg>
Description: Writes the current design as a 2D SVG plan.`,

	"export": `Syntax: export <file.json>
Description: Writes the current design as JSON.`,

	"import": `Syntax: import <file.svg> [name]
Description: Builds a new current design from an SVG floor plan.`,

	"help": `Syntax: help [command]
Description: Shows help.`,

	"exit": `Syntax: exit
Description: Leaves the editor. 'quit' works too.`,
}
