// Package cli runs a tree of commands with typed flags. Handlers return errors; Run maps them to exit codes (0 ok, 1 failure, 2 usage).
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// RunFunc is a command handler.
type RunFunc func(c *Context) error

// ArgsFunc validates positional args. It should return a UsageError for user-facing mistakes.
type ArgsFunc func(args []string) error

// Command is one node of a command tree.
type Command struct {
	// Name is the token that selects this command (e.g. "diff" in "richsync diff").
	Name string

	Short   string
	Long    string
	Example string

	Args ArgsFunc // optional
	Run  RunFunc  // optional; a command without Run requires a subcommand

	parent   *Command
	children []*Command
	flags    *FlagSet
}

// AddCommand attaches children to c.
func (c *Command) AddCommand(children ...*Command) {
	for _, child := range children {
		if child == nil || child.Name == "" {
			panic("cli: AddCommand needs a named child")
		}
		if child.parent != nil {
			panic("cli: AddCommand called with a child already attached to a parent")
		}
		child.parent = c
		c.children = append(c.children, child)
	}
}

// Flags returns c's flags.
func (c *Command) Flags() *FlagSet {
	if c.flags == nil {
		c.flags = newFlagSet()
	}
	return c.flags
}

func (c *Command) child(token string) *Command {
	for _, child := range c.children {
		if child.Name == token {
			return child
		}
	}
	return nil
}

// path returns the command names from the root to c.
func (c *Command) path() string {
	var names []string
	for cur := c; cur != nil; cur = cur.parent {
		names = append([]string{cur.Name}, names...)
	}
	return strings.Join(names, " ")
}

// Options configure Run.
type Options struct {
	// Args is the argv excluding the program name (typically os.Args[1:]).
	Args []string

	// In/Out/Err override standard I/O. If nil, defaults are used.
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Context is passed to a command handler. Flag values are read through the pointers returned when the flags were defined.
type Context struct {
	context.Context

	Command *Command
	Args    []string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

var errHelpPrinted = errors.New("help printed")

// Run executes root as a CLI program and returns a process exit code.
func Run(ctx context.Context, root *Command, opts Options) int {
	if root == nil || root.Name == "" {
		panic("cli: Run needs a named root")
	}
	in, out, errOut := opts.In, opts.Out, opts.Err
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	cmd, args, err := parse(root, opts.Args, out)
	if errors.Is(err, errHelpPrinted) {
		return 0
	}
	if err == nil && cmd.Run == nil {
		if len(args) == 0 {
			err = usageErrorf("missing required subcommand")
		} else {
			err = usageErrorf("unknown subcommand: %s", args[0])
		}
	}
	if err == nil && cmd.Args != nil {
		err = cmd.Args(args)
		var ec ExitCoder
		if err != nil && !errors.As(err, &ec) {
			err = UsageError{Message: err.Error()}
		}
	}
	if err == nil {
		err = cmd.Run(&Context{Context: ctx, Command: cmd, Args: args, In: in, Out: out, Err: errOut})
	}
	return exitCode(cmd, err, errOut)
}

func exitCode(cmd *Command, err error, errOut io.Writer) int {
	if err == nil {
		return 0
	}
	code := 1
	var ec ExitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	switch code {
	case 0:
	case 2:
		fmt.Fprintln(errOut, err.Error())
		fmt.Fprintln(errOut)
		writeHelp(errOut, cmd)
	default:
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
		}
	}
	return code
}

// parse selects the command named by the leading non-flag tokens and sets flags. Flags apply to the command selected so far.
func parse(root *Command, argv []string, out io.Writer) (*Command, []string, error) {
	cmd := root
	selecting := true
	var positional []string

	for i := 0; i < len(argv); i++ {
		token := argv[i]
		switch {
		case token == "--":
			return cmd, append(positional, argv[i+1:]...), nil
		case token == "-h" || token == "--help":
			writeHelp(out, cmd)
			return cmd, nil, errHelpPrinted
		case strings.HasPrefix(token, "-") && token != "-":
			var next *string
			if i+1 < len(argv) {
				next = &argv[i+1]
			}
			consumed, err := cmd.Flags().parse(token, next)
			if err != nil {
				return cmd, nil, err
			}
			if consumed {
				i++
			}
		default:
			if selecting {
				if child := cmd.child(token); child != nil {
					cmd = child
					continue
				}
				selecting = false
			}
			positional = append(positional, token)
		}
	}
	return cmd, positional, nil
}
