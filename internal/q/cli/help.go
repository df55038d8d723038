package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

func writeHelp(w io.Writer, cmd *Command) {
	if cmd.Short != "" {
		fmt.Fprintf(w, "%s - %s\n", cmd.path(), cmd.Short)
	} else {
		fmt.Fprintf(w, "%s\n", cmd.path())
	}
	if cmd.Long != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimRight(cmd.Long, "\n"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", usageLine(cmd))

	if len(cmd.children) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Commands:")
		children := append([]*Command(nil), cmd.children...)
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		for _, child := range children {
			fmt.Fprintf(w, "  %s\t%s\n", child.Name, child.Short)
		}
	}

	if flags := cmd.flags.sorted(); len(flags) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		for _, d := range flags {
			fmt.Fprintln(w, d.helpLine())
		}
	}

	if cmd.Example != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Example:")
		for _, line := range strings.Split(strings.TrimRight(cmd.Example, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func usageLine(cmd *Command) string {
	segments := []string{cmd.path()}
	if len(cmd.flags.sorted()) > 0 {
		segments = append(segments, "[flags]")
	}
	if len(cmd.children) > 0 {
		if cmd.Run == nil {
			segments = append(segments, "<command>")
		} else {
			segments = append(segments, "[command]")
		}
	}
	if cmd.Run != nil {
		segments = append(segments, "[args]")
	}
	return strings.Join(segments, " ")
}
