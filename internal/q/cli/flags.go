package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type flagKind string

const (
	flagBool     flagKind = "bool"
	flagString   flagKind = "string"
	flagInt      flagKind = "int"
	flagDuration flagKind = "duration"
)

// FlagSet is a typed flag registry for a command. Flags are given as --name value, --name=value, or -s value for a shorthand.
type FlagSet struct {
	defs []*flagDef
}

type flagDef struct {
	name      string
	shorthand rune
	usage     string
	kind      flagKind
	set       func(raw string) error
}

func newFlagSet() *FlagSet {
	return &FlagSet{}
}

func (fs *FlagSet) Bool(name string, shorthand rune, def bool, usage string) *bool {
	ptr := &def
	fs.add(name, shorthand, usage, flagBool, func(raw string) error {
		v, err := strconv.ParseBool(raw)
		*ptr = v
		return err
	})
	return ptr
}

func (fs *FlagSet) String(name string, shorthand rune, def string, usage string) *string {
	ptr := &def
	fs.add(name, shorthand, usage, flagString, func(raw string) error {
		*ptr = raw
		return nil
	})
	return ptr
}

func (fs *FlagSet) Int(name string, shorthand rune, def int, usage string) *int {
	ptr := &def
	fs.add(name, shorthand, usage, flagInt, func(raw string) error {
		v, err := strconv.Atoi(raw)
		*ptr = v
		return err
	})
	return ptr
}

func (fs *FlagSet) Duration(name string, shorthand rune, def time.Duration, usage string) *time.Duration {
	ptr := &def
	fs.add(name, shorthand, usage, flagDuration, func(raw string) error {
		v, err := time.ParseDuration(raw)
		*ptr = v
		return err
	})
	return ptr
}

func (fs *FlagSet) add(name string, shorthand rune, usage string, kind flagKind, set func(string) error) {
	if name == "" {
		panic("cli: flag name must be non-empty")
	}
	for _, d := range fs.defs {
		if d.name == name || (shorthand != 0 && d.shorthand == shorthand) {
			panic("cli: duplicate flag: --" + name)
		}
	}
	fs.defs = append(fs.defs, &flagDef{name: name, shorthand: shorthand, usage: usage, kind: kind, set: set})
}

func (fs *FlagSet) lookup(token string) (*flagDef, *string) {
	var name string
	var shorthand rune
	var value *string
	body := strings.TrimLeft(token, "-")
	if i := strings.IndexByte(body, '='); i >= 0 {
		v := body[i+1:]
		value = &v
		body = body[:i]
	}
	if strings.HasPrefix(token, "--") || len([]rune(body)) > 1 {
		name = body
	} else if body != "" {
		shorthand = []rune(body)[0]
	}
	for _, d := range fs.defs {
		if (name != "" && d.name == name) || (shorthand != 0 && d.shorthand == shorthand) {
			return d, value
		}
	}
	return nil, value
}

// parse sets the flag named by token, reading its value from next if needed. It reports whether next was consumed.
func (fs *FlagSet) parse(token string, next *string) (bool, error) {
	def, value := fs.lookup(token)
	if def == nil {
		return false, usageErrorf("unknown flag: %s", token)
	}

	consumed := false
	raw := ""
	switch {
	case value != nil:
		raw = *value
	case def.kind == flagBool:
		raw = "true"
		if next != nil {
			if _, err := strconv.ParseBool(*next); err == nil {
				raw, consumed = *next, true
			}
		}
	case next == nil || *next == "--":
		return false, usageErrorf("flag needs a value: %s", token)
	default:
		raw, consumed = *next, true
	}

	if err := def.set(raw); err != nil {
		return false, usageErrorf("invalid value for --%s: %v", def.name, err)
	}
	return consumed, nil
}

func (fs *FlagSet) sorted() []*flagDef {
	if fs == nil {
		return nil
	}
	out := append([]*flagDef(nil), fs.defs...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (d *flagDef) helpLine() string {
	names := "    --" + d.name
	if d.shorthand != 0 {
		names = fmt.Sprintf("-%c, --%s", d.shorthand, d.name)
	}
	if d.kind != flagBool {
		names += " <" + string(d.kind) + ">"
	}
	if usage := strings.TrimSpace(d.usage); usage != "" {
		return "  " + names + "\t" + usage
	}
	return "  " + names
}
