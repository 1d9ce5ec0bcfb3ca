// Package cli parses the photosort command line: an action word followed by
// --flag=value pairs and positional directories, exactly as
// bleemesser-photosort/util/cli.go's formatArgs/validateArgs did, but
// generalized from that tool's fixed create/import/sync/update action set
// to this one's import/organize/sync/check set and the flags catalog §6
// names (--trash, --force, --validate, --fix).
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bleemesser/photosort/internal/organizer"
)

var flagPattern = regexp.MustCompile(`^--[^=]+=.*$`)

// Args is the raw parse of the command line: an action, a set of --key=value
// flags, and the remaining positional arguments. Kept separate from Command
// so formatArgs stays a pure, validation-free syntactic pass, matching the
// teacher's split between formatArgs and validateArgs.
type Args struct {
	Action string
	flags  map[string]string
	dirs   []string
}

func (a Args) String() string {
	return fmt.Sprintf("Action: %s\nFlags: %v\nDirs: %v", a.Action, a.flags, a.dirs)
}

// GetFlag returns the value of a --key=value flag, or "" if not present.
func (a Args) GetFlag(key string) string { return a.flags[key] }

// HasFlag reports whether a bare --key flag (no value) was given.
func (a Args) HasFlag(key string) bool {
	v, ok := a.flags[key]
	return ok && v == ""
}

// formatArgs splits os.Args (or an equivalent slice) into an action word,
// --key=value flags, and bare directory arguments. Values containing "="
// are rejoined, so --trash=/mnt/a=b survives intact.
func formatArgs(argv []string) Args {
	var a Args
	a.flags = make(map[string]string)

	if len(argv) < 2 {
		return a
	}
	a.Action = argv[1]
	for _, arg := range argv[2:] {
		switch {
		case flagPattern.MatchString(arg):
			parts := strings.SplitN(arg, "=", 2)
			a.flags[parts[0][2:]] = parts[1]
		case strings.HasPrefix(arg, "--"):
			a.flags[arg[2:]] = ""
		case strings.HasPrefix(arg, "-") && arg != "-":
			a.flags[strings.TrimLeft(arg, "-")] = ""
		default:
			a.dirs = append(a.dirs, arg)
		}
	}
	return a
}

// Command is a fully validated, ready-to-run invocation: absolute paths,
// parsed validation/fix sets, everything formatArgs' caller needs without
// re-touching the flag map.
type Command struct {
	Action string

	Source string
	Dest   string
	Trash  string

	Force      bool
	Verbose    bool
	Validation organizer.ValidationConfig
	Fix        organizer.MetadataUpdateConfig
}

// Parse parses and validates argv (pass os.Args), returning a ready Command.
// Mirrors the teacher's NewArgs(os.Args) entry point.
func Parse(argv []string) (Command, error) {
	a := formatArgs(argv)
	return validate(a)
}

func validate(a Args) (Command, error) {
	if a.Action == "" {
		return Command{}, errors.New("no action specified; usage: photosort <import|organize|sync|check> ...")
	}

	var cmd Command
	cmd.Action = a.Action
	cmd.Verbose = a.HasFlag("v") || a.HasFlag("vv")

	switch a.Action {
	case "import":
		if len(a.dirs) != 1 {
			return Command{}, errors.New("usage: photosort import <source_dir> [--trash=dir]")
		}
		src, err := existingAbsDir(a.dirs[0])
		if err != nil {
			return Command{}, err
		}
		cmd.Source = src
		cmd.Trash = a.GetFlag("trash")

	case "organize":
		if len(a.dirs) != 2 {
			return Command{}, errors.New("usage: photosort organize <source_dir> <dest_dir> [--trash=dir] [--force] [--validate=...] [--fix=...]")
		}
		src, err := existingAbsDir(a.dirs[0])
		if err != nil {
			return Command{}, err
		}
		dst, err := absDir(a.dirs[1])
		if err != nil {
			return Command{}, err
		}
		cmd.Source = src
		cmd.Dest = dst
		cmd.Trash = a.GetFlag("trash")
		cmd.Force = a.HasFlag("force")
		cmd.Validation = parseValidation(a.GetFlag("validate"))
		cmd.Fix = parseFix(a.GetFlag("fix"))

	case "sync":
		if len(a.dirs) != 2 {
			return Command{}, errors.New("usage: photosort sync <library_dir1> <library_dir2>")
		}
		first, err := existingAbsDir(a.dirs[0])
		if err != nil {
			return Command{}, err
		}
		second, err := existingAbsDir(a.dirs[1])
		if err != nil {
			return Command{}, err
		}
		cmd.Source = first
		cmd.Dest = second

	case "check":
		if len(a.dirs) != 1 {
			return Command{}, errors.New("usage: photosort check <source_dir>")
		}
		src, err := existingAbsDir(a.dirs[0])
		if err != nil {
			return Command{}, err
		}
		cmd.Source = src
		cmd.Trash = a.GetFlag("trash")
		cmd.Validation = parseValidation(a.GetFlag("validate"))
		if !cmd.Validation.Enabled() {
			cmd.Validation = organizer.ValidationConfig{Attribution: true, Camera: true, DateTime: true, Location: true}
		}

	case "help":
		printUsage()
		os.Exit(0)

	default:
		return Command{}, fmt.Errorf("invalid action %q", a.Action)
	}

	return cmd, nil
}

func existingAbsDir(dir string) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("directory %s does not exist", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return abs, nil
}

func absDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return abs, nil
}

func parseValidation(spec string) organizer.ValidationConfig {
	var c organizer.ValidationConfig
	if spec == "" {
		return c
	}
	if spec == "all" {
		return organizer.ValidationConfig{Attribution: true, Camera: true, DateTime: true, Location: true}
	}
	for _, part := range strings.Split(spec, ",") {
		switch strings.TrimSpace(part) {
		case "attribution":
			c.Attribution = true
		case "camera":
			c.Camera = true
		case "datetime":
			c.DateTime = true
		case "location":
			c.Location = true
		}
	}
	return c
}

func parseFix(spec string) organizer.MetadataUpdateConfig {
	var c organizer.MetadataUpdateConfig
	if spec == "" {
		return c
	}
	if spec == "all" {
		return organizer.MetadataUpdateConfig{AlignMWGTags: true, SetCopyrightFromCreator: true, SetLocationFromGPS: true, SetTimeZoneFromGPS: true}
	}
	for _, part := range strings.Split(spec, ",") {
		switch strings.TrimSpace(part) {
		case "mwg":
			c.AlignMWGTags = true
		case "copyright":
			c.SetCopyrightFromCreator = true
		case "location":
			c.SetLocationFromGPS = true
		case "timezone":
			c.SetTimeZoneFromGPS = true
		}
	}
	return c
}

func printUsage() {
	fmt.Println("Usage: photosort import <source_dir> [--trash=dir]")
	fmt.Println("Usage: photosort organize <source_dir> <dest_dir> [--trash=dir] [--force] [--validate=attribution,camera,datetime,location|all] [--fix=mwg,copyright,location,timezone|all]")
	fmt.Println("Usage: photosort sync <library_dir1> <library_dir2>")
	fmt.Println("Usage: photosort check <source_dir> [--validate=...]")
}
