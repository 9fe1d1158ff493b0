package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/midbel/cli"
	"github.com/midbel/gridcalc/config"
	"github.com/midbel/gridcalc/workbench"
)

var errFail = errors.New("fail")

var (
	summary = "gridcalc"
	help    = "evaluate and edit spreadsheets stored as csv, xlsx, sqlite or automerge files"
)

var (
	settingsFile string
	verbose      bool
)

func main() {
	var (
		set  = cli.NewFlagSet("gridcalc")
		root = prepare()
	)
	set.StringVar(&settingsFile, "config", "", "settings file")
	set.BoolVar(&verbose, "v", false, "verbose")
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"eval"}, &evalCmd)
	root.Register([]string{"get"}, &getCmd)
	root.Register([]string{"set"}, &setCmd)
	root.Register([]string{"copy"}, &copyCmd)
	root.Register([]string{"convert"}, &convertCmd)
	root.Register([]string{"info"}, &infoCmd)
	root.Register([]string{"edit"}, &editCmd)

	return root
}

var evalCmd = cli.Command{
	Name:    "eval",
	Alias:   []string{"print", "show"},
	Summary: "recalculate a sheet and print its displayed values",
	Usage:   "eval [-w width] [-s sep] [-n] [-r] [-c columns] <file>",
	Handler: &PrintSheetCommand{},
}

var getCmd = cli.Command{
	Name:    "get",
	Summary: "print the displayed value of one or more cells",
	Usage:   "get [-r] [-d] <file> <cell> [<cell>,...]",
	Handler: &GetCellCommand{},
}

var copyCmd = cli.Command{
	Name:    "copy",
	Alias:   []string{"yank"},
	Summary: "copy a range of cells as tab separated lines",
	Usage:   "copy [-m formula|value] [-c] <file> <range>",
	Handler: &CopyRangeCommand{},
}

var setCmd = cli.Command{
	Name:    "set",
	Summary: "set the raw text of one or more cells and save the file",
	Usage:   "set [-o file] <file> <cell>=<text> [<cell>=<text>,...]",
	Handler: &SetCellCommand{},
}

var convertCmd = cli.Command{
	Name:    "convert",
	Alias:   []string{"export"},
	Summary: "convert a sheet to another format",
	Usage:   "convert <file> <file>",
	Handler: &ConvertFileCommand{},
}

var infoCmd = cli.Command{
	Name:    "info",
	Summary: "get informations about a sheet",
	Usage:   "info [-f] [<file>]",
	Handler: &GetInfoCommand{},
}

var editCmd = cli.Command{
	Name:    "edit",
	Alias:   []string{"open"},
	Summary: "open the terminal workbench",
	Usage:   "edit [<file>]",
	Handler: &EditFileCommand{},
}

func loadSettings() (config.Settings, string, error) {
	file := settingsFile
	if file == "" {
		f, err := config.Path()
		if err != nil {
			return config.Default(), "", nil
		}
		file = f
	}
	s, err := config.Load(file)
	return s, file, err
}

func createLogger(s config.Settings) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := slog.HandlerOptions{
		Level: level,
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &opts))
}

// openWorkbench creates a session configured from the settings of the user.
// The session is empty when file is empty.
func openWorkbench(file string, remember bool) (*workbench.Workbench, error) {
	settings, where, err := loadSettings()
	if err != nil {
		return nil, err
	}
	options := []workbench.Option{
		workbench.WithLogger(createLogger(settings)),
	}
	if remember {
		options = append(options, workbench.WithSettingsFile(where))
	}
	wb, err := workbench.New(settings, options...)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return wb, nil
	}
	return wb, wb.Open(file)
}

func splitAssignment(str string) (string, string, error) {
	addr, raw, ok := strings.Cut(str, "=")
	if !ok || addr == "" {
		return "", "", fmt.Errorf("%s: expected <cell>=<text>", str)
	}
	return strings.TrimSpace(addr), raw, nil
}
