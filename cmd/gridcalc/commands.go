package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/midbel/cli"
	"github.com/midbel/gridcalc/doc"
	"github.com/midbel/gridcalc/formula"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/oxml"
	"github.com/midbel/gridcalc/ui"
	"github.com/midbel/gridcalc/value"
)

type PrintSheetCommand struct {
	Width   int
	Sep     string
	Lino    bool
	Raw     bool
	Columns string
}

func (c PrintSheetCommand) Run(args []string) error {
	set := cli.NewFlagSet("eval")
	set.IntVar(&c.Width, "w", 12, "column width")
	set.StringVar(&c.Sep, "s", "|", "column separator")
	set.BoolVar(&c.Lino, "n", false, "print line number")
	set.BoolVar(&c.Raw, "r", false, "print raw text instead of displayed values")
	set.StringVar(&c.Columns, "c", "", "columns to print (A:C;E)")
	if err := set.Parse(args); err != nil {
		return err
	}
	wb, err := openWorkbench(set.Arg(0), false)
	if err != nil {
		return err
	}
	return c.printSheet(os.Stdout, wb.Sheet())
}

func (c PrintSheetCommand) selectColumns(rg *layout.Range) ([]int, error) {
	if c.Columns == "" {
		return layout.SelectSpan(-1, -1, 1).Indices(rg), nil
	}
	sel, err := layout.SelectionFromString(c.Columns)
	if err != nil {
		return nil, err
	}
	return sel.Indices(rg), nil
}

func (c PrintSheetCommand) printSheet(w io.Writer, sheet *grid.Sheet) error {
	if c.Width <= 0 {
		c.Width = 12
	}
	rg := sheet.Bounds()
	if rg == nil {
		return nil
	}
	columns, err := c.selectColumns(rg)
	if err != nil {
		return err
	}
	get := sheet.Displayed
	if c.Raw {
		get = sheet.Raw
	}
	for i := 0; i <= rg.Ends.Line; i++ {
		if c.Lino {
			fmt.Fprintf(w, "%-5d ", i+1)
			fmt.Fprint(w, c.Sep)
		}
		for j, col := range columns {
			if j > 0 {
				fmt.Fprint(w, c.Sep)
			}
			fmt.Fprintf(w, " %-*s ", c.Width, get(layout.NewPosition(i, col)))
		}
		fmt.Fprintln(w)
	}
	return nil
}

type GetCellCommand struct {
	Raw  bool
	Deps bool
}

func (c GetCellCommand) Run(args []string) error {
	set := cli.NewFlagSet("get")
	set.BoolVar(&c.Raw, "r", false, "print raw text instead of displayed values")
	set.BoolVar(&c.Deps, "d", false, "print the cells a formula depends on")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() < 2 {
		return fmt.Errorf("invalid number of arguments")
	}
	wb, err := openWorkbench(set.Arg(0), false)
	if err != nil {
		return err
	}
	sheet := wb.Sheet()
	for _, addr := range set.Args()[1:] {
		pos, err := layout.ParsePosition(addr)
		if err != nil {
			return err
		}
		str := sheet.Displayed(pos)
		if c.Raw {
			str = sheet.Raw(pos)
		}
		fmt.Fprintf(os.Stdout, "%s\t%s", pos.Addr(), str)
		if c.Deps {
			fmt.Fprintf(os.Stdout, "\t%s", dependencies(sheet.Raw(pos)))
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func dependencies(raw string) string {
	if !value.IsFormula(raw) {
		return ""
	}
	expr, err := formula.ParseFormula(raw)
	if err != nil {
		return value.ErrSyntax.Code()
	}
	var list []string
	for _, pos := range formula.References(expr) {
		list = append(list, pos.Addr())
	}
	return strings.Join(list, ",")
}

type CopyRangeCommand struct {
	Mode      string
	Clipboard bool
}

func (c CopyRangeCommand) Run(args []string) error {
	set := cli.NewFlagSet("copy")
	set.StringVar(&c.Mode, "m", "formula", "copy mode (formula, value)")
	set.BoolVar(&c.Clipboard, "c", false, "copy to the system clipboard")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("invalid number of arguments")
	}
	mode, err := grid.CopyModeFromString(c.Mode)
	if err != nil {
		return err
	}
	rg, err := layout.ParseRange(set.Arg(1))
	if err != nil {
		return err
	}
	wb, err := openWorkbench(set.Arg(0), false)
	if err != nil {
		return err
	}
	text := wb.Copy(rg, mode)
	if c.Clipboard {
		return clipboard.WriteAll(text)
	}
	fmt.Fprintln(os.Stdout, text)
	return nil
}

type SetCellCommand struct {
	OutFile string
}

func (c SetCellCommand) Run(args []string) error {
	set := cli.NewFlagSet("set")
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() < 2 {
		return fmt.Errorf("invalid number of arguments")
	}
	wb, err := openWorkbench(set.Arg(0), false)
	if err != nil {
		return err
	}
	for _, str := range set.Args()[1:] {
		addr, raw, err := splitAssignment(str)
		if err != nil {
			return err
		}
		pos, err := layout.ParsePosition(addr)
		if err != nil {
			return err
		}
		if err := wb.Edit(pos, raw); err != nil {
			return err
		}
	}
	if c.OutFile == "" {
		c.OutFile = set.Arg(0)
	}
	return wb.SaveAs(c.OutFile)
}

type ConvertFileCommand struct{}

func (c ConvertFileCommand) Run(args []string) error {
	set := cli.NewFlagSet("convert")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("invalid number of arguments")
	}
	wb, err := openWorkbench(set.Arg(0), false)
	if err != nil {
		return err
	}
	return wb.SaveAs(set.Arg(1))
}

type GetInfoCommand struct {
	Functions bool
}

func (c GetInfoCommand) Run(args []string) error {
	set := cli.NewFlagSet("info")
	set.BoolVar(&c.Functions, "f", false, "list available functions")
	if err := set.Parse(args); err != nil {
		return err
	}
	if c.Functions {
		for _, name := range formula.Functions() {
			fmt.Fprintln(os.Stdout, name)
		}
		return nil
	}
	file := set.Arg(0)
	if f, _ := doc.Detect(file); f == doc.OXML {
		if err := printWorksheets(file); err != nil {
			return err
		}
	}
	wb, err := openWorkbench(file, false)
	if err != nil {
		return err
	}
	var (
		rpt    = wb.Recalculate()
		sheet  = wb.Sheet()
		size   = sheet.Size()
		bounds = "empty"
	)
	if rg := sheet.Bounds(); rg != nil {
		bounds = rg.String()
	}
	fmt.Fprintf(os.Stdout, "%s: %d lines, %d columns - %s", sheet.Name(), size.Lines, size.Columns, bounds)
	fmt.Fprintln(os.Stdout)
	fmt.Fprintf(os.Stdout, "%d cells, %d formulas, %d errors", rpt.Cells, rpt.Formulas, rpt.Failed())
	fmt.Fprintln(os.Stdout)
	for _, f := range rpt.Failures {
		fmt.Fprintf(os.Stdout, "- %s: %s (%s)", f.Addr(), value.Code(f.Err), sheet.Raw(f.Position))
		fmt.Fprintln(os.Stdout)
	}
	if rpt.Failed() > 0 {
		return errFail
	}
	return nil
}

func printWorksheets(file string) error {
	infos, err := oxml.Sheets(file)
	if err != nil {
		return err
	}
	for _, s := range infos {
		active := " "
		if s.Active {
			active = "*"
		}
		fmt.Fprintf(os.Stdout, "%d %s%s", s.Index, active, s.Name)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

type EditFileCommand struct{}

func (c EditFileCommand) Run(args []string) error {
	set := cli.NewFlagSet("edit")
	if err := set.Parse(args); err != nil {
		return err
	}
	wb, err := openWorkbench(set.Arg(0), true)
	if err != nil {
		return err
	}
	if set.NArg() == 0 {
		if err := wb.Restore(); err != nil {
			return err
		}
	}
	return ui.Run(wb)
}
