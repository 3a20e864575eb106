package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (a *app) replCmd() *cobra.Command {
	var p point
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read formulas line by line and print their value at the flag point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interactive := false
			if f, ok := cmd.InOrStdin().(*os.File); ok {
				interactive = term.IsTerminal(int(f.Fd()))
			}
			return a.runREPL(cmd.InOrStdin(), cmd.OutOrStdout(), &p, interactive)
		},
	}
	p.register(cmd)
	return cmd
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "fieldgen REPL (Ctrl+D to exit)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  formula          evaluate at the current point")
	fmt.Fprintln(w, "  name = formula   save to the catalog")
	fmt.Fprintln(w, "  @name            evaluate a saved formula")
	fmt.Fprintln(w, "  :at x y z t      move the current point")
	fmt.Fprintln(w)
}

// runREPL reads one formula per line. A trailing backslash continues the
// formula on the next line.
func (a *app) runREPL(in io.Reader, out io.Writer, p *point, interactive bool) error {
	if interactive {
		printBanner(out)
	}
	reader := bufio.NewReader(in)
	var multiline strings.Builder
	inMultiline := false

	for {
		if interactive {
			if inMultiline {
				fmt.Fprint(out, "... ")
			} else {
				fmt.Fprint(out, ">>> ")
			}
		}

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if interactive {
				fmt.Fprintln(out)
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimRight(line, "\r\n")

		if strings.HasSuffix(line, "\\") {
			multiline.WriteString(strings.TrimSuffix(line, "\\"))
			multiline.WriteString(" ")
			inMultiline = true
			continue
		}

		var input string
		if inMultiline {
			multiline.WriteString(line)
			input = multiline.String()
			multiline.Reset()
			inMultiline = false
		} else {
			input = line
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		result, err := a.replLine(input, p)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
}

func (a *app) replLine(input string, p *point) (string, error) {
	switch {
	case strings.HasPrefix(input, ":at"):
		var next point
		_, err := fmt.Sscan(strings.TrimPrefix(input, ":at"), &next.x, &next.y, &next.z, &next.t)
		if err != nil {
			return "", fmt.Errorf(":at wants four numbers: %w", err)
		}
		*p = next
		return "", nil

	case strings.HasPrefix(input, "@"):
		gen, err := a.runtime.Load(strings.TrimPrefix(input, "@"))
		if err != nil {
			return "", err
		}
		return formatValue(gen.Generate(p.context())), nil
	}

	if name, formula, ok := strings.Cut(input, "="); ok {
		name = strings.TrimSpace(name)
		if err := a.runtime.Save(name, strings.TrimSpace(formula)); err != nil {
			return "", err
		}
		return "saved " + name, nil
	}

	v, err := a.runtime.Eval(input, p.context())
	if err != nil {
		return "", err
	}
	return formatValue(v), nil
}
