package heatmap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mhelland/seqheat/pkg/database"
	"github.com/mhelland/seqheat/pkg/observability"
)

var (
	cliPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	cliValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	cliErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// cliController writes the plot to a PNG and answers lookups on a plain
// line-oriented prompt. It is the default front-end.
type cliController struct {
	*session
	output string
	in     io.Reader
	out    io.Writer
}

func newCLIController(s *session, output string) *cliController {
	return &cliController{
		session: s,
		output:  output,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

func (c *cliController) Activate(ctx context.Context) error {
	start := time.Now()
	observability.Plot().OnSessionStart(ctx, GUICLI.String())
	defer func() {
		observability.Plot().OnSessionEnd(ctx, GUICLI.String(), time.Since(start))
	}()

	path := c.output
	if path == "" {
		path = filepath.Join(os.TempDir(), fmt.Sprintf("seqheat-%d.png", os.Getpid()))
	}
	if err := c.fig.WritePNG(path); err != nil {
		return err
	}
	c.logger.Info("heatmap written", "path", path)

	nSamples, nFeatures := c.exp.Shape()
	fmt.Fprintf(c.out, "%s  %d samples x %d features\n",
		cliValueStyle.Render(path), nSamples, nFeatures)
	c.printHelp()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, cliPromptStyle.Render("> "))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			fmt.Fprintln(c.out)
			return err
		case line := <-lines:
			if done := c.handle(ctx, line); done {
				return nil
			}
		}
	}
}

// handle runs one prompt command, reporting whether the session is over.
func (c *cliController) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "q", "quit", "exit":
		return true
	case "help":
		c.printHelp()
	case "sample":
		c.printRow(fields[1:], true)
	case "feature":
		c.printRow(fields[1:], false)
	case "value":
		c.printValue(fields[1:])
	case "ann":
		c.printAnnotations(ctx, fields[1:])
	case "add":
		c.addAnnotation(ctx, fields[1:])
	default:
		c.fail("unknown command %q, try help", fields[0])
	}
	return false
}

func (c *cliController) printHelp() {
	fmt.Fprintln(c.out, `commands:
  sample <col>          show sample metadata
  feature <row>         show feature metadata
  value <col> <row>     show the cell value under (col, row)
  ann <row>             list annotations for a feature
  add <row> <text...>   annotate a feature
  quit                  end the session`)
}

func (c *cliController) printRow(args []string, sample bool) {
	if len(args) != 1 {
		c.fail("expected one index")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		c.fail("bad index %q", args[0])
		return
	}
	nSamples, nFeatures := c.exp.Shape()
	table, n := c.exp.Features, nFeatures
	if sample {
		table, n = c.exp.Samples, nSamples
	}
	if idx < 0 || idx >= n {
		c.fail("index %d out of range [0, %d)", idx, n)
		return
	}
	for field, value := range table.Row(idx) {
		fmt.Fprintf(c.out, "  %s: %s\n", field, cliValueStyle.Render(stringify(value)))
	}
}

func (c *cliController) printValue(args []string) {
	format := c.fig.Axes().CoordFormatter()
	if len(args) != 2 || format == nil {
		c.fail("expected: value <col> <row>")
		return
	}
	x, errX := strconv.ParseFloat(args[0], 64)
	y, errY := strconv.ParseFloat(args[1], 64)
	if errX != nil || errY != nil {
		c.fail("bad coordinates %q %q", args[0], args[1])
		return
	}
	fmt.Fprintln(c.out, cliValueStyle.Render(format(x, y)))
}

func (c *cliController) printAnnotations(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.fail("expected one feature row")
		return
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		c.fail("bad row %q", args[0])
		return
	}
	id := c.featureID(row)
	anns := c.lookupAnnotations(ctx, id)
	if len(anns) == 0 {
		fmt.Fprintf(c.out, "no annotations for %s\n", id)
		return
	}
	for _, ann := range anns {
		fmt.Fprintf(c.out, "  [%s] %s\n", ann.Type, cliValueStyle.Render(ann.Description))
	}
}

func (c *cliController) addAnnotation(ctx context.Context, args []string) {
	if c.annDB == nil {
		c.fail("no annotatable database attached")
		return
	}
	if len(args) < 2 {
		c.fail("expected: add <row> <text...>")
		return
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		c.fail("bad row %q", args[0])
		return
	}
	id := c.featureID(row)
	ann := database.Annotation{Description: strings.Join(args[1:], " "), Type: "manual"}
	if err := c.annDB.AddAnnotation(ctx, []string{id}, ann); err != nil {
		c.fail("adding annotation: %v", err)
		return
	}
	fmt.Fprintf(c.out, "annotated %s in %s\n", id, c.annDB.DatabaseName())
}

func (c *cliController) fail(format string, args ...any) {
	fmt.Fprintln(c.out, cliErrorStyle.Render(fmt.Sprintf(format, args...)))
}
