// Command behavioral evaluates behavioral source expressions and their
// partial derivatives.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"

	"github.com/zephyrtronium/behavioral"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb, cfgname, wrt string
		with                       [][2]string
		nl, echo, tree, verbose    bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.StringVar(&wrt, "wrt", "", "comma-separated independent variables to differentiate with respect to")
	flag.StringVar(&cfgname, "config", "", "YAML file with tolerances, values, and PWL tables")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parsed expressions")
	flag.BoolVar(&tree, "tree", false, "print derivative expression trees")
	flag.BoolVar(&verbose, "v", false, "log evaluation details")
	flag.Parse()

	logger := newLogger(verbose)

	cfg := &config{}
	if cfgname != "" {
		c, err := loadConfig(cfgname)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
	}
	tables, err := cfg.tables()
	if err != nil {
		log.Fatal(err)
	}
	e := &env{
		tol:    cfg.Tolerances.apply(behavioral.DefaultTolerances()),
		given:  make(map[string]float64, len(cfg.Given)+len(with)),
		wrt:    cfg.Wrt,
		props:  cfg.Properties,
		tables: tables,
		log:    logger,
	}
	for k, v := range cfg.Given {
		e.given[k] = v
	}
	for _, d := range with {
		v, err := e.constant(d[1])
		if err != nil {
			log.Fatalf("setting %s: %v", d[0], err)
		}
		e.given[d[0]] = v
	}
	if wrt != "" {
		e.wrt = strings.Split(wrt, ",")
		for i, s := range e.wrt {
			e.wrt[i] = strings.TrimSpace(s)
		}
	}

	var ins []io.RuneScanner
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		ins = append(ins, f)
	}
	for _, arg := range flag.Args() {
		ins = append(ins, strings.NewReader(arg))
	}

	var p []*behavioral.Node
	var opts []behavioral.ParseOption
	if nl {
		opts = append(opts, behavioral.StopOn('\n'))
	}
	for _, in := range ins {
		for {
			// First check whether we're done with the input.
			if _, _, err := in.ReadRune(); err != nil {
				if err == io.EOF {
					break
				}
				log.Fatal(err)
			}
			in.UnreadRune()
			a, err := behavioral.Parse(in, opts...)
			if err != nil {
				log.Fatal(err)
			}
			p = append(p, a)
		}
	}

	if err := runAll(os.Stdout, e, p, verb, echo, tree); err != nil {
		logger.Error("evaluation failed", "error", err)
		os.Exit(1)
	}
}

// runAll evaluates each expression in turn, writing results to w. The
// failures are collected into the returned error.
func runAll(w io.Writer, e *env, p []*behavioral.Node, verb string, echo, tree bool) error {
	var errs *multierror.Error
	for _, a := range p {
		if echo {
			fmt.Fprintf(w, "%v : ", a)
		}
		if err := e.run(w, a, verb, tree); err != nil {
			if echo {
				fmt.Fprintln(w, "failed")
			}
			errs = multierror.Append(errs, fmt.Errorf("%v: %w", a, err))
		}
	}
	return errs.ErrorOrNil()
}

func newLogger(verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Trace
	}
	color := hclog.ColorOff
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color = hclog.AutoColor
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "behavioral",
		Level:  level,
		Output: os.Stderr,
		Color:  color,
	})
}

func infile(inname string, std bool) (io.RuneScanner, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}
