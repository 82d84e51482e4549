// Command smtdemo is a thin driver over the sat package: it reads a
// DIMACS-like toy problem file, builds variables and clauses from it,
// assumes any requested literals, propagates, and prints the resulting
// lbool assignment for every declared variable.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"

	"github.com/xDarkicex/smt/sat"
	"github.com/xDarkicex/smt/smtlog"
)

type args struct {
	File    string `arg:"positional,required" help:"toy problem file to load"`
	Verbose bool   `arg:"-v" help:"log decisions, conflicts and learned clauses to stderr"`
}

func (args) Description() string {
	return "smtdemo loads a toy DIMACS-like file and runs the sat core's propagate() to completion."
}

func main() {
	var a args
	arg.MustParse(&a)

	if err := run(a); err != nil {
		fmt.Fprintln(os.Stderr, "smtdemo:", err)
		os.Exit(1)
	}
}

func run(a args) error {
	f, err := os.Open(a.File)
	if err != nil {
		return err
	}
	defer f.Close()

	var opts []sat.CoreOption
	if a.Verbose {
		log := logrus.New()
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.DebugLevel)
		opts = append(opts, sat.WithLogger(smtlog.New(log)))
	}
	core := sat.NewCore(opts...)

	vars, assumptions, err := load(core, f)
	if err != nil {
		return err
	}

	// Drain the unit clauses the loader enqueued before assuming
	// anything: assume requires an empty propagation queue.
	if !core.Propagate() {
		fmt.Println("UNSAT")
		return nil
	}

	for _, lit := range assumptions {
		switch core.ValueLit(lit) {
		case sat.True:
			continue
		case sat.False:
			fmt.Println("UNSAT (assumption refuted)")
			return nil
		}
		if !core.Assume(lit) {
			fmt.Println("UNSAT (assumption refuted)")
			return nil
		}
	}

	fmt.Println("SAT")
	for i, v := range vars {
		fmt.Printf("%d = %s\n", i+1, core.Value(v))
	}
	stats := core.Stats()
	fmt.Printf("decisions=%d propagations=%d conflicts=%d learned=%d\n",
		stats.Decisions, stats.Propagations, stats.Conflicts, stats.Learned)
	return nil
}

// load parses the toy format line by line:
//
//	vars N            declare N boolean variables, numbered 1..N
//	clause l1 l2 ...   add a clause; a negative integer negates the literal
//	assume l           assume a literal once propagate() starts
//	# ...              comment, ignored
//
// Variable numbers are 1-based to match DIMACS convention; they are
// translated to sat.Var through vars, returned so the caller can print
// results in the same order they were declared.
func load(core *sat.Core, f *os.File) (vars []sat.Var, assumptions []sat.Literal, err error) {
	toLit := func(n int) (sat.Literal, error) {
		idx := n
		if idx < 0 {
			idx = -idx
		}
		if idx < 1 || idx > len(vars) {
			return 0, fmt.Errorf("literal %d out of range (declare with \"vars N\" first)", n)
		}
		return sat.NewLiteral(vars[idx-1], n > 0), nil
	}

	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "vars":
			if len(fields) != 2 {
				return nil, nil, fmt.Errorf("line %d: \"vars\" wants exactly one integer", lineNo)
			}
			n, perr := strconv.Atoi(fields[1])
			if perr != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, perr)
			}
			for i := 0; i < n; i++ {
				vars = append(vars, core.NewVar())
			}

		case "clause":
			lits := make([]sat.Literal, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				n, perr := strconv.Atoi(tok)
				if perr != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, perr)
				}
				lit, lerr := toLit(n)
				if lerr != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, lerr)
				}
				lits = append(lits, lit)
			}
			if !core.NewClause(lits) {
				return nil, nil, fmt.Errorf("line %d: clause is trivially unsatisfiable at root level", lineNo)
			}

		case "assume":
			if len(fields) != 2 {
				return nil, nil, fmt.Errorf("line %d: \"assume\" wants exactly one literal", lineNo)
			}
			n, perr := strconv.Atoi(fields[1])
			if perr != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, perr)
			}
			lit, lerr := toLit(n)
			if lerr != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, lerr)
			}
			assumptions = append(assumptions, lit)

		default:
			return nil, nil, fmt.Errorf("line %d: unknown directive %q", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return vars, assumptions, nil
}
