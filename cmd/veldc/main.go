package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/compiler"
	"github.com/veld-lang/veld/internal/diagnostic"
	"github.com/veld-lang/veld/internal/formatter"
	"github.com/veld-lang/veld/internal/linter"
)

const usage = `veldc - The Veld language compiler

Usage:
  veldc compile [--ast] <file.veld>    Run the full front end and print a summary
  veldc run <file.veld>                Compile, then show how to invoke the result
  veldc check <file.veld>              Parse and type-check only
  veldc lint <file.veld>               Run lint checks for style issues
  veldc fmt <file.veld>                Print the file as canonical source

Options:
  --ast    Dump the parsed syntax tree before the summary

Examples:
  veldc compile game.veld      Compile game.veld and print the item summary
  veldc check game.veld        Check for errors without a summary
  veldc lint game.veld         Lint for style issues
  veldc fmt game.veld          Reformat game.veld to stdout
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "compile":
		handleCompile(os.Args[2:])
	case "run":
		handleRun(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "lint":
		handleLint(os.Args[2:])
	case "fmt":
		handleFmt(os.Args[2:])
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// compileInput runs the front end over the single file named in args
// and exits with diagnostics on any failure.
func compileInput(args []string) *compiler.Result {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	res, err := compiler.CompileFile(args[0])
	if err != nil {
		if res != nil {
			res.RenderDiagnostics(os.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
	return res
}

func handleCompile(args []string) {
	dumpAST := false
	var rest []string
	for _, arg := range args {
		switch arg {
		case "--ast":
			dumpAST = true
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
				os.Exit(1)
			}
			rest = append(rest, arg)
		}
	}

	res := compileInput(rest)
	if dumpAST {
		fmt.Print(ast.Print(res.Program))
	}
	fmt.Printf("Compiled %s: %d top-level item(s), no errors.\n",
		res.File, len(res.Program.Items))
}

func handleRun(args []string) {
	res := compileInput(args)
	// code generation is handled by the host engine toolchain
	fmt.Printf("Compiled %s: %d top-level item(s).\n", res.File, len(res.Program.Items))
	fmt.Printf("veldc has no native back end; hand the validated program to the host engine:\n")
	fmt.Printf("  veld-host run %s\n", res.File)
}

func handleCheck(args []string) {
	res := compileInput(args)
	if res.Diagnostics.WarningCount() > 0 {
		res.RenderDiagnostics(os.Stdout)
	}
	fmt.Println("No errors found.")
}

func handleLint(args []string) {
	res := compileInput(args)

	warnings := linter.Lint(res.Program)
	if warnings.WarningCount() == 0 {
		fmt.Println("No lint warnings.")
		return
	}

	diagnostic.NewRenderer(res.File, res.Source).RenderAll(os.Stdout, warnings)
	fmt.Printf("%d warning(s) found.\n", warnings.WarningCount())
}

func handleFmt(args []string) {
	res := compileInput(args)
	fmt.Print(formatter.Format(res.Program))
}
