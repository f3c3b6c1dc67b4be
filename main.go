package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/kevgregory/gitz/codegen"
	"github.com/kevgregory/gitz/compiler"
	"github.com/kevgregory/gitz/lexer"
	"github.com/kevgregory/gitz/optimizer"
	"github.com/kevgregory/gitz/parser"
	"github.com/kevgregory/gitz/token"
)

const sourceSuffix = ".gitz"

var cli struct {
	Emit       string           `help:"Write the generated JavaScript to this path." placeholder:"out.js"`
	NoOptimize bool             `help:"Skip the IR optimization pass."`
	Check      bool             `help:"Analyze only; do not emit code."`
	Version    kong.VersionFlag `help:"Print version and exit."`

	File string `arg:"" help:"Gitz source file." type:"existingfile"`
}

func main() {
	ktx := kong.Parse(&cli,
		kong.Name("gitz"),
		kong.Description("Compiler for the Gitz language: checks a program and emits JavaScript."),
		kong.Vars{"version": versionString()},
	)
	ktx.FatalIfErrorf(run())
}

func run() error {
	source, err := os.ReadFile(cli.File)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(filepath.Dir(cli.File))
	if err != nil {
		return err
	}
	optimize := cfg.wantOptimize(cli.NoOptimize)

	cacheDir := defaultCacheDir()
	shortHash, fullHash := cacheKey(source, optimize)
	if js, ok := lookupCache(cacheDir, shortHash, fullHash); ok && !cli.Check {
		return writeOutput(cfg, js)
	}

	js, errs := compile(cli.File, string(source), optimize)
	if len(errs) > 0 {
		for _, ce := range errs {
			reportError(cli.File, ce)
		}
		return fmt.Errorf("%d error(s)", len(errs))
	}

	if cli.Check {
		return nil
	}

	if err := writeOutput(cfg, js); err != nil {
		return err
	}

	if err := storeCache(cacheDir, shortHash, fullHash, js); err != nil {
		// The cache is an optimization; a failed write is not fatal.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return nil
}

func writeOutput(cfg *Config, js string) error {
	outPath := outputPath(cfg)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte(js), 0644)
}

// compile runs the full pipeline: lex, parse, analyze, optionally optimize,
// generate. Analysis never runs over a failed parse.
func compile(filename, source string, optimize bool) (string, []*token.CompileError) {
	l := lexer.New(filename, source)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return "", errs
	}

	irProgram, cerr := compiler.Analyze(program)
	if cerr != nil {
		return "", []*token.CompileError{cerr}
	}

	if optimize {
		irProgram = optimizer.Optimize(irProgram)
	}
	return codegen.Generate(irProgram), nil
}

func outputPath(cfg *Config) string {
	if cli.Emit != "" {
		return cli.Emit
	}
	base := strings.TrimSuffix(filepath.Base(cli.File), sourceSuffix) + ".js"
	if cfg.OutDir != "" {
		return filepath.Join(cfg.OutDir, base)
	}
	return filepath.Join(filepath.Dir(cli.File), base)
}

// reportError prints file:line:col: kind: msg, coloring the kind when
// stderr is a terminal.
func reportError(filename string, ce *token.CompileError) {
	kind := ce.Kind.String()
	if isatty.IsTerminal(os.Stderr.Fd()) {
		kind = "\x1b[31m" + kind + "\x1b[0m"
	}
	fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n",
		filename, ce.Token.Pos.Line, ce.Token.Pos.Column, kind, ce.Msg)
}
