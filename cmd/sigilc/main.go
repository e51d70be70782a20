package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sigil-lang/sigil/internal/capability"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/driver"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sigilc [flags] <command> <file>\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  parse <file>     Parse a source file and report diagnostics\n")
		fmt.Fprintf(os.Stderr, "  check <file>     Parse and typecheck a source file\n")
		fmt.Fprintf(os.Stderr, "  version          Show version information\n")
	}
	config := flag.String("config", "", "path to a YAML RunConfig")
	stage := flag.Int("stage", int(capability.Stage2), "runtime stage (0=compile-time, 1=boot, 2=serving)")
	caps := flag.String("caps", "", "comma-separated capability ids the runtime is configured with")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "parse":
		runParse(requireFile(), loadConfig(*config))
	case "check":
		runCheck(requireFile(), loadConfig(*config), runtimeFromFlags(*stage, *caps))
	case "version", "-v", "--version":
		runVersion()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}

func requireFile() string {
	if flag.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "expected a source file argument\n")
		os.Exit(1)
	}
	return flag.Arg(1)
}

func loadConfig(path string) driver.RunConfig {
	if path == "" {
		return driver.RunConfig{}
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading config %s: %v\n", path, err)
		os.Exit(1)
	}
	cfg, err := driver.DecodeRunConfig(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error decoding config %s: %v\n", path, err)
		os.Exit(1)
	}
	return cfg
}

func runtimeFromFlags(stage int, capsFlag string) capability.Runtime {
	set := map[string]bool{}
	if capsFlag != "" {
		start := 0
		for i := 0; i <= len(capsFlag); i++ {
			if i == len(capsFlag) || capsFlag[i] == ',' {
				if i > start {
					set[capsFlag[start:i]] = true
				}
				start = i + 1
			}
		}
	}
	return capability.Runtime{Stage: capability.Stage(stage), CapabilitySet: set}
}

func readSource(filename string) string {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(src)
}

func printDiagnostic(d diag.Diagnostic) {
	sp := d.PrimarySpan
	fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: [%s] %s\n", sp.Filename, sp.Line, sp.Column, d.Severity, d.Code, d.Message)
}

func runParse(filename string, cfg driver.RunConfig) {
	cfg.Filename = filename
	res := driver.Parse(readSource(filename), cfg)
	for _, d := range res.Diagnostics {
		printDiagnostic(d)
	}
	if !res.Recovered && len(res.Diagnostics) == 0 {
		fmt.Printf("parsed %s cleanly\n", filename)
		return
	}
	os.Exit(1)
}

func runCheck(filename string, cfg driver.RunConfig, runtime capability.Runtime) {
	cfg.Filename = filename
	pr, tr := driver.Run(readSource(filename), cfg, runtime)
	for _, d := range pr.Diagnostics {
		printDiagnostic(d)
	}
	for _, d := range tr.Diagnostics {
		printDiagnostic(d)
	}
	if len(pr.Diagnostics) == 0 && len(tr.Diagnostics) == 0 {
		fmt.Printf("checked %s cleanly\n", filename)
		return
	}
	os.Exit(1)
}

func runVersion() {
	version := "dev"
	if v := os.Getenv("SIGIL_VERSION"); v != "" {
		version = v
	}
	fmt.Printf("sigilc version %s\n", version)
}
