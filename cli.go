package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"nv2apretty/log"
)

type mode byte

const (
	logMode     mode = iota // Decode a PGRAPH trace
	defMode                 // Decode shader definition blobs
	versionMode             // Show nv2apretty version
)

type (
	CLI struct {
		Log       Log       `cmd:"" help:"Decode combiner state from a PGRAPH method trace."`
		ShaderDef ShaderDef `cmd:"" help:"Decode D3DPIXELSHADERDEF blobs." name:"shaderdef"`
		Version   Version   `cmd:"" help:"Show nv2apretty version."`

		Debug logModMask `help:"${log_help}" name:"debug" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Log struct {
		TracePath string `arg:"" name:"/path/to/trace" help:"${trace_help}"`

		Layout     string   `name:"layout" help:"${layout_help}" placeholder:"xdk|legacy"`
		SaveLayout bool     `name:"save-layout" help:"${save_help}"`
		Out        *outfile `name:"out" short:"o" help:"Write output to file." placeholder:"FILE|stdout|stderr"`
		JSON       bool     `name:"json" help:"Emit decoded programs as JSON."`
		Tree       bool     `name:"tree" help:"Emit decoded programs as trees."`
	}

	ShaderDef struct {
		BlobPaths []string `arg:"" name:"/path/to/blob" help:"${blob_help}" type:"existingfile"`

		Layout     string   `name:"layout" help:"${layout_help}" placeholder:"xdk|legacy"`
		SaveLayout bool     `name:"save-layout" help:"${save_help}"`
		Out        *outfile `name:"out" short:"o" help:"Write output to file." placeholder:"FILE|stdout|stderr"`
		JSON       bool     `name:"json" help:"Emit decoded programs as JSON."`
		Tree       bool     `name:"tree" help:"Emit decoded programs as trees."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"trace_help":  "PGRAPH method trace to decode, or - for stdin.",
	"blob_help":   "Shader definition blob: raw bytes or a b\"...\" byte-string literal.",
	"layout_help": "Final combiner layout variant to assume.",
	"save_help":   "Persist --layout as the configured default.",
	"log_help":    "Enable debug logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("nv2apretty"),
		kong.Description("nv2a combiner state pretty printer."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch {
	case ctx.Command() == "version":
		cfg.mode = versionMode
	case strings.HasPrefix(ctx.Command(), "shaderdef"):
		cfg.mode = defMode
	default:
		cfg.mode = logMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}

	loggingHelp := `
Debug log modules:
  The --debug flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }
