package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"ldmasim/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run scenarios
	familiesMode             // List controller families
	configMode               // Print effective configuration
	versionMode              // Show ldmasim version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run scenarios."`
		Families Families `cmd:"" help:"List supported controller families."`
		Config   Config   `cmd:"" help:"Print the effective configuration."`
		Version  Version  `cmd:"" help:"Show ldmasim version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		Scenarios []string `arg:"" name:"scenario.toml" help:"${scenario_help}" type:"existingfile"`

		Family      string   `name:"family" help:"${family_help}"`
		NoWriteBack bool     `name:"no-write-back" help:"Don't write descriptors back to memory before following a link."`
		State       *outfile `name:"state" help:"Write the final state of each scenario, as JSON." placeholder:"FILE|stdout|stderr"`
		Trace       *outfile `name:"trace" help:"Write transfer trace." placeholder:"FILE|stdout|stderr"`
		Quiet       bool     `name:"quiet" short:"q" help:"Only report failing scenarios."`
	}

	Families struct {
		Sources bool `name:"sources" help:"Also list request sources."`
	}

	Config  struct{}
	Version struct{}
)

var vars = kong.Vars{
	"scenario_help": "Scenario files, run concurrently.",
	"family_help":   "Controller family of scenarios that don't specify one.",
	"log_help":      "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("ldmasim"),
		kong.Description("Linked-descriptor DMA controller model."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch cmd := ctx.Command(); {
	case strings.HasPrefix(cmd, "run"):
		cfg.mode = runMode
	case cmd == "families":
		cfg.mode = familiesMode
	case cmd == "config":
		cfg.mode = configMode
	case cmd == "version":
		cfg.mode = versionMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

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
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	return applyLogModules(tok.Value.(string))
}

// applyLogModules enables debug logs for a comma-separated list of modules.
// "all" enables them all, "no" disables every log.
func applyLogModules(list string) error {
	var mask log.ModuleMask
	nolog := false
	allLogs := false

	for _, v := range strings.Split(list, ",") {
		switch v = strings.TrimSpace(v); v {
		case "":
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			mask |= mod.Mask()
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if mask != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		mask = log.ModuleMaskAll
	}

	log.EnableDebugModules(mask)
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

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
