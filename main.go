package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"text/tabwriter"

	"github.com/BurntSushi/toml"

	"ldmasim/emu"
	"ldmasim/hw/ldma"
)

func main() {
	cfg := emu.LoadConfigOrDefault()
	if cfg.General.Log != "" {
		checkf(applyLogModules(cfg.General.Log), "invalid log modules in config")
	}

	args := parseArgs(os.Args[1:])

	switch args.mode {
	case runMode:
		if args.Run.Family != "" {
			_, err := ldma.FamilyByName(args.Run.Family)
			checkf(err, "invalid --family")
			cfg.General.Family = args.Run.Family
		}
		if args.Run.NoWriteBack {
			cfg.Controller.WriteBack = false
		}
		os.Exit(runMain(args.Run, cfg))
	case familiesMode:
		printFamilies(args.Families.Sources)
	case configMode:
		checkf(toml.NewEncoder(os.Stdout).Encode(cfg), "failed to encode config")
	case versionMode:
		fmt.Println("ldmasim", version())
	}
}

func version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "(devel)"
	}
	return bi.Main.Version
}

func printFamilies(sources bool) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	for _, f := range ldma.Families {
		fmt.Fprintf(tw, "%s\t%d channels\t%s irq\t%s\n", f.Name, f.Channels, f.IRQ, f.Description)
		if !sources {
			continue
		}
		for _, src := range f.Sources {
			fmt.Fprintf(tw, "\t%#02x\t%s\t\n", src.Number, src.Name)
		}
	}
}
