package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Urethramancer/gadget/il"
	"github.com/Urethramancer/gadget/lifter"
	"github.com/Urethramancer/gadget/loader"
	"github.com/Urethramancer/gadget/target"
)

var (
	// Configuration flags
	binMode     = flag.Bool("bin", false, "Treat the input as a raw binary image instead of a JSON region dump.")
	baseAddress = flag.String("base-address", "0", "Load address for the image (hex).")
	slaPath     = flag.String("sla", "", "Path to the compiled .sla processor spec.")
	pspecPath   = flag.String("pspec", "", "Path to the .pspec context configuration.")
	alignment   = flag.Uint64("alignment", target.DefaultAlignment, "Instruction alignment used to skip undecodable bytes.")
	debug       = flag.Bool("debug", false, "Enable debug logging.")
)

func main() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	// We need exactly one non-flag argument: the input path.
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <inputfile>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	input := flag.Arg(0)

	if *slaPath == "" {
		log.Error("a processor spec is required (-sla)")
		os.Exit(1)
	}

	base, err := strconv.ParseUint(strings.TrimPrefix(*baseAddress, "0x"), 16, 64)
	if err != nil {
		log.Errorf("invalid base address %q: %v", *baseAddress, err)
		os.Exit(1)
	}

	// Load regions based on input mode.
	var regions []target.MemoryRegion
	switch {
	case *binMode:
		log.Debugf("loading raw image %s", input)
		regions, err = loader.RawFileToRegions(input)
	case strings.HasSuffix(strings.ToLower(input), ".json"):
		log.Debugf("loading region dump %s", input)
		regions, err = loader.DumpToRegions(input)
	default:
		err = loader.ErrNoInputMode
	}
	if err != nil {
		log.WithError(err).Error("loading input failed")
		os.Exit(1)
	}

	t := target.FromRegions(regions)
	t.SetBaseAddress(base)
	t.SetSpecPath(*slaPath)
	t.SetAlignment(*alignment)

	if *pspecPath != "" {
		pairs, err := loader.ContextPairsFromSpec(*pspecPath)
		if err != nil {
			log.WithError(err).Error("loading pspec failed")
			os.Exit(1)
		}
		t.SetContextPairs(pairs)
	}

	rt, err := lifter.New()
	if err != nil {
		log.WithError(err).Error("creating runtime failed")
		os.Exit(1)
	}
	defer rt.Close()

	if err := rt.LoadTarget(t); err != nil {
		log.WithError(err).Error("loading target failed")
		os.Exit(1)
	}

	if log.IsLevelEnabled(log.DebugLevel) {
		ops, err := rt.UserOps()
		if err == nil && len(ops) > 0 {
			log.Debugf("user ops: %s", strings.Join(ops, ", "))
		}
	}

	blocks, err := rt.PerformLift()
	if err != nil {
		log.WithError(err).Error("lift failed")
		os.Exit(1)
	}

	for _, b := range blocks {
		fmt.Printf("%08X  %-32s%s\n", b.Address, b.Text, flags(b.Summary))
	}
	log.Debugf("lifted %d blocks from %d bytes", len(blocks), t.Size)
}

// flags renders the populated summary booleans as a compact suffix.
func flags(s il.Summary) string {
	var parts []string
	if s.Ret {
		parts = append(parts, "ret")
	}
	if s.Jump {
		parts = append(parts, "jump")
	}
	if s.Call {
		parts = append(parts, "call")
	}
	if s.ModifiesSP {
		parts = append(parts, "sp")
	}
	if s.Unimplemented {
		parts = append(parts, "unimpl")
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, ",") + "]"
}
