// Package loader turns on-disk artefacts into in-memory targets: raw
// binary images, JSON region dumps and .pspec context configuration.
package loader

import (
	"encoding/hex"
	"encoding/json"
	"encoding/xml"
	"os"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Urethramancer/gadget/target"
)

// MaxInputSize caps how much of any input file is accepted.
const MaxInputSize = 50 << 20

var (
	// ErrNoInputMode means the caller supplied no way to interpret the
	// input path.
	ErrNoInputMode = errors.New("loader: no input mode selected")
	// ErrInputTooLarge means an input file exceeded MaxInputSize.
	ErrInputTooLarge = errors.New("loader: input exceeds 50 MiB")
)

// readCapped reads a whole file, rejecting anything over MaxInputSize.
func readCapped(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if info.Size() > MaxInputSize {
		return nil, errors.Wrapf(ErrInputTooLarge, "%s is %d bytes", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// RawFileToRegions wraps a raw binary image as a single region at base 0,
// named after its path.
func RawFileToRegions(path string) ([]target.MemoryRegion, error) {
	data, err := readCapped(path)
	if err != nil {
		return nil, err
	}
	return []target.MemoryRegion{{
		Name: path,
		Base: 0,
		Data: data,
	}}, nil
}

// dumpRegion is one entry of a JSON region dump. The data payload is an
// even-length ASCII hex string, most-significant nibble first.
type dumpRegion struct {
	Name        string `json:"name"`
	BaseAddress uint64 `json:"base_address"`
	Data        string `json:"data"`
}

// DumpToRegions parses a JSON region dump. Each entry becomes one region;
// odd-length or non-hex payloads fail the whole load.
func DumpToRegions(path string) ([]target.MemoryRegion, error) {
	data, err := readCapped(path)
	if err != nil {
		return nil, err
	}
	var entries []dumpRegion
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "parsing dump %s", path)
	}
	regions := make([]target.MemoryRegion, 0, len(entries))
	for _, e := range entries {
		buf, err := hex.DecodeString(e.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "region %q", e.Name)
		}
		regions = append(regions, target.MemoryRegion{
			Name: e.Name,
			Base: e.BaseAddress,
			Data: buf,
		})
	}
	return regions, nil
}

// pspecDoc is the subset of a .pspec document the loader reads. Everything
// outside context_data/context_set/set is ignored.
type pspecDoc struct {
	XMLName     xml.Name `xml:"processor_spec"`
	ContextData struct {
		ContextSets []struct {
			Sets []struct {
				Name string `xml:"name,attr"`
				Val  string `xml:"val,attr"`
			} `xml:"set"`
		} `xml:"context_set"`
	} `xml:"context_data"`
}

// ContextPairsFromSpec extracts context variable assignments from a .pspec
// file. Sets missing a name or value are skipped; unparsable values default
// to 0 with a warning. Key validation is left to the decoder.
func ContextPairsFromSpec(path string) ([]target.ContextPair, error) {
	data, err := readCapped(path)
	if err != nil {
		return nil, err
	}
	var doc pspecDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing pspec %s", path)
	}
	var pairs []target.ContextPair
	for _, cs := range doc.ContextData.ContextSets {
		for _, set := range cs.Sets {
			if set.Name == "" || set.Val == "" {
				continue
			}
			value, err := strconv.ParseUint(set.Val, 10, 64)
			if err != nil {
				log.WithError(err).Warnf("pspec %s: context %q has bad value %q, using 0", path, set.Name, set.Val)
				value = 0
			}
			pairs = append(pairs, target.ContextPair{Name: set.Name, Value: value})
		}
	}
	return pairs, nil
}
