package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"screenbuf/hal"
)

func main() {
	var indexedOnly bool
	flag.BoolVar(&indexedOnly, "indexed", false, "List only 8-bit indexed modes.")
	flag.Parse()

	if err := printModes(os.Stdout, hal.HostModes(), indexedOnly); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printModes writes modes to w as an aligned table.
func printModes(w io.Writer, modes []hal.Mode, indexedOnly bool) error {
	if indexedOnly {
		modes = hal.IndexedModes(modes)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSIZE\tDEPTH\tFORMAT\tUSABLE")
	for _, m := range modes {
		usable := "no"
		if m.Indexed() {
			usable = "yes"
		}
		fmt.Fprintf(tw, "0x%08x\t%s\t%d\t%s\t%s\n", m.ID, m.Name(), m.Depth, m.Format, usable)
	}
	return tw.Flush()
}
