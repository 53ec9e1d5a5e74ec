// Command hloo-inspect is a read-only diagnostic tool: it opens an index
// file, checks that it is at least as long as the 16-byte header, and
// prints the signature, element length, and file size. It does not check
// the signature against any expected value. It never builds, mutates, or
// queries a Lookup.
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

const headerSize = 16

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut *os.File) int {
	flagSet := flag.NewFlagSet("hloo-inspect", flag.ContinueOnError)
	flagSet.SetOutput(errOut)

	help := flagSet.BoolP("help", "h", false, "show usage")

	if err := flagSet.Parse(args); err != nil {
		return 2
	}

	if *help || flagSet.NArg() != 1 {
		printUsage(errOut)

		if *help {
			return 0
		}

		return 2
	}

	path := flagSet.Arg(0)

	if err := inspect(out, path); err != nil {
		fmt.Fprintf(errOut, "hloo-inspect: %s: %v\n", path, err)

		return 1
	}

	return 0
}

func inspect(out *os.File, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if info.Size() < headerSize {
		return fmt.Errorf("file is %d bytes, shorter than the %d-byte header", info.Size(), headerSize)
	}

	header := make([]byte, headerSize)
	if _, err := f.ReadAt(header, 0); err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	signature := binary.LittleEndian.Uint64(header[0:8])
	length := binary.LittleEndian.Uint64(header[8:16])

	fmt.Fprintf(out, "signature: %016x\n", signature)
	fmt.Fprintf(out, "length:    %d\n", length)
	fmt.Fprintf(out, "file size: %d\n", info.Size())

	return nil
}

func printUsage(errOut *os.File) {
	fmt.Fprintln(errOut, "usage: hloo-inspect <path-to-index-file>")
	fmt.Fprintln(errOut, "       prints the signature, element length, and file size of an index file header")
}
