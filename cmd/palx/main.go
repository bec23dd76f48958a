// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ezrec/palx/asm"
)

// defaultFile merges a file name with defaults taken from a related
// file: the directory when none was given, and the extension.
func defaultFile(name, related, ext string) string {
	if name == "" {
		name = related
	}
	dir, base := filepath.Split(name)
	if dir == "" {
		dir, _ = filepath.Split(related)
	}
	if filepath.Ext(base) == "" {
		base += ext
	}
	return filepath.Join(dir, base)
}

func main() {
	var listFile string
	var binFile string
	var rows int
	var columns int
	var os8 bool
	var asr bool

	flag.StringVar(&listFile, "l", "", "listing file name")
	flag.StringVar(&binFile, "b", "", "binary (BIN format) file name")
	flag.IntVar(&rows, "p", 60, "listing page length, in lines")
	flag.IntVar(&columns, "w", 120, "listing page width, in columns")
	flag.BoolVar(&os8, "8", false, "use OS/8 style SIXBIT")
	flag.BoolVar(&asr, "a", false, "generate 8 bit mark parity ASCII")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [options] source-file\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	srcFile := defaultFile(flag.Arg(0), "", ".plx")
	listFile = defaultFile(listFile, srcFile, ".lst")
	binFile = defaultFile(binFile, srcFile, ".bin")

	source := srcFile
	if abs, err := filepath.Abs(srcFile); err == nil {
		source = abs
	}

	src, err := os.Open(srcFile)
	if err != nil {
		log.Fatalf("%v: %v", srcFile, err)
	}
	defer src.Close()

	list, err := os.Create(listFile)
	if err != nil {
		log.Fatalf("%v: %v", listFile, err)
	}
	defer list.Close()

	bin, err := os.Create(binFile)
	if err != nil {
		log.Fatalf("%v: %v", binFile, err)
	}
	defer bin.Close()

	lw := bufio.NewWriter(list)
	bw := bufio.NewWriter(bin)

	a := &asm.Assembler{
		OS8Sixbit:  os8,
		MarkASCII:  asr,
		Columns:    columns,
		Rows:       rows,
		SourceFile: source,
	}

	fmt.Fprintf(os.Stderr, "%s - %s V%d.%02d RLA\n",
		asm.Name, asm.Title, asm.Version/100, asm.Version%100)

	errs, err := a.Assemble(src, lw, bw)
	if err != nil {
		log.Fatalf("%v: %v", srcFile, err)
	}

	if err = lw.Flush(); err != nil {
		log.Fatalf("%v: %v", listFile, err)
	}
	if err = bw.Flush(); err != nil {
		log.Fatalf("%v: %v", binFile, err)
	}

	if errs > 0 {
		os.Exit(1)
	}
}
