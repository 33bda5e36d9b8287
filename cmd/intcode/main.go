// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/intcode/machine"
)

func main() {
	var compile string
	var inputs string
	var patches string
	var disassemble bool
	var memory int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".ic assembly file to compile")
	flag.StringVar(&inputs, "i", "", "comma-separated input values")
	flag.StringVar(&patches, "p", "", "comma-separated addr=value memory patches")
	flag.BoolVar(&disassemble, "d", false, "Disassemble, do not execute")
	flag.IntVar(&memory, "m", machine.DefaultMemory, "Memory size in cells")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	var program machine.Program
	var err error

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}

		inf, ferr := os.Open(compile)
		if ferr != nil {
			log.Fatalf("%v: %v", compile, ferr)
		}
		defer inf.Close()

		asm := &machine.Assembler{Verbose: verbose}
		program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case flag.NArg() == 1 && flag.Arg(0) != "-":
		inf, ferr := os.Open(flag.Arg(0))
		if ferr != nil {
			log.Fatalf("%v: %v", flag.Arg(0), ferr)
		}
		defer inf.Close()

		program, err = machine.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}
	case flag.NArg() <= 1:
		program, err = machine.Parse(os.Stdin)
		if err != nil {
			log.Fatalf("stdin: %v", err)
		}
	default:
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if disassemble {
		fmt.Print(machine.Disassemble(program))
		return
	}

	m, err := machine.New(program, machine.WithMemory(memory))
	if err != nil {
		log.Fatal(err)
	}
	m.Verbose = verbose

	if len(patches) != 0 {
		for _, patch := range strings.Split(patches, ",") {
			addrText, valueText, ok := strings.Cut(patch, "=")
			address, aerr := strconv.Atoi(strings.TrimSpace(addrText))
			value, verr := strconv.ParseInt(strings.TrimSpace(valueText), 10, 64)
			if !ok || aerr != nil || verr != nil {
				log.Fatalf("patch %q: want addr=value", patch)
			}
			err = m.Store(address, value)
			if err != nil {
				log.Fatalf("patch %q: %v", patch, err)
			}
		}
	}

	if len(inputs) != 0 {
		for _, token := range strings.Split(inputs, ",") {
			value, verr := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
			if verr != nil {
				log.Fatalf("input %q: %v", token, verr)
			}
			err = m.PushInput(value)
			if err != nil {
				log.Fatal(err)
			}
		}
	}

	err = m.Run()
	if err != nil {
		log.Fatal(err)
	}

	outputs := m.OutputBuffer()
	if len(outputs) == 0 {
		// Computation-only programs leave their result in cell 0.
		value, _ := m.Load(0)
		fmt.Println(value)
		return
	}
	for _, value := range outputs {
		fmt.Println(value)
	}
}
