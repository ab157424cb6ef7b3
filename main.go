package main

import (
	"fmt"
	"os"
)

func main() {
	cli := parseArgs(os.Args[1:])
	cfg := LoadConfigOrDefault()

	var err error
	switch cli.mode {
	case logMode:
		err = runLog(&cli, cfg)
	case defMode:
		err = runShaderDef(&cli, cfg)
	case versionMode:
		fmt.Printf("nv2apretty %s\n", version)
	}
	check(err)
}

func check(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", err)
	os.Exit(1)
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s: %s\n", fmt.Sprintf(format, args...), err)
	os.Exit(1)
}
