package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"nv2apretty/combiner"
	"nv2apretty/log"
	"nv2apretty/pgraph"
	"nv2apretty/shaderdef"
)

// pickLayout resolves the layout variant: command line flag first, then
// config file. A variant the decoder does not implement is a
// configuration error and aborts immediately.
func pickLayout(flag string, cfg Config) (combiner.Layout, error) {
	name := flag
	if name == "" {
		name = cfg.Decode.Layout
	}
	return combiner.ParseLayout(name)
}

// saveLayoutDefault persists an explicitly selected layout variant as
// the configured default.
func saveLayoutDefault(name string, cfg Config) error {
	cfg.Decode.Layout = name
	return SaveConfig(cfg)
}

func output(f *outfile) io.Writer {
	if f != nil {
		return f
	}
	return os.Stdout
}

// renderProgram writes one decoded program in the selected form.
func renderProgram(w io.Writer, prog *combiner.Program, jsonOut, treeOut bool, cfg Config) {
	if cfg.Render.HideConstants {
		prog.HasConstants = false
	}
	switch {
	case jsonOut:
		w.Write(prog.JSON())
		io.WriteString(w, "\n")
	case treeOut:
		io.WriteString(w, prog.Tree())
	default:
		io.WriteString(w, prog.Render())
	}
}

func runLog(cli *CLI, cfg Config) error {
	layout, err := pickLayout(cli.Log.Layout, cfg)
	if err != nil {
		return err
	}
	if cli.Log.SaveLayout && cli.Log.Layout != "" {
		if err := saveLayoutDefault(cli.Log.Layout, cfg); err != nil {
			return err
		}
	}

	in := os.Stdin
	if cli.Log.TracePath != "-" {
		f, err := os.Open(cli.Log.TracePath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	w := bufio.NewWriter(output(cli.Log.Out))
	defer w.Flush()
	if cli.Log.Out != nil {
		defer cli.Log.Out.Close()
	}

	parser := pgraph.NewParser(layout)
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		writeEvents(w, parser.Line(sc.Text()), cli, cfg)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read trace: %w", err)
	}
	writeEvents(w, parser.Flush(), cli, cfg)
	return nil
}

func writeEvents(w io.Writer, events []pgraph.Event, cli *CLI, cfg Config) {
	for _, ev := range events {
		switch ev := ev.(type) {
		case pgraph.Passthrough:
			fmt.Fprintln(w, combiner.RenderPassthrough(ev.Text))
		case pgraph.Labeled:
			fmt.Fprintln(w, combiner.RenderLabeled(ev.Text, ev.Label))
		case pgraph.Decoded:
			renderProgram(w, ev.Program, cli.Log.JSON, cli.Log.Tree, cfg)
		case pgraph.Diagnostic:
			fmt.Fprintln(w, combiner.RenderDiagnostic(ev.Err))
		}
	}
}

// runShaderDef decodes the blobs concurrently but emits results in
// argument order. Each blob stands alone: a fatal decode error in one is
// reported inline and does not affect the others.
func runShaderDef(cli *CLI, cfg Config) error {
	layout, err := pickLayout(cli.ShaderDef.Layout, cfg)
	if err != nil {
		return err
	}
	if cli.ShaderDef.SaveLayout && cli.ShaderDef.Layout != "" {
		if err := saveLayoutDefault(cli.ShaderDef.Layout, cfg); err != nil {
			return err
		}
	}

	paths := cli.ShaderDef.BlobPaths
	progs := make([]*combiner.Program, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			progs[i], errs[i] = shaderdef.Open(path, layout)
			return nil
		})
	}
	g.Wait()

	w := bufio.NewWriter(output(cli.ShaderDef.Out))
	defer w.Flush()
	if cli.ShaderDef.Out != nil {
		defer cli.ShaderDef.Out.Close()
	}

	nerrs := 0
	for i, path := range paths {
		if len(paths) > 1 {
			fmt.Fprintf(w, "== %s\n", path)
		}
		if errs[i] != nil {
			log.ModBlob.WarnZ("failed to decode blob").
				String("path", path).
				Error("err", errs[i]).
				End()
			fmt.Fprintln(w, combiner.RenderDiagnostic(errs[i]))
			nerrs++
			continue
		}
		renderProgram(w, progs[i], cli.ShaderDef.JSON, cli.ShaderDef.Tree, cfg)
	}

	if nerrs > 0 {
		return fmt.Errorf("%d of %d blob(s) failed to decode", nerrs, len(paths))
	}
	return nil
}
