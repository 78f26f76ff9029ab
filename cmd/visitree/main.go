// Command visitree inspects and produces visitree documents.
//
//	visitree [-config file] dump [-format text|yaml|cbor] <file>
//	visitree [-config file] demo <file>
//	visitree [-config file] profile [-n iterations] [-out mem.prof]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/rawbytedev/visitree"
	"github.com/rawbytedev/visitree/internal/config"
	"github.com/rawbytedev/visitree/internal/demo"
	"github.com/rawbytedev/visitree/pkg/tree"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

var errUsage = errors.New("usage: visitree [-config file] dump|demo|profile [flags] [file]")

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("visitree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *cfgPath != "" {
		c, err := config.LoadFile(*cfgPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		cfg = c
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	opts := []visitree.Option{visitree.WithLogger(logger)}
	if cfg.AllowDuplicateNames {
		opts = append(opts, visitree.WithDuplicateNames())
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, errUsage)
		return 2
	}
	switch rest[0] {
	case "dump":
		err = runDump(rest[1:], cfg, stdout, stderr)
	case "demo":
		err = runDemo(rest[1:], opts, stdout)
	case "profile":
		err = runProfile(rest[1:], opts, stdout, stderr)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", rest[0]), zap.Error(err))
		fmt.Fprintln(stderr, err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func runDump(args []string, cfg *config.Config, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", cfg.Format, "output format: text, yaml or cbor")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: dump needs exactly one file", errUsage)
	}
	doc, err := tree.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	return dump(stdout, doc, *format)
}

func dump(w io.Writer, doc *tree.Document, format string) error {
	var out []byte
	var err error
	switch format {
	case config.FormatText:
		return tree.Print(w, doc)
	case config.FormatYAML:
		out, err = tree.EncodeYAML(doc)
	case config.FormatCBOR:
		out, err = tree.EncodeCBOR(doc)
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func runDemo(args []string, opts []visitree.Option, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: demo needs exactly one file", errUsage)
	}
	if err := demo.SampleScene().Save(args[0], opts...); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", args[0])
	return nil
}
