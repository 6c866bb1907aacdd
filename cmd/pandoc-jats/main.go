// Command pandoc-jats converts a document to JATS XML.
//
//	pandoc-jats [-in file] [-out file] [-from format] [-template name] [-V key=value]...
//
// JSON input is read as a pandoc AST. Markdown is parsed in process. Any
// other format is converted by the pandoc executable.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/natefinch/atomic"

	pandoc "github.com/growler/go-pandoc-jats"
	"github.com/growler/go-pandoc-jats/jats"
	"github.com/growler/go-pandoc-jats/markdown"
)

func main() {
	config := ConfigFromEnvironment()
	if err := parseFlags(config, flag.CommandLine, os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.Level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(config *Config, fs *flag.FlagSet, args []string) error {
	var debug bool
	if config.Variables == nil {
		config.Variables = map[string]any{}
	}
	fs.StringVar(&config.In, "in", config.In, "Input file (default stdin)")
	fs.StringVar(&config.Out, "out", config.Out, "Output file (default stdout)")
	fs.StringVar(&config.From, "from", config.From, "Input format: json, markdown or any format pandoc reads")
	fs.StringVar(&config.Template, "template", config.Template, "Template name or path")
	fs.StringVar(&config.TemplateDir, "template-dir", config.TemplateDir, "Directory searched for templates")
	fs.StringVar(&config.Pandoc, "pandoc", config.Pandoc, "Path to the pandoc executable")
	fs.Var(varsFlag(config.Variables), "V", "Template variable key=value (repeatable)")
	fs.BoolVar(&debug, "debug", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if debug {
		config.LogLevel = "debug"
	}
	if fs.NArg() > 0 && config.In == "" {
		config.In = fs.Arg(0)
	}
	return nil
}

// run reads the input, converts it and writes the article.
func run(ctx context.Context, config *Config, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	doc, err := load(ctx, config, stdin, logger)
	if err != nil {
		return err
	}

	loader, name := config.Loader(logger)
	a := &jats.Assembler{
		Template: name,
		Lookup:   loader.Lookup,
		Logger:   logger,
	}
	out := a.Convert(doc, config.Variables)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out += "\n"
	}

	if config.Out == "" {
		_, err = io.WriteString(stdout, out)
		return err
	}
	if err := atomic.WriteFile(config.Out, bytes.NewReader([]byte(out))); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.Out, err)
	}
	logger.Info("article written", "in", config.In, "out", config.Out, "template", name)
	return nil
}

func load(ctx context.Context, config *Config, stdin io.Reader, logger *slog.Logger) (*pandoc.Pandoc, error) {
	format := config.Format()
	logger.Debug("reading input", "in", config.In, "format", format)
	switch format {
	case "json":
		if config.In == "" {
			return pandoc.ReadFrom(stdin)
		}
		return pandoc.ReadFile(config.In)
	case "markdown", "commonmark", "gfm":
		var (
			src []byte
			err error
		)
		if config.In == "" {
			src, err = io.ReadAll(stdin)
		} else {
			src, err = os.ReadFile(config.In)
		}
		if err != nil {
			return nil, err
		}
		doc, err := markdown.NewParser(logger).Read(src)
		if err != nil && config.In != "" {
			return nil, fmt.Errorf("%s: %w", config.In, err)
		}
		return doc, err
	default:
		conf := pandoc.Format(format).WithPandoc(config.Pandoc)
		if config.In == "" {
			return pandoc.LoadFrom(ctx, stdin, conf)
		}
		return pandoc.LoadFile(ctx, conf, config.In)
	}
}
