package pandoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// A configuration for running pandoc executable to produce the JSON AST.
type Conf struct {
	Pandoc string   // Path to pandoc executable
	Dir    string   // Working directory
	Format string   // Format to load
	Ext    []string // List of format extensions, each must start with '+' or '-'
	Opts   []string // Additional options
}

var DefaultFormat = Conf{
	Format: "markdown",
}

// Makes a new Conf for format f.
func Format(f string) Conf {
	return Conf{Format: f}
}

// Returns a Conf with a specified path to pandoc executable.
func (c Conf) WithPandoc(path string) Conf {
	c.Pandoc = path
	return c
}

func (c Conf) WithDir(dir string) Conf {
	c.Dir = dir
	return c
}

func (c Conf) WithExt(ext string) Conf {
	c.Ext = append([]string(nil), c.Ext...)
	for i := range c.Ext {
		if c.Ext[i] == "-"+ext {
			c.Ext[i] = "+" + ext
			return c
		} else if c.Ext[i] == "+"+ext {
			return c
		}
	}
	c.Ext = append(c.Ext, "+"+ext)
	return c
}

func (c Conf) WithoutExt(ext string) Conf {
	c.Ext = append([]string(nil), c.Ext...)
	for i := range c.Ext {
		if c.Ext[i] == "-"+ext {
			return c
		} else if c.Ext[i] == "+"+ext {
			c.Ext[i] = "-" + ext
			return c
		}
	}
	c.Ext = append(c.Ext, "-"+ext)
	return c
}

// Add an option to the configuration. Accepts:
//   - single-letter option, e.g. "s"
//   - single-letter option with value, e.g. "s", "foo"
//   - long option, e.g. "smart"
//   - long option with value, e.g. "smart", "foo"
func (c Conf) WithOpt(opt string, val ...string) Conf {
	if opt == "" {
		return c
	}
	c.Opts = append([]string(nil), c.Opts...)
	if len(opt) == 1 {
		c.Opts = append(c.Opts, "-"+opt)
		if len(val) == 1 {
			c.Opts = append(c.Opts, val[0])
		} else if len(val) > 1 {
			c.Opts = append(c.Opts, val[0]+"="+val[1])
		}
	} else if len(val) == 0 {
		c.Opts = append(c.Opts, "--"+opt)
	} else if len(val) == 1 {
		c.Opts = append(c.Opts, "--"+opt+"="+val[0])
	} else {
		c.Opts = append(c.Opts, "--"+opt+"="+val[0]+":"+val[1])
	}
	return c
}

func (c *Conf) pandocExecutable() (string, error) {
	if c.Pandoc != "" {
		return c.Pandoc, nil
	}
	if this, err := os.Executable(); err == nil {
		pandoc, err := exec.LookPath(filepath.Join(filepath.Dir(this), "pandoc"))
		if err == nil || errors.Is(err, exec.ErrDot) {
			return pandoc, nil
		}
	}
	if pandoc, err := exec.LookPath("pandoc"); err == nil {
		return pandoc, nil
	} else {
		return "", fmt.Errorf("pandoc executable is not found: %w", err)
	}
}

// args returns the pandoc command line, program name excluded. Without a
// format pandoc guesses it from the file names.
func (c *Conf) args() []string {
	args := []string{"-tjson"}
	if c.Format != "" {
		args = append(args, strings.Join(append([]string{"-f", c.Format}, c.Ext...), ""))
	}
	return append(args, c.Opts...)
}

func (c *Conf) loadCmd(ctx context.Context, files ...string) (*exec.Cmd, error) {
	pandoc, err := c.pandocExecutable()
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, pandoc, append(c.args(), files...)...)
	cmd.Dir = c.Dir
	return cmd, nil
}

// run starts cmd, parses its standard output and waits for it to finish.
// The standard error is reported as part of the returned error.
func run(cmd *exec.Cmd) (*Pandoc, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	op, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	p, err := ReadFrom(op)
	if err != nil {
		_, _ = io.Copy(io.Discard, op)
		if werr := cmd.Wait(); werr != nil {
			return nil, fmt.Errorf("pandoc: %w: %s", werr, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}
	if err = cmd.Wait(); err != nil {
		return nil, fmt.Errorf("pandoc: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return p, nil
}

// LoadFrom converts the content of r to the AST by running pandoc.
func LoadFrom(ctx context.Context, r io.Reader, conf Conf) (*Pandoc, error) {
	cmd, err := conf.loadCmd(ctx)
	if err != nil {
		return nil, err
	}
	cmd.Stdin = r
	return run(cmd)
}

// LoadFile converts files to the AST by running pandoc. Several files are
// concatenated by pandoc into one document.
func LoadFile(ctx context.Context, conf Conf, files ...string) (*Pandoc, error) {
	cmd, err := conf.loadCmd(ctx, files...)
	if err != nil {
		return nil, err
	}
	return run(cmd)
}
