package mylang

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Verbosity int8

const (
	QUIET   Verbosity = 0 // No output -- used when testing.
	NORMAL  Verbosity = 1 // Regular output and status update.
	VERBOSE Verbosity = 2
)

// Config holds what the command line flags select for a run.
type Config struct {
	Verbosity Verbosity
	/// Warn the first time each never-assigned name is read.
	WarnUnbound bool
}

func NewConfig() *Config {
	ret := Config{}
	ret.Verbosity = NORMAL
	return &ret
}

var (
	warningPrefix = color.New(color.FgYellow, color.Bold)
	errorPrefix   = color.New(color.FgRed, color.Bold)
)

func init() {
	// CLICOLOR_FORCE turns color on even when output is not a terminal.
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		color.NoColor = false
	}
}

// StatusPrinter writes "mylang: " prefixed diagnostics.
type StatusPrinter struct {
	config_ *Config
	out_    io.Writer
	err_    io.Writer
}

func NewStatusPrinter(config *Config, out, err io.Writer) *StatusPrinter {
	ret := StatusPrinter{}
	ret.config_ = config
	ret.out_ = out
	ret.err_ = err
	return &ret
}

func (this *StatusPrinter) Info(msg string, args ...interface{}) {
	if this.config_.Verbosity == QUIET {
		return
	}
	fmt.Fprintf(this.out_, "mylang: "+msg+"\n", args...)
}

func (this *StatusPrinter) Warning(msg string, args ...interface{}) {
	fmt.Fprint(this.err_, "mylang: ")
	warningPrefix.Fprint(this.err_, "warning: ")
	fmt.Fprintf(this.err_, msg+"\n", args...)
}

func (this *StatusPrinter) Error(msg string, args ...interface{}) {
	fmt.Fprint(this.err_, "mylang: ")
	errorPrefix.Fprint(this.err_, "error: ")
	fmt.Fprintf(this.err_, msg+"\n", args...)
}
