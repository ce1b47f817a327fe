package mylang

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/peterh/liner"
)

// / Command-line options.
type Options struct {
	/// Source given with -e, used instead of files.
	Inline    string
	HasInline bool

	/// Directory to change into before running.
	WorkingDir string

	/// Tool to run rather than running the program.
	Tool *Tool
}

type When int8

const (
	/// Run after parsing the command-line flags and potentially changing
	/// the current working directory (as early as possible).
	RUN_AFTER_FLAGS When = 0

	/// Run after loading the sources.
	RUN_AFTER_LOAD When = 1
)

// / The type of functions that are the entry points to tools (subcommands).
// / They get the options parsed with the tool's own option string.
type ToolFunc func(*MylangMain, *Options, []getopt.Option) int

// / Subtools, accessible via "-t foo".
type Tool struct {
	/// Short name of the tool.
	Name string

	/// Description (shown in "-t list").
	Desc string

	/// When to run the tool.
	When When

	/// getopt option string of the tool's own flags.
	Opts string

	/// Implementation of the tool.
	Func1 ToolFunc

	/// Usage text printed for -h.
	Usage string
}

// Source is one program text and the name it is reported under.
type Source struct {
	Name string
	Text string
}

type MylangMain struct {
	/// Command line used to run mylang.
	MylangCommand string

	/// Configuration set from flags.
	Config_ *Config

	Status_ *StatusPrinter

	Stdin  io.Reader
	Stdout io.Writer

	/// Loaded sources, in command line order.
	Sources []Source
}

func NewMylangMain(mylang_command string, config *Config, status *StatusPrinter) *MylangMain {
	ret := MylangMain{}
	ret.MylangCommand = mylang_command
	ret.Config_ = config
	ret.Status_ = status
	ret.Stdin = os.Stdin
	ret.Stdout = os.Stdout
	return &ret
}

// / Load the sources named by the remaining arguments: the -e text, else the
// / files, else standard input.
func (this *MylangMain) LoadSources(options *Options, files []string) error {
	this.Sources = nil
	if options.HasInline {
		if len(files) > 0 {
			return errors.New("-e and input files are mutually exclusive")
		}
		this.Sources = append(this.Sources, Source{Name: "-e", Text: options.Inline})
		return nil
	}
	if len(files) == 0 {
		text, err := io.ReadAll(this.Stdin)
		if err != nil {
			return fmt.Errorf("reading standard input: %w", err)
		}
		this.Sources = append(this.Sources, Source{Name: "<stdin>", Text: string(text)})
		return nil
	}
	for _, file := range files {
		text, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("loading '%s': %w", file, err)
		}
		this.Sources = append(this.Sources, Source{Name: file, Text: string(text)})
	}
	return nil
}

// / Run one source in its own environment. Printed values go to Stdout as
// / they are produced.
func (this *MylangMain) RunSource(src Source) error {
	stopwatch := NewStopwatch()
	if this.Config_.Verbosity == VERBOSE {
		this.Status_.Info("running %s", src.Name)
	}
	program, err := ParseSource(src.Text)
	if err != nil {
		return err
	}
	evaluator := NewEvaluator(NewBindingEnv(), this.Stdout)
	if this.Config_.WarnUnbound {
		evaluator.SetUnboundHandler(func(name string, pos int) {
			line, col := LineCol(src.Text, pos)
			this.Status_.Warning("%s:%d:%d: '%s' read before assignment, using 0", src.Name, line, col, name)
		})
	}
	if err := evaluator.Run(program); err != nil {
		return err
	}
	if this.Config_.Verbosity == VERBOSE {
		this.Status_.Info("%s: %d statements, %d variables in %.3fs", src.Name,
			len(program.Statements), evaluator.Env().Len(), stopwatch.Elapsed())
	}
	return nil
}

// / Parse every loaded source, reporting the first failure.
func (this *MylangMain) parseSources() ([]*Program, bool) {
	programs := make([]*Program, 0, len(this.Sources))
	for _, src := range this.Sources {
		program, err := ParseSource(src.Text)
		if err != nil {
			this.Status_.Error("%s", Describe(src.Name, src.Text, err))
			return nil, false
		}
		programs = append(programs, program)
	}
	return programs, true
}

func (this *MylangMain) ToolList(options *Options, opts []getopt.Option) int {
	fmt.Fprintf(this.Stdout, "mylang subtools:\n")
	for _, tool := range kTools {
		if tool.Desc != "" {
			fmt.Fprintf(this.Stdout, "%11s  %s\n", tool.Name, tool.Desc)
		}
	}
	return 0
}

func (this *MylangMain) ToolTokens(options *Options, opts []getopt.Option) int {
	for _, src := range this.Sources {
		if len(this.Sources) > 1 {
			fmt.Fprintf(this.Stdout, "== %s\n", src.Name)
		}
		tokens, err := Tokenize(src.Text)
		if err != nil {
			this.Status_.Error("%s", Describe(src.Name, src.Text, err))
			return 1
		}
		for _, token := range tokens {
			text := token.Text
			if token.Kind == EOF {
				text = "<EOF>"
			}
			fmt.Fprintf(this.Stdout, "Token: %s (%s)\n", text, token.Kind)
		}
	}
	return 0
}

func (this *MylangMain) ToolAst(options *Options, opts []getopt.Option) int {
	render := Pretty
	for _, opt := range opts {
		switch opt.Option {
		case 's':
			render = Serialize
		case 'u':
			render = func(program *Program) string {
				if len(program.Statements) == 0 {
					return ""
				}
				return Unparse(program) + "\n"
			}
		}
	}
	programs, ok := this.parseSources()
	if !ok {
		return 1
	}
	for _, program := range programs {
		fmt.Fprint(this.Stdout, render(program))
	}
	return 0
}

func (this *MylangMain) ToolGraph(options *Options, opts []getopt.Option) int {
	programs, ok := this.parseSources()
	if !ok {
		return 1
	}
	graph := NewGraphViz(this.Stdout)
	graph.Start()
	for _, program := range programs {
		graph.AddProgram(program)
	}
	graph.Finish()
	return 0
}

func (this *MylangMain) ToolFingerprint(options *Options, opts []getopt.Option) int {
	programs, ok := this.parseSources()
	if !ok {
		return 1
	}
	var digests [][]byte
	for i, program := range programs {
		digest := SourceDigest(this.Sources[i].Text)
		digests = append(digests, digest)
		fmt.Fprintf(this.Stdout, "%x  %016x  %s\n", digest, Fingerprint(program), this.Sources[i].Name)
	}
	if len(digests) > 1 {
		fmt.Fprintf(this.Stdout, "%016x  (combined)\n", FilesDigest(digests))
	}
	return 0
}

func (this *MylangMain) ToolVars(options *Options, opts []getopt.Option) int {
	for _, src := range this.Sources {
		result, err := Run(src.Text, io.Discard)
		if err != nil {
			this.Status_.Error("%s", Describe(src.Name, src.Text, err))
			return 1
		}
		if len(this.Sources) > 1 {
			fmt.Fprintf(this.Stdout, "== %s\n", src.Name)
		}
		for _, name := range result.Env.Names() {
			fmt.Fprintf(this.Stdout, "%s = %d\n", name, result.Env.LookupVariable(name))
		}
	}
	return 0
}

func (this *MylangMain) ToolRepl(options *Options, opts []getopt.Option) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	session := NewReplSession(this.Stdout)
	prompt := "> "
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(this.Stdout)
			return 0
		}
		if err != nil {
			this.Status_.Error("%v", err)
			return 1
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		more, err := session.Feed(line)
		if err != nil {
			this.Status_.Error("%s", Describe("<repl>", session.LastText(), err))
		}
		prompt = "> "
		if more {
			prompt = "... "
		}
	}
}

var kTools []Tool

func init() {
	kTools = []Tool{
		{"ast", "print the syntax tree of the sources",
			RUN_AFTER_LOAD, "hsu", (*MylangMain).ToolAst,
			"usage: mylang -t ast [-s|-u] [files...]\n" +
				"\n" +
				"options:\n" +
				"  -s     print S-expressions instead of a tree\n" +
				"  -u     print the sources back from the tree\n"},
		{"fingerprint", "print source digests and syntax tree fingerprints",
			RUN_AFTER_LOAD, "h", (*MylangMain).ToolFingerprint, ""},
		{"graph", "output graphviz dot file for the syntax tree",
			RUN_AFTER_LOAD, "h", (*MylangMain).ToolGraph, ""},
		{"repl", "read statements interactively",
			RUN_AFTER_FLAGS, "h", (*MylangMain).ToolRepl, ""},
		{"tokens", "list the tokens of the sources",
			RUN_AFTER_LOAD, "h", (*MylangMain).ToolTokens, ""},
		{"vars", "run the sources and list the final variable values",
			RUN_AFTER_LOAD, "h", (*MylangMain).ToolVars, ""},
		{"list", "", RUN_AFTER_FLAGS, "h", (*MylangMain).ToolList, ""},
	}
}

// / Find the tool called |tool_name|. "list" is answered here; nil means
// / the caller should exit with |exit_code|.
func ChooseTool(tool_name string, this *MylangMain) (*Tool, int) {
	if tool_name == "list" {
		return nil, this.ToolList(nil, nil)
	}

	var words []string
	for i := range kTools {
		if kTools[i].Name == tool_name {
			return &kTools[i], -1
		}
		words = append(words, kTools[i].Name)
	}

	suggestion := DidYouMean(tool_name, words...)
	if suggestion != "" {
		this.Status_.Error("unknown tool '%s', did you mean %s?", tool_name, suggestion)
	} else {
		this.Status_.Error("unknown tool '%s'", tool_name)
	}
	return nil, 1
}

// / Enable a debugging mode. Returns false if the caller should exit.
func DebugEnable(name string, this *MylangMain) (bool, int) {
	switch name {
	case "list":
		fmt.Fprintf(this.Stdout, "debugging modes:\n"+
			"  stats        print operation counts/timing info\n")
		return false, 0
	case "stats":
		GMetrics = NewMetrics()
		return true, -1
	}
	suggestion := DidYouMean(name, "list", "stats")
	if suggestion != "" {
		this.Status_.Error("unknown debug setting '%s', did you mean %s?", name, suggestion)
	} else {
		this.Status_.Error("unknown debug setting '%s'", name)
	}
	return false, 1
}

// / Set a warning flag. Returns false if the caller should exit.
func WarningEnable(name string, this *MylangMain) (bool, int) {
	switch name {
	case "list":
		fmt.Fprintf(this.Stdout, "warning flags:\n"+
			"  unbound={warn,off}  reading a variable that was never assigned\n")
		return false, 0
	case "unbound=warn":
		this.Config_.WarnUnbound = true
		return true, -1
	case "unbound=off":
		this.Config_.WarnUnbound = false
		return true, -1
	}
	if suggestion := DidYouMean(name, "list", "unbound=warn", "unbound=off"); suggestion != "" {
		this.Status_.Error("unknown warning flag '%s', did you mean %s?", name, suggestion)
	} else {
		this.Status_.Error("unknown warning flag '%s'", name)
	}
	return false, 1
}

// / Print usage information.
func UsageMain(w io.Writer) {
	fmt.Fprintf(w,
		"usage: mylang [options] [files...]\n"+
			"\n"+
			"runs each file in its own environment; reads standard input when no file is given.\n"+
			"\n"+
			"options:\n"+
			"  -V       print mylang version (\"%s\")\n"+
			"  -v       report each run and its timing\n"+
			"  -q       don't print informational messages\n"+
			"\n"+
			"  -C DIR   change to DIR before doing anything else\n"+
			"  -e SRC   run SRC instead of reading files\n"+
			"\n"+
			"  -d MODE  enable debugging (use '-d list' to list modes)\n"+
			"  -t TOOL  run a subtool (use '-t list' to list subtools)\n"+
			"    terminates toplevel options; further flags are passed to the tool\n"+
			"  -w FLAG  adjust warnings (use '-w list' to list warnings)\n",
		kMylangVersion)
}

// / Split argv after "-t TOOL" so the tool's own flags are not read as
// / toplevel ones. Flags may be grouped ("-qt ast", "-vtast").
func splitToolArgs(args []string) ([]string, []string) {
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" || arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}
		for j := 1; j < len(arg); j++ {
			c := arg[j]
			if !strings.ContainsRune("Cdetw", rune(c)) {
				continue
			}
			// The rest of the group is the option's argument.
			inline := j+1 < len(arg)
			if c == 't' {
				if inline {
					return args[:i+1], args[i+1:]
				}
				if i+1 < len(args) {
					return args[:i+2], args[i+2:]
				}
				return args, nil
			}
			if !inline {
				i++
			}
			break
		}
	}
	return args, nil
}

// / Parse argv for command-line options.
// / Returns an exit code, or -1 if mylang should continue. On return |args|
// / holds the operands, or the tool's own arguments when -t was given.
func ReadFlags(args *[]string, options *Options, this *MylangMain) int {
	head, tail := splitToolArgs(*args)
	opts, optind, err := getopt.Getopts(head, "C:d:e:hqt:vVw:")
	if err != nil {
		this.Status_.Error("%v", err)
		UsageMain(this.Status_.err_)
		return 1
	}
	rest := append([]string{}, head[optind:]...)
	*args = append(rest, tail...)

	for _, optV := range opts {
		opt := optV.Option
		optarg := optV.Value
		switch opt {
		case 'C':
			options.WorkingDir = optarg
		case 'd':
			if ok, exit_code := DebugEnable(optarg, this); !ok {
				return exit_code
			}
		case 'e':
			options.Inline = optarg
			options.HasInline = true
		case 'q':
			this.Config_.Verbosity = QUIET
		case 't':
			tool, exit_code := ChooseTool(optarg, this)
			if tool == nil {
				return exit_code
			}
			options.Tool = tool
		case 'v':
			this.Config_.Verbosity = VERBOSE
		case 'V':
			fmt.Fprintf(this.Stdout, "%s\n", kMylangVersion)
			return 0
		case 'w':
			if ok, exit_code := WarningEnable(optarg, this); !ok {
				return exit_code
			}
		default: // case 'h':
			UsageMain(this.Status_.err_)
			return 1
		}
	}
	return -1
}

// RealMain runs the command line |args| (args[0] is the program name) and
// returns the process exit code.
func RealMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	config := NewConfig()
	status := NewStatusPrinter(config, stdout, stderr)
	this := NewMylangMain(args[0], config, status)
	this.Stdin = stdin
	this.Stdout = stdout

	options := Options{}
	if exit_code := ReadFlags(&args, &options, this); exit_code >= 0 {
		return exit_code
	}
	if GMetrics != nil {
		defer func() {
			GMetrics.Report(stdout)
			GMetrics = nil
		}()
	}

	if options.WorkingDir != "" {
		if options.Tool == nil && config.Verbosity != QUIET {
			status.Info("Entering directory `%s'", options.WorkingDir)
		}
		if err := os.Chdir(options.WorkingDir); err != nil {
			status.Error("chdir to '%s' - %v", options.WorkingDir, err)
			return 1
		}
	}

	if tool := options.Tool; tool != nil {
		// The tool's flags are parsed with argv[0] set to its name.
		tool_args := append([]string{tool.Name}, args...)
		opts, optind, err := getopt.Getopts(tool_args, tool.Opts)
		if err != nil {
			status.Error("%s: %v", tool.Name, err)
			return 1
		}
		for _, opt := range opts {
			if opt.Option == 'h' {
				usage := tool.Usage
				if usage == "" {
					usage = fmt.Sprintf("usage: mylang -t %s [files...]\n", tool.Name)
				}
				fmt.Fprint(stderr, usage)
				return 1
			}
		}
		if tool.When == RUN_AFTER_LOAD {
			if err := this.LoadSources(&options, tool_args[optind:]); err != nil {
				status.Error("%v", err)
				return 1
			}
		}
		return tool.Func1(this, &options, opts)
	}

	if err := this.LoadSources(&options, args); err != nil {
		status.Error("%v", err)
		return 1
	}
	for _, src := range this.Sources {
		if err := this.RunSource(src); err != nil {
			status.Error("%s", Describe(src.Name, src.Text, err))
			return 1
		}
	}
	return 0
}
