package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/1broseidon/tiletree/internal/commands"
	"github.com/1broseidon/tiletree/internal/ipc"
	"github.com/1broseidon/tiletree/internal/layoutfile"
)

// newClientFlags registers the shared --socket flag.
func newClientFlags(name, usage string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "IPC socket path (default: $XDG_RUNTIME_DIR/tiletree.sock)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	return fs, socket
}

func clientFor(socket string) *ipc.Client {
	if socket == "" {
		return ipc.NewClient()
	}
	return ipc.NewClientWithSocket(socket)
}

func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

// exitCode maps a command outcome to the process exit status.
func exitCode(res *commands.Result) int {
	switch res.Status {
	case commands.StatusSuccess:
		return 0
	case commands.StatusInvalid:
		return 2
	default:
		return 1
	}
}

func printResult(res *commands.Result) int {
	if !res.Success() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", res.Status, res.Error)
	}
	return exitCode(res)
}

func runCommand(args []string) int {
	fs, socket := newClientFlags("command", "tiletree command [--socket PATH] <command line>")
	// Command lines carry their own flags, e.g. "mark --add x".
	fs.SetInterspersed(false)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	res, err := clientFor(*socket).RunCommand(strings.Join(fs.Args(), " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printResult(res)
}

func runSwap(args []string) int {
	fs, socket := newClientFlags("swap", "tiletree swap [--con-id N] <id|con_id|mark> <arg>")
	conID := fs.Uint64("con-id", 0, "Swap this container instead of the focused one")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	line := fmt.Sprintf("swap container with %s %s", fs.Arg(0), commands.Quote(fs.Arg(1)))
	if *conID != 0 {
		line = fmt.Sprintf("[con_id=%d] %s", *conID, line)
	}
	res, err := clientFor(*socket).RunCommand(line)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printResult(res)
}

func runTree(args []string) int {
	fs, socket := newClientFlags("tree", "tiletree tree [--json|--yaml] [--save PATH]")
	asJSON := fs.Bool("json", false, "Print the tree as JSON")
	asYAML := fs.Bool("yaml", false, "Print the tree as a YAML layout file")
	save := fs.String("save", "", "Write the tree as a layout file (.json or .yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "tree takes no arguments")
		fs.Usage()
		return 2
	}

	f, err := clientFor(*socket).GetTree()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *save != "" {
		if err := layoutfile.Write(*save, f); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("saved %d containers to %s\n", f.Count(), *save)
		return 0
	}

	format := ""
	switch {
	case *asJSON:
		format = "json"
	case *asYAML:
		format = "yaml"
	case !term.IsTerminal(int(os.Stdout.Fd())):
		// Piped output stays loadable as a layout file.
		format = "yaml"
	}

	switch format {
	case "json":
		data, err := layoutfile.Marshal(f, layoutfile.FormatJSON)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		os.Stdout.Write(data)
	case "yaml":
		data, err := layoutfile.Marshal(f, layoutfile.FormatYAML)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		os.Stdout.Write(data)
	default:
		width := 0
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
		renderTree(os.Stdout, f, width)
	}
	return 0
}

func runStatus(args []string) int {
	fs, socket := newClientFlags("status", "tiletree status [--json]")
	asJSON := fs.Bool("json", false, "Print status as JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := clientFor(*socket).GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running:    %v\n", status.DaemonRunning)
	fmt.Fprintf(w, "uptime_seconds:    %d\n", status.UptimeSeconds)
	fmt.Fprintf(w, "outputs:           %d\n", status.Outputs)
	fmt.Fprintf(w, "workspaces:        %d\n", status.Workspaces)
	fmt.Fprintf(w, "containers:        %d\n", status.Containers)
	if status.FocusedID != 0 {
		fmt.Fprintf(w, "focused:           #%d %s\n", status.FocusedID, status.FocusedName)
	}
	fmt.Fprintf(w, "focused_workspace: %s\n", status.FocusedWorkspace)
	fmt.Fprintf(w, "commands_run:      %d\n", status.CommandsRun)
	fmt.Fprintf(w, "log_level:         %s\n", status.LogLevel)
	fmt.Fprintf(w, "tracing_enabled:   %v\n", status.TracingEnabled)
}

func runReload(args []string) int {
	fs, socket := newClientFlags("reload", "tiletree reload")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if err := clientFor(*socket).Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}
