package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/tebeka/atexit"
)

// FlagInfo represents information about a command flag.
type FlagInfo struct {
	Name    string
	Usage   string
	Default string
}

// CommandInfo describes the invocation of a tool.
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
	Examples    []string
	Flags       []FlagInfo
}

// PrintUsage writes a standardized usage message.
func PrintUsage(w io.Writer, cmd CommandInfo) {
	fmt.Fprintf(w, "%s - %s\n\n", cmd.Name, cmd.Description)
	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "    %s\n\n", cmd.Usage)

	if len(cmd.Flags) > 0 {
		fmt.Fprintf(w, "OPTIONS:\n")
		for _, flag := range cmd.Flags {
			fmt.Fprintf(w, "%-20s %s\n", "    -"+flag.Name, flag.Usage)
			if flag.Default != "" {
				fmt.Fprintf(w, "%-20s Default: %s\n", "", flag.Default)
			}
		}
		fmt.Fprintf(w, "\n")
	}

	if len(cmd.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range cmd.Examples {
			fmt.Fprintf(w, "    %s\n", example)
		}
		fmt.Fprintf(w, "\n")
	}
}

// ExitWithError prints an error message, runs the registered exit
// handlers and exits with code 1.
func ExitWithError(format string, args ...interface{}) {
	ExitWithCode(1, "Error: "+format, args...)
}

// ExitWithCode runs the registered exit handlers and exits with the
// specified code and optional message.
func ExitWithCode(code int, format string, args ...interface{}) {
	if format != "" {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
	atexit.Exit(code)
}

// HandleError exits through ExitWithError when err is not nil.
func HandleError(err error, logger *Logger) {
	if err == nil {
		return
	}
	if logger != nil {
		logger.Error("%v", err)
		atexit.Exit(1)
	}
	ExitWithError("%v", err)
}
