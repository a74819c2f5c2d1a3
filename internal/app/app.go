package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "crawl":
		return runCrawl(args[1:])
	case "serve":
		return runServe(args[1:])
	case "stats":
		return runStats(args[1:])
	case "export":
		return runExport(args[1:])
	case "clean":
		return runClean(args[1:])
	case "import":
		return runImport(args[1:])
	case "keywords":
		return runKeywords(args[1:])
	case "health":
		return runHealth(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "lexwatch CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lexwatch <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  crawl     Run one incremental harvest against EUR-Lex")
	fmt.Fprintln(os.Stderr, "  serve     Start the dashboard API server (optionally with scheduled crawls)")
	fmt.Fprintln(os.Stderr, "  stats     Show corpus statistics")
	fmt.Fprintln(os.Stderr, "  export    Export filtered documents as CSV")
	fmt.Fprintln(os.Stderr, "  clean     Remove duplicates from the persisted corpus")
	fmt.Fprintln(os.Stderr, "  import    Run schema-validated raw records through the pipeline")
	fmt.Fprintln(os.Stderr, "  keywords  Show the classification keyword groups")
	fmt.Fprintln(os.Stderr, "  health    Verify data directory and source reachability")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"lexwatch <command> -h\" for command-specific flags.")
}
