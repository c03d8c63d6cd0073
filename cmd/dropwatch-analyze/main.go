package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/dropwatch/internal/model"
	"github.com/tinytelemetry/dropwatch/internal/report"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var showVersion bool

	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Dropwatch Analyzer - Drop Log Reports\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	path := logPath(flag.Args())
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: drop log %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("Drop log report: %s\n\n", path)
	if err := report.Write(os.Stdout, report.FromFile(path)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// logPath resolves the log file: positional argument, then DROPWATCH_LOGFILE,
// then the shared default.
func logPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	v := viper.New()
	v.SetEnvPrefix("DROPWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetDefault("logfile", model.DefaultLogPath)
	return v.GetString("logfile")
}
