package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/funvibe/funcast/internal/config"
	"github.com/funvibe/funcast/internal/manifest"
	"github.com/funvibe/funcast/pkg/cast"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	debugDump    bool
	noColor      bool
	settingsPath string
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "funcast",
		Short:        "Capability lint for the funcast coercion engine",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	checkCmd := &cobra.Command{
		Use:   "check <manifest.yaml>",
		Short: "Resolve every declared (type, kind) pair in a manifest and report the outcomes",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	checkCmd.Flags().BoolVar(&debugDump, "debug", false, "dump the parsed manifest")
	checkCmd.Flags().StringVar(&settingsPath, "settings", "", "path to engine settings YAML")
	rootCmd.AddCommand(checkCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	path := args[0]
	if !config.IsManifestFile(path) {
		log.Warnf("%s does not look like a manifest (want %v)", path, config.ManifestFileExtensions)
	}

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	if debugDump {
		spew.Fdump(os.Stderr, m)
	}

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	var opts []cast.Option
	if settings.StrictBool {
		opts = append(opts, cast.WithStrictBool())
	}

	eng := cast.New(opts...)
	entries := manifest.Check(m, eng)

	conflicts := 0
	for _, e := range entries {
		fmt.Println(render(e))
		if e.Conflicted() {
			conflicts++
		}
	}
	if conflicts > 0 {
		return fmt.Errorf("%d conflicting declaration(s)", conflicts)
	}
	return nil
}

func render(e manifest.Entry) string {
	pair := fmt.Sprintf("%-20s %-8s", e.Type, e.Kind)
	if e.Err != nil {
		return fmt.Sprintf("%s %s  %v", pair, paint("ERROR", colorRed), e.Err)
	}
	switch e.Outcome.State {
	case cast.Supported:
		note := "via " + e.Outcome.Mechanism.String()
		if e.Outcome.Deferred {
			note += " (shape checked at call time)"
		}
		return fmt.Sprintf("%s %s  %s", pair, paint("SUPPORTED", colorGreen), note)
	case cast.Conflicting:
		return fmt.Sprintf("%s %s  %s", pair, paint("CONFLICT", colorRed), e.Outcome.Failure.Message)
	default:
		return fmt.Sprintf("%s %s", pair, paint("UNSUPPORTED", colorYellow))
	}
}

func paint(s, color string) string {
	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return color + s + colorReset
}
