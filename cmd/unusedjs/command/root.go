// Package command builds the unusedjs CLI surface with spf13/cobra, matching
// the flag contract in §6 exactly plus the §10.1 ambient additions.
package command

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/1homsi/unusedjs/internal/analysis"
	"github.com/1homsi/unusedjs/internal/config"
	"github.com/1homsi/unusedjs/internal/logging"
	"github.com/1homsi/unusedjs/internal/pluginhost"
	"github.com/1homsi/unusedjs/internal/report"
)

var version = "dev"

type flags struct {
	entry              []string
	project            []string
	ignore             []string
	cwd                string
	format             string
	includeNodeModules bool
	configPath         string
	jobs               int
	verbose            bool
	mode               string
}

// Execute builds and runs the root command, returning the process exit code.
func Execute() int {
	var f flags

	var showVersion bool

	root := &cobra.Command{
		Use:   "unusedjs",
		Short: "Find JS/TS files unreachable from any entry point",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(version)
				return nil
			}
			return runRoot(f)
		},
	}
	root.Flags().SortFlags = false
	root.Flags().BoolVarP(&showVersion, "version", "V", false, "print the version number")

	root.Flags().StringArrayVarP(&f.entry, "entry", "e", nil, "entry glob pattern (repeatable, required)")
	root.Flags().StringArrayVarP(&f.project, "project", "p", nil, "project glob pattern (repeatable)")
	root.Flags().StringArrayVarP(&f.ignore, "ignore", "i", nil, "ignore glob pattern (repeatable)")
	root.Flags().StringVar(&f.cwd, "cwd", "", "working directory (default: process cwd)")
	root.Flags().StringVar(&f.format, "format", "text", "output format: text|json")
	root.Flags().BoolVar(&f.includeNodeModules, "include-node-modules", false, "resolve bare specifiers into node_modules")
	root.Flags().StringVar(&f.configPath, "config", "", "path to unusedjs.config.jsonc")
	root.Flags().IntVar(&f.jobs, "jobs", 0, "max concurrent file reads per wave (default: number of CPUs)")
	root.Flags().BoolVar(&f.verbose, "verbose", false, "enable debug logging")
	root.Flags().StringVar(&f.mode, "mode", "unused", "report mode: unused|reachable")

	root.AddCommand(newExplainCommand(&f))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// exitCode is set by runRoot/runExplain since cobra's RunE only reports an
// error, not an exit code — mirroring how the teacher's subcommands each
// return an int from their own Run(args []string) function.
var exitCode int

func runRoot(f flags) error {
	if f.verbose {
		logging.SetVerbose(true)
	}

	cwd := f.cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			exitCode = 1
			return err
		}
		cwd = wd
	}

	file, err := config.Load(f.configPath, cwd)
	if err != nil {
		exitCode = 1
		return err
	}

	opts := mergeConfig(f, file, cwd)

	if len(opts.Entry) == 0 {
		exitCode = 1
		return fmt.Errorf("--entry is required (or set \"entry\" in %s)", config.DefaultFileName)
	}

	result, err := analysis.Run(context.Background(), opts)
	if err != nil {
		exitCode = 1
		return err
	}

	for _, issue := range result.Issues {
		logging.Warnf("%s", issue.String())
	}

	switch f.mode {
	case "reachable":
		return writeReachable(f, result)
	default:
		return writeUnused(f, result)
	}
}

func mergeConfig(f flags, file config.File, cwd string) analysis.Options {
	opts := analysis.Options{
		Cwd:                cwd,
		Entry:              f.entry,
		Project:            f.project,
		Ignore:             f.ignore,
		IncludeNodeModules: f.includeNodeModules,
		Jobs:               f.jobs,
	}
	if len(opts.Entry) == 0 {
		opts.Entry = file.Entry
	}
	if len(opts.Project) == 0 {
		opts.Project = file.Project
	}
	if len(opts.Ignore) == 0 {
		opts.Ignore = file.Ignore
	}
	if !opts.IncludeNodeModules {
		opts.IncludeNodeModules = file.IncludeNodeModules
	}
	opts.Plugins = pluginConfig(file)
	return opts
}

// pluginConfig translates the config file's loosely-typed "plugins" map into
// the Plugin Host's three-state Config, via File.PluginMode.
func pluginConfig(file config.File) pluginhost.Config {
	if len(file.Plugins) == 0 {
		return nil
	}
	cfg := make(pluginhost.Config, len(file.Plugins))
	for name := range file.Plugins {
		forceOn, forceOff := file.PluginMode(name)
		switch {
		case forceOn:
			cfg[name] = pluginhost.ForceOn
		case forceOff:
			cfg[name] = pluginhost.ForceOff
		}
	}
	return cfg
}

func writeUnused(f flags, result *analysis.Result) error {
	u := report.Unused{
		UnusedFiles: relativize(result.Collector, result.Engine.Unused),
		TotalFiles:  len(result.Collector.ProjectSet),
		UnusedCount: len(result.Engine.Unused),
	}
	if f.format == "json" {
		if err := report.WriteJSON(os.Stdout, u); err != nil {
			exitCode = 1
			return err
		}
	} else {
		report.WriteText(os.Stdout, u)
	}

	if u.UnusedCount != 0 {
		exitCode = 1
	}
	return nil
}

func writeReachable(f flags, result *analysis.Result) error {
	files := make([]string, 0, len(result.Engine.Reachable))
	for fileID := range result.Engine.Reachable {
		files = append(files, result.Collector.Rel(fileID))
	}
	sort.Strings(files)
	r := report.Reachable{ReachableFiles: files}
	if f.format == "json" {
		if err := report.WriteJSON(os.Stdout, r); err != nil {
			exitCode = 1
			return err
		}
	} else {
		report.WriteReachableText(os.Stdout, r)
	}
	return nil
}

func relativize(coll interface{ Rel(string) string }, fileIDs []string) []string {
	out := make([]string, len(fileIDs))
	for i, f := range fileIDs {
		out[i] = coll.Rel(f)
	}
	return out
}
