// Guessfilename
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Guessfilename.
//
// Guessfilename is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Guessfilename is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Guessfilename.  If not, see <http://www.gnu.org/licenses/>.

// Package cli implements the guessfilename command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/guessfilename/pkg/config"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/deriver"
	"github.com/ZaparooProject/guessfilename/pkg/helpers"
	"github.com/ZaparooProject/guessfilename/pkg/organizer"
	"github.com/ZaparooProject/guessfilename/pkg/renamer"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrNoPaths is returned when no file or directory was given.
var ErrNoPaths = errors.New("no files or directories given")

type Flags struct {
	DryRun    *bool
	Recursive *bool
	Watch     *bool
	CheckSize *bool
	Report    *string
	Config    *string
	Verbose   *bool
	Quiet     *bool
	Version   *bool
	set       *flag.FlagSet
}

// SetupFlags defines all flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		DryRun: fs.Bool(
			"dryrun",
			false,
			"only print what would be renamed",
		),
		Recursive: fs.Bool(
			"recursive",
			false,
			"include files in subdirectories",
		),
		Watch: fs.Bool(
			"watch",
			false,
			"keep running and rename new files in the given directories",
		),
		CheckSize: fs.Bool(
			"checksize",
			false,
			"warn about broadcast files whose size does not fit their duration",
		),
		Report: fs.String(
			"report",
			"",
			"write the rename plan as CSV to this file",
		),
		Config: fs.String(
			"config",
			"",
			"path to config file (default: "+config.CfgFile+" in the user config dir)",
		),
		Verbose: fs.Bool(
			"verbose",
			false,
			"enable debug output",
		),
		Quiet: fs.Bool(
			"quiet",
			false,
			"only output errors",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

// Paths returns the positional arguments.
func (f *Flags) Paths() []string {
	return f.set.Args()
}

// Env is everything a run needs from the outside world.
type Env struct {
	Fs         afero.Fs
	Stdout     io.Writer
	Stderr     io.Writer
	Paths      helpers.Paths
	LogWriters []io.Writer
}

// DefaultEnv works on the real filesystem and the XDG directories.
func DefaultEnv() Env {
	return Env{
		Fs:     afero.NewOsFs(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Paths:  helpers.DefaultPaths(),
	}
}

// Setup prepares directories and logging, then loads the config file
// and any keyword rule files.
//
//nolint:gocritic // config struct copied for immutability
func Setup(env *Env, f *Flags, defaults config.Values) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(env.Fs, env.Paths); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped
	}

	if err := helpers.InitLogging(env.Paths.LogDir, env.LogWriters); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	var cfg *config.Instance
	var err error
	if *f.Config != "" {
		cfg, err = config.NewConfigAt(env.Fs, *f.Config, defaults)
	} else {
		cfg, err = config.NewConfig(env.Fs, env.Paths.ConfigDir, defaults)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	helpers.SetLogLevel(*f.Verbose, *f.Quiet, cfg.DebugLogging())

	rulesDir := env.Paths.RulesDir()
	if ok, _ := afero.DirExists(env.Fs, rulesDir); ok {
		if err := cfg.LoadKeywordRules(rulesDir); err != nil {
			log.Warn().Err(err).Msg("failed to load keyword rule files")
		}
	}

	return cfg, nil
}

// Run executes the command line in args, without the program name.
func Run(ctx context.Context, env *Env, args []string) error {
	fset := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fset.SetOutput(env.Stderr)
	fset.Usage = func() {
		_, _ = fmt.Fprintf(env.Stderr, "Usage: %s [flags] FILE|DIR...\n", config.AppName)
		fset.PrintDefaults()
	}
	flags := SetupFlags(fset)

	if err := fset.Parse(args); errors.Is(err, flag.ErrHelp) {
		return nil
	} else if err != nil {
		return err //nolint:wrapcheck // flag package already reported it
	}

	if *flags.Version {
		_, _ = fmt.Fprintf(env.Stdout, "%s v%s\n", config.AppName, config.AppVersion)
		return nil
	}

	paths := flags.Paths()
	if len(paths) == 0 {
		fset.Usage()
		return ErrNoPaths
	}

	cfg, err := Setup(env, flags, config.BaseDefaults)
	if err != nil {
		return err
	}

	d := deriver.New(cfg.KeywordRules(), cfg.Plausibility())
	org := organizer.New(env.Fs, d, renamer.New(env.Fs, *flags.DryRun))
	org.SetCheckSizes(*flags.CheckSize)

	entries, sum, runErr := org.Run(ctx, paths, *flags.Recursive)
	printEntries(env.Stdout, entries, *flags.DryRun)
	if !*flags.Quiet {
		printSummary(env.Stdout, sum)
	}

	if *flags.Report != "" && entries != nil {
		if err := organizer.SaveReport(env.Fs, *flags.Report, entries); err != nil {
			return err //nolint:wrapcheck // already wrapped
		}
		log.Info().Str("path", *flags.Report).Msg("wrote rename report")
	}

	if runErr != nil {
		runErr = fmt.Errorf("renaming files: %w", runErr)
		if !*flags.Watch {
			return runErr
		}
		log.Error().Err(runErr).Msg("initial batch had failures, watching anyway")
	}

	if *flags.Watch {
		if err := watch(ctx, env, org, paths, *flags.DryRun); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

func watch(ctx context.Context, env *Env, org *organizer.Organizer, paths []string, dryRun bool) error {
	var dirs []string
	for _, p := range paths {
		if ok, _ := afero.DirExists(env.Fs, p); ok {
			dirs = append(dirs, p)
		}
	}
	if len(dirs) == 0 {
		return errors.New("watch mode needs at least one directory")
	}

	w := organizer.NewWatcher(org, dirs, organizer.DefaultDebounce,
		func(entries []organizer.Entry, _ organizer.Summary, _ error) {
			printEntries(env.Stdout, entries, dryRun)
		})
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}
	defer w.Stop()

	<-ctx.Done()
	log.Info().Msg("stopped watching")
	return nil
}

func printEntries(w io.Writer, entries []organizer.Entry, dryRun bool) {
	for i := range entries {
		e := &entries[i]
		switch e.Status {
		case organizer.StatusRenamed:
			verb := "renamed"
			if dryRun {
				verb = "would rename"
			}
			_, _ = fmt.Fprintf(w, "%s: %q -> %q\n", verb, e.Path(), e.New)
		case organizer.StatusCollision, organizer.StatusSkipped, organizer.StatusFailed:
			if e.Note == "" {
				_, _ = fmt.Fprintf(w, "%s: %q -> %q\n", e.Status, e.Path(), e.New)
			} else {
				_, _ = fmt.Fprintf(w, "%s: %q -> %q (%s)\n", e.Status, e.Path(), e.New, e.Note)
			}
		case organizer.StatusUnchanged, organizer.StatusRename:
		}
	}
}

func printSummary(w io.Writer, sum organizer.Summary) {
	_, _ = fmt.Fprintf(w,
		"%d renamed, %d unchanged, %d collisions, %d skipped, %d failed\n",
		sum.Renamed, sum.Unchanged, sum.Collisions, sum.Skipped, sum.Failed)
}
