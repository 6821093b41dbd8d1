// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ianlewis/go-doxsearch"
	"github.com/ianlewis/go-doxsearch/internal/folding"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrDxsearch is a parent error for all command errors.
var ErrDxsearch = errors.New("dxsearch")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrDxsearch)

// ErrOpen indicates that one or more search directories could not be opened.
var ErrOpen = fmt.Errorf("%w: opening search directories", ErrDxsearch)

const loggerKey = "logger"

var copyrightNames = []string{
	"2025 Ian Lewis",
}

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we don't use commands.
	//
	// This is done because `dxsearch --help foo` will display a
	// "command foo not found" error instead of the help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

// logger returns the logger created by the app's Before hook.
func logger(c *cli.Context) *zap.Logger {
	if l, ok := c.App.Metadata[loggerKey].(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{"stderr"}
	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: creating logger: %w", ErrDxsearch, err)
	}
	return l, nil
}

// openSites opens all search directories under the given paths. Missing
// default locations are skipped.
func openSites(c *cli.Context, paths []string, explicit bool) ([]*doxsearch.Site, []error) {
	log := logger(c)
	opts := &doxsearch.Options{
		Logger: log,
	}
	if c.Bool("fold-space") {
		opts.Folder = folding.Loose
	}

	var sites []*doxsearch.Site
	var errs []error
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
			log.Debug("skipping missing location", zap.String("path", path))
			continue
		}

		openSites, openErrs := doxsearch.OpenAll(path, opts)
		sites = append(sites, openSites...)
		errs = append(errs, openErrs...)
	}

	return sites, errs
}

// sitePaths returns the paths given as arguments, falling back to the
// --search-dir locations. It reports whether the paths were given explicitly.
func sitePaths(c *cli.Context, args []string) ([]string, bool) {
	if len(args) > 0 {
		return args, true
	}
	return c.StringSlice("search-dir"), c.IsSet("search-dir")
}

func usageError(_ *cli.Context, err error, _ bool) error {
	return fmt.Errorf("%w: %w", ErrFlagParse, err)
}

func newDxsearchApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Search Doxygen documentation indexes.",
		Description: strings.Join([]string{
			"Doxygen search index utility written in Go.",
			"http://github.com/ianlewis/go-doxsearch",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "search-dir",
				Usage:   "include search indexes under `DIR`",
				Aliases: []string{"d"},
				EnvVars: []string{"DOXSEARCH_DIR"},
				Value:   cli.NewStringSlice(searchLocations()...),
			},
			&cli.BoolFlag{
				Name:               "verbose",
				Usage:              "print debug logs to stderr",
				Aliases:            []string{"v"},
				DisableDefaultText: true,
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		OnUsageError:    usageError,
		Metadata:        map[string]interface{}{},
		Before: func(c *cli.Context) error {
			l, err := newLogger(c.Bool("verbose"))
			if err != nil {
				return err
			}
			c.App.Metadata[loggerKey] = l
			return nil
		},
		After: func(c *cli.Context) error {
			// Sync errors on terminals are expected.
			_ = logger(c).Sync()
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}

			check(cli.ShowAppHelp(c))
			return nil
		},
		Commands: []*cli.Command{
			listCommand,
			queryCommand,
			versionCommand,
		},
	}
}
