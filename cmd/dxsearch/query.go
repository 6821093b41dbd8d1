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
	"strings"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ianlewis/go-doxsearch"
	"github.com/ianlewis/go-doxsearch/searchdata"
)

// ErrNoQuery indicates that no query was given.
var ErrNoQuery = fmt.Errorf("%w: no query", ErrFlagParse)

var queryCommand = &cli.Command{
	Name:      "query",
	Usage:     "Query search indexes",
	ArgsUsage: "QUERY...",
	Description: strings.Join([]string{
		"Search the indexes for entries whose name contains QUERY, ignoring case.",
		"With --prefix, only entries whose name starts with QUERY are returned.",
	}, "\n"),
	OnUsageError: usageError,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "section",
			Usage:   "search the index section `NAME`",
			Aliases: []string{"s"},
			Value:   "all",
		},
		&cli.BoolFlag{
			Name:               "prefix",
			Usage:              "match entry names by prefix",
			Aliases:            []string{"p"},
			DisableDefaultText: true,
		},
		&cli.BoolFlag{
			Name:               "fold-space",
			Usage:              "ignore leading, trailing and repeated whitespace",
			DisableDefaultText: true,
		},
	},
	Action: func(c *cli.Context) error {
		query := strings.Join(c.Args().Slice(), " ")
		if strings.TrimSpace(query) == "" {
			return ErrNoQuery
		}
		section := c.String("section")

		paths, explicit := sitePaths(c, nil)
		sites, errs := openSites(c, paths, explicit)
		for _, err := range errs {
			fmt.Fprintln(c.App.ErrWriter, err)
		}

		log := logger(c)
		tbl := table.New("Name", "Scope", "URL").WithWriter(c.App.Writer)
		for _, site := range sites {
			var entries []*searchdata.Entry
			var err error
			if c.Bool("prefix") {
				entries, err = site.Search(section, query)
			} else {
				entries, err = site.Find(c.Context, section, query)
			}
			if errors.Is(err, doxsearch.ErrUnknownSection) {
				log.Debug("skipping site without section",
					zap.String("dir", site.Dir()),
					zap.String("section", section))
				continue
			}
			if err != nil {
				fmt.Fprintln(c.App.ErrWriter, err)
				errs = append(errs, err)
				continue
			}

			for _, e := range entries {
				for _, target := range e.Targets {
					tbl.AddRow(e.Label, target.ScopeText(), site.ResolveURL(target))
				}
			}
		}
		tbl.Print()

		if len(errs) > 0 {
			return fmt.Errorf("%w: %d errors", ErrDxsearch, len(errs))
		}
		return nil
	},
}
