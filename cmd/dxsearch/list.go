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
	"fmt"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var listCommand = &cli.Command{
	Name:         "list",
	Usage:        "List search indexes",
	ArgsUsage:    "[DIR]...",
	Description:  "List the sections of all search indexes under the given directories.",
	OnUsageError: usageError,
	Action: func(c *cli.Context) error {
		paths, explicit := sitePaths(c, c.Args().Slice())
		sites, errs := openSites(c, paths, explicit)
		for _, err := range errs {
			fmt.Fprintln(c.App.ErrWriter, err)
		}

		tbl := table.New("Directory", "Section", "Label", "Fragments").WithWriter(c.App.Writer)
		for _, site := range sites {
			for _, sec := range site.Sections() {
				tbl.AddRow(site.Dir(), sec.Name, sec.Label, len(sec.Chars()))
			}
		}
		tbl.Print()

		if len(errs) > 0 {
			return fmt.Errorf("%w: %d errors", ErrOpen, len(errs))
		}
		return nil
	},
}
