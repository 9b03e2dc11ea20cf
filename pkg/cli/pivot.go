package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/cli/config"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdPivot() *cli.Command {
	var (
		vocabularyCfg config.Vocabulary
		output        string
		compact       bool
	)

	flags := joinFlags(
		vocabularyCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Write the matrix to this file instead of stdout",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "compact",
				Usage:       "Print the matrix on a single line",
				Destination: &compact,
			},
		},
	)

	return &cli.Command{
		Name:      "pivot",
		Usage:     "Pivot flat {project,status,count} records into a project by status matrix",
		ArgsUsage: "[records.json]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			vocab, err := vocabularyCfg.Configure()
			if err != nil {
				return err
			}

			var in io.Reader = c.Root().Reader
			if path := c.Args().First(); path != "" && path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return goerr.Wrap(err, "failed to open records file", goerr.V("path", path))
				}
				defer f.Close()
				in = f
			}

			var records []model.StatusCountRecord
			if err := json.NewDecoder(in).Decode(&records); err != nil && err != io.EOF {
				return goerr.Wrap(err, "failed to decode status records")
			}

			var out io.Writer = c.Root().Writer
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			if !compact {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(vocab.Pivot(records)); err != nil {
				return goerr.Wrap(err, "failed to write status matrix")
			}
			return nil
		},
	}
}
