// Command trias assembles a TRIAS source file into a Zarya binary image.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/golang/glog"
	"github.com/urfave/cli"

	"github.com/jenissimo/zarya/pkg/isa"
	"github.com/jenissimo/zarya/pkg/trias"
	"github.com/jenissimo/zarya/pkg/trit"
)

func main() {
	log.SetFlags(0)
	defer glog.Flush()

	app := cli.NewApp()
	app.Name = "trias"
	app.Usage = "assemble TRIAS source into a Zarya binary image"
	app.ArgsUsage = "<input.tri>"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "o",
			Value: "a.out",
			Usage: "output image path",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "trace each assembled tryte to stderr",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: trias [-o out] <input.tri>", 1)
	}
	verbose := c.Bool("v")

	fp, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer fp.Close()

	var code []trit.Tryte
	for toe := range trias.StartAssembler(fp) {
		if toe.Error != nil {
			return cli.NewExitError(toe.Error, 1)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "trias: [%d] %d\n", toe.Index, toe.Tryte.Value)
		}
		code = append(code, toe.Tryte)
	}

	outFp, err := os.Create(c.String("o"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer outFp.Close()

	if err := isa.WriteImage(outFp, code); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}
