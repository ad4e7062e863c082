package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sergioffpc/quake-go/internal/engine/anim"
)

func clipsCmd() *cli.Command {
	return &cli.Command{
		Name:      "clips",
		Usage:     "List the animation clips grouped from the model's keyframes",
		ArgsUsage: "<model>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return cli.Exit("error: mdltool clips <model>", 1)
			}

			mdl, cleanup, err := resolveModel(ctx, cmd.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer cleanup()

			library := anim.Build(mdl)
			for _, name := range library.Names() {
				clip, _ := library.Clip(name)
				fmt.Printf("%-16s %3d keyframes  period=%v\n",
					name, clip.Len(), clip.Period())
			}
			return nil
		},
	}
}
