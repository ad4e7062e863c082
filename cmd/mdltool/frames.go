package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sergioffpc/quake-go/pkg/formats"
)

func framesCmd() *cli.Command {
	return &cli.Command{
		Name:      "frames",
		Usage:     "List the model's keyframes",
		ArgsUsage: "<model>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return cli.Exit("error: mdltool frames <model>", 1)
			}

			mdl, cleanup, err := resolveModel(ctx, cmd.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer cleanup()

			for i, kf := range mdl.Keyframes {
				switch k := kf.(type) {
				case *formats.StaticKeyframe:
					fmt.Printf("%4d  %-16s min=%v max=%v\n",
						i, k.Frame.Name, k.Frame.Min, k.Frame.Max)
				case *formats.AnimatedKeyframe:
					fmt.Printf("%4d  (group of %d) min=%v max=%v\n",
						i, len(k.Frames), k.Min, k.Max)
					for j, tf := range k.Frames {
						fmt.Printf("      %4d.%-2d %-16s %v\n",
							i, j, tf.Frame.Name, tf.Duration)
					}
				}
			}
			return nil
		},
	}
}
