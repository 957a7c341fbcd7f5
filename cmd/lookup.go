package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arunsworld/nursery"
	"github.com/spf13/cobra"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/lyrics"
	"github.com/harmonix-bot/harmonix-web/provider"
	"github.com/harmonix-bot/harmonix-web/recommend"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
)

func init() {
	cmdRoot.AddCommand(cmdLookup())
}

func cmdLookup() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "lookup",
		Short:        "Utility to lookup for tracks in order to investigate general querying behaviour",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("no query has been issued")
			}
			recommendations, _ := cmd.Flags().GetBool("recommendations")

			tracks, err := provider.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(tracks) == 0 {
				fmt.Println("no results")
				return nil
			}

			var (
				lyricsChannel    = make(chan *entity.Track, 1)
				recommendChannel = make(chan *entity.Track, 1)
			)
			return nursery.RunConcurrently(
				func(ctx context.Context, ch chan error) {
					defer close(lyricsChannel)
					defer close(recommendChannel)
					for _, track := range tracks {
						fmt.Println("[T]", track.ID, track.Author, track.Title)
						lyricsChannel <- track
						if recommendations {
							recommendChannel <- track
						}
					}
				},
				func(ctx context.Context, ch chan error) {
					prefix := "[L]"
					for track := range lyricsChannel {
						lines, err := lyrics.Search(track, ctx)
						switch {
						case err != nil:
							fmt.Println(colorRed+prefix, track.ID, err, colorReset)
						case len(lines) == 0:
							fmt.Println(prefix, track.ID, "no lyrics found")
						default:
							fmt.Println(prefix, track.ID, len(lines), "lines")
						}
					}
				},
				func(ctx context.Context, ch chan error) {
					var (
						prefix   = "[R]"
						resolver = recommend.NewResolver()
					)
					for track := range recommendChannel {
						matches, err := resolver.Recommend(ctx, track, nil)
						if err != nil {
							fmt.Println(colorRed+prefix, track.ID, err, colorReset)
							continue
						}
						for _, match := range matches {
							fmt.Println(prefix, track.ID, "->", match.ID, match.Title)
						}
					}
				})
		},
	}
	cmd.Flags().BoolP("recommendations", "r", false, "Resolve recommendations for every result")
	return cmd
}
