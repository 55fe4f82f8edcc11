package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doggydelights/service/internal/client"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Show the gallery, refreshing it until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		once, _ := cmd.Flags().GetBool("once")
		live, _ := cmd.Flags().GetBool("live")
		if interval, _ := cmd.Flags().GetDuration("interval"); interval > 0 {
			cfg.Interval = interval
		}

		api := client.New(cfg.Server, nil)
		out := cmd.OutOrStdout()
		render := func(images []client.Image) { renderGallery(out, images) }

		switch {
		case once:
			images, err := api.Gallery(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch gallery: %w", err)
			}
			render(images)
			return nil
		case live:
			return api.Watch(cmd.Context(), render)
		default:
			client.NewPoller(api, cfg.Interval, render, slog.Default()).Run(cmd.Context())
			return nil
		}
	},
}

func renderGallery(w io.Writer, images []client.Image) {
	fmt.Fprintln(w, "Doggy Hall of Fame")
	if len(images) == 0 {
		fmt.Fprintln(w, "No images yet. Upload some adorable doggos!")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tURL")
	for _, img := range images {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", img.Name, img.ID, img.ImageURL)
	}
	_ = tw.Flush()
}

func init() {
	rootCmd.AddCommand(galleryCmd)

	galleryCmd.Flags().Bool("once", false, "Print the gallery once and exit")
	galleryCmd.Flags().Bool("live", false, "Follow server push updates instead of polling")
	galleryCmd.Flags().Duration("interval", 0, "Polling interval, overrides the config file")
	galleryCmd.MarkFlagsMutuallyExclusive("once", "live")
}
