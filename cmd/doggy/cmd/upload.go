package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doggydelights/service/internal/client"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [FILE...]",
	Short: "Upload pictures to the gallery",
	Long: `Upload one or more local pictures, one request per file.
With --random a picture from the random dog API is staged and uploaded too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		random, _ := cmd.Flags().GetBool("random")

		files := make([]client.File, 0, len(args))
		for _, path := range args {
			f, readErr := client.ReadFile(path)
			if readErr != nil {
				return readErr
			}
			files = append(files, f)
		}

		u := newUploader(cfg)
		if random {
			if fetchErr := u.FetchRandom(cmd.Context()); fetchErr != nil {
				return fmt.Errorf("failed to fetch a random dog: %w", fetchErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Latest Pup: %s\n", u.State().Preview)
			u.Add(files...)
		} else {
			u.Select(files...)
		}

		out := cmd.OutOrStdout()
		u.OnChange(progressPrinter(out))

		results, err := u.Submit(cmd.Context())
		if errors.Is(err, client.ErrNoFile) {
			return fmt.Errorf("%w pass a FILE or --random", err)
		}
		if err != nil {
			fmt.Fprintln(out, "\nOops, Pup Got Lost!")
			return err
		}

		fmt.Fprintln(out)
		for _, res := range results {
			fmt.Fprintf(out, "%s %s\n", res.Name, res.ImageURL)
		}
		fmt.Fprintln(out, "Uploaded to the Pack!")
		return nil
	},
}

// progressPrinter redraws an "Uploading: NN%" line while uploading.
func progressPrinter(w io.Writer) func(client.State) {
	last := -1
	return func(s client.State) {
		if s.Status != client.StatusUploading || s.Progress == last {
			return
		}
		last = s.Progress
		fmt.Fprintf(w, "\rUploading: %3d%%", s.Progress)
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolP("random", "r", false, "Also upload a random dog picture")
}
