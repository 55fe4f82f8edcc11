package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Fetch a random dog picture and save it for a later upload",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("out")

		u := newUploader(cfg)
		if err := u.FetchRandom(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch a random dog: %w", err)
		}
		st := u.State()
		if err := os.WriteFile(outPath, st.Staged[0].Data, 0o644); err != nil {
			return fmt.Errorf("failed to save picture: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Latest Pup: %s\n", st.Preview)
		fmt.Fprintf(out, "Saved to %s; upload it with: doggy upload %s\n", outPath, outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(randomCmd)

	randomCmd.Flags().StringP("out", "o", "DogImage.jpg", "Where to save the picture")
}
