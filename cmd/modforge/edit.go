package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <bundle-path> [local-file]",
	Short: "Overwrite one file of the active version with local content",
	Long: `Overwrite one file of the active version's bundle.

Content is read from the given local file, or from stdin when omitted.
This edits the active version in place and does not create a new version.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession()
		if err != nil {
			return err
		}
		if _, err := sess.requireActive(); err != nil {
			return err
		}

		var data []byte
		if len(args) == 2 {
			data, err = os.ReadFile(args[1])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("reading content: %w", err)
		}

		if err := sess.Timeline.EditActiveFile(args[0], string(data)); err != nil {
			return err
		}
		if err := sess.save(); err != nil {
			return err
		}

		fmt.Printf("updated %s in place\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
