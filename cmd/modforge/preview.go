package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modforge/modforge/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview [out.html]",
	Short: "Write a self-contained preview document for the active version",
	Long: `Write a preview document for the active version's component.

The document mounts the component with demo props matching the controls
the session has unlocked so far. Open the file in a browser to see it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession()
		if err != nil {
			return err
		}
		active, err := sess.requireActive()
		if err != nil {
			return err
		}

		b := active.Bundle
		jsx := b.Files[b.ComponentPath]
		css := b.Files[b.StylesheetPath]

		doc, err := preview.Options{
			ComponentName:   sess.ComponentName,
			ComponentSource: jsx,
			Stylesheet:      css,
			DemoProps:       preview.DemoProps(sess.SpecType, sess.Timeline.FeatureCaps(), sess.Timeline.Controls),
		}.Render()
		if err != nil {
			return err
		}

		out := "preview.html"
		if len(args) == 1 {
			out = args[0]
		}
		if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
			return err
		}

		fmt.Printf("wrote %s (key %s)\n", out, preview.Key(b.ID, jsx, css))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
