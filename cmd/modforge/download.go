package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modforge/modforge/internal/client"
)

var downloadCmd = &cobra.Command{
	Use:   "download [out.zip]",
	Short: "Download the active bundle as a zip archive",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession()
		if err != nil {
			return err
		}
		active, err := sess.requireActive()
		if err != nil {
			return err
		}

		data, err := client.New(serverURL).Download(cmd.Context(), active.Bundle.ID)
		if err != nil {
			return err
		}

		out := active.Bundle.ID + "-generated.zip"
		if len(args) == 1 {
			out = args[0]
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}

		fmt.Printf("wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish <owner/repo>",
	Short: "Export the active bundle to a GitHub repository branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession()
		if err != nil {
			return err
		}
		active, err := sess.requireActive()
		if err != nil {
			return err
		}

		res, err := client.New(serverURL).Publish(cmd.Context(), active.Bundle.ID, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("pushed branch %s\n", res.Branch)
		if res.URL != "" {
			fmt.Println(res.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(publishCmd)
}
