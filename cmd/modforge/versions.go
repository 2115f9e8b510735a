package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List the session's version timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession()
		if err != nil {
			return err
		}
		if sess.Timeline.Empty() {
			fmt.Println("no versions yet (run: modforge generate spec.json)")
			return nil
		}
		for i, e := range sess.Timeline.Entries {
			marker := " "
			if i == sess.Timeline.Active {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  %s\n", marker, e.Label, e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		caps := sess.Timeline.FeatureCaps()
		fmt.Printf("controls unlocked: loading=%t disabled=%t size=%t\n", caps.Loading, caps.Disabled, caps.Size)
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout <index>",
	Short: "Move the active cursor to a historical version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}

		sess, err := loadSession()
		if err != nil {
			return err
		}
		if err := sess.Timeline.Select(index); err != nil {
			return err
		}
		if err := sess.save(); err != nil {
			return err
		}

		fmt.Printf("active: %s\n", sess.Timeline.Entries[index].Label)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(checkoutCmd)
}
