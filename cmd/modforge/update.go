package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modforge/modforge/internal/client"
)

var updateShowPatch bool

var updateCmd = &cobra.Command{
	Use:   "update <instruction>",
	Short: "Apply an update instruction to the active bundle as a new version",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instruction := strings.Join(args, " ")
		if strings.TrimSpace(instruction) == "" {
			return fmt.Errorf("instruction must not be empty")
		}

		sess, err := loadSession()
		if err != nil {
			return err
		}
		active, err := sess.requireActive()
		if err != nil {
			return err
		}

		res, err := client.New(serverURL).Update(cmd.Context(), active.Bundle.ID, instruction)
		if err != nil {
			return err
		}

		if err := sess.Timeline.Append(res.Bundle, instruction, res.PatchText); err != nil {
			return err
		}
		if err := sess.save(); err != nil {
			return err
		}

		fmt.Printf("%s updated: %s\n", strings.ToUpper(res.Used), res.Bundle.Summary)
		if res.Reason != "" {
			fmt.Printf("fallback reason: %s\n", res.Reason)
		}
		if updateShowPatch && res.PatchText != "" {
			fmt.Println(res.PatchText)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateShowPatch, "patch", false, "print the applied patch text")
	rootCmd.AddCommand(updateCmd)
}
