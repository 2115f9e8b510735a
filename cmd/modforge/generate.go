package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modforge/modforge/internal/client"
	"github.com/modforge/modforge/internal/spec"
)

var generateSample string

var generateCmd = &cobra.Command{
	Use:   "generate [spec.json]",
	Short: "Generate a base component bundle (v0) from a spec file",
	Long: `Generate a base component bundle from a JSON spec.

Reads the spec from the given file, or from stdin when the argument is "-".
Use --sample button|textInput to start from a built-in spec instead.

A successful generation starts a fresh session timeline: any previous
versions are discarded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := readSpec(args)
		if err != nil {
			return err
		}
		if err := s.Validate(); err != nil {
			return err
		}

		sess, err := loadSession()
		if err != nil {
			return err
		}

		res, err := client.New(serverURL).Generate(cmd.Context(), s)
		if err != nil {
			return err
		}

		sess.SpecType = s.Type
		sess.ComponentName = s.ComponentName
		sess.Timeline.Begin(res.Bundle)
		if err := sess.save(); err != nil {
			return err
		}

		fmt.Printf("%s generated: %s\n", strings.ToUpper(res.Used), res.Bundle.Summary)
		if res.Reason != "" {
			fmt.Printf("fallback reason: %s\n", res.Reason)
		}
		for _, p := range res.Bundle.Paths() {
			fmt.Println("  " + p)
		}
		return nil
	},
}

func readSpec(args []string) (spec.ComponentSpec, error) {
	var s spec.ComponentSpec

	if generateSample != "" {
		switch generateSample {
		case spec.TypeButton:
			return spec.SampleButton(), nil
		case spec.TypeTextInput:
			return spec.SampleTextInput(), nil
		default:
			return s, fmt.Errorf("unknown sample %q (want button or textInput)", generateSample)
		}
	}

	if len(args) == 0 {
		return s, fmt.Errorf("a spec file is required (or --sample)")
	}

	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return s, fmt.Errorf("reading spec: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing spec: %w", err)
	}
	return s, nil
}

func init() {
	generateCmd.Flags().StringVar(&generateSample, "sample", "", "use a built-in sample spec (button or textInput)")
	rootCmd.AddCommand(generateCmd)
}
