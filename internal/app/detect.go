package app

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/backmey/backmey/internal/detect"
	"github.com/backmey/backmey/internal/output"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the desktop environment only",
	RunE: func(cmd *cobra.Command, args []string) error {
		detection := detect.Detect()
		data, err := json.MarshalIndent(detection, "", "  ")
		if err != nil {
			return err
		}
		output.Plain("%s", data)
		return nil
	},
}
