package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/sds-assess/internal/document"
	"github.com/sells-group/sds-assess/internal/hazard"
)

var classifyFile string

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Print the H-codes and hazard group of a safety data sheet",
	Long:  "Runs only the deterministic hazard classification. No semantic calls are made.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("classify"); err != nil {
			return err
		}
		doc, err := document.Load(classifyFile)
		if err != nil {
			return err
		}
		printClassification(os.Stdout, hazard.NewClassifier(nil), doc.Text)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyFile, "file", "", "path to the safety data sheet")
	_ = classifyCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(classifyCmd)
}

func printClassification(w io.Writer, c *hazard.Classifier, text string) {
	codes := c.Codes(text)
	letter := c.Resolve(codes)

	var unmapped []string
	for _, code := range codes {
		if _, ok := c.Table().Letter(code); !ok {
			unmapped = append(unmapped, code)
		}
	}

	if len(codes) == 0 {
		_, _ = fmt.Fprintln(w, "codes:    (none)")
	} else {
		_, _ = fmt.Fprintf(w, "codes:    %s\n", strings.Join(codes, ", "))
	}
	if len(unmapped) > 0 {
		_, _ = fmt.Fprintf(w, "unmapped: %s (counted as %s)\n", strings.Join(unmapped, ", "), hazard.DefaultUnmapped)
	}
	_, _ = fmt.Fprintf(w, "group:    %s\n", letter)
}
