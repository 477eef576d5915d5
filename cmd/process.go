package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sds-assess/internal/document"
	"github.com/sells-group/sds-assess/internal/model"
)

var processFile string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Assess a single safety data sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		doc, err := document.Load(processFile)
		if err != nil {
			return err
		}

		result, err := env.Pipeline.Run(ctx, doc)
		if err != nil {
			return eris.Wrapf(err, "process %s", doc.ID)
		}

		fmt.Fprintln(os.Stderr, result.ArtifactPath)
		return writeSummary(os.Stdout, result)
	},
}

func init() {
	processCmd.Flags().StringVar(&processFile, "file", "", "path to the safety data sheet (.md, .txt, .html)")
	_ = processCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(processCmd)
}

// assessmentSummary is the JSON view of one finished run.
type assessmentSummary struct {
	RunID         string              `json:"run_id,omitempty"`
	DocumentID    string              `json:"document_id"`
	ChemicalNames []string            `json:"chemical_names"`
	HazardCodes   []string            `json:"hazard_codes"`
	HazardLetter  string              `json:"hazard_letter"`
	ArtifactPath  string              `json:"artifact_path"`
	Stages        []model.StageResult `json:"stages"`
}

func summarize(a *model.Assessment) assessmentSummary {
	return assessmentSummary{
		RunID:         a.RunID,
		DocumentID:    a.Document.ID,
		ChemicalNames: a.ChemicalNames,
		HazardCodes:   a.HazardCodes,
		HazardLetter:  a.HazardLetter,
		ArtifactPath:  a.ArtifactPath,
		Stages:        a.Stages,
	}
}

func writeSummary(w io.Writer, a *model.Assessment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summarize(a))
}
