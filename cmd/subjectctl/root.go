package main

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stemsi/subject-catalog/internal/config"
	"github.com/stemsi/subject-catalog/internal/repository"
	"github.com/stemsi/subject-catalog/internal/service"
)

// app is built once flags are parsed so --data-file can override DATA_FILE.
type app struct {
	dataFile string
	log      zerolog.Logger
	subjects *service.SubjectService
}

func newRootCmd(cfg *config.Config, log zerolog.Logger) *cobra.Command {
	a := &app{dataFile: cfg.DataFile, log: log}

	root := &cobra.Command{
		Use:          "subjectctl",
		Short:        "Manage the subject catalog data file",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			repo := repository.NewSubjectRepository(a.dataFile, a.log)
			a.subjects = service.NewSubjectService(repo, a.log)
		},
	}
	root.PersistentFlags().StringVar(&a.dataFile, "data-file", cfg.DataFile, "path to the JSON data file")

	root.AddCommand(
		newSeedCmd(a),
		newListCmd(a),
		newTeachersCmd(a),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
