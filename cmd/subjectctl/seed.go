package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stemsi/subject-catalog/internal/model"
	"github.com/stemsi/subject-catalog/internal/query"
	"github.com/stemsi/subject-catalog/internal/service"
	"github.com/stemsi/subject-catalog/internal/validator"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Subjects []seedSubject `yaml:"subjects"`
}

type seedSubject struct {
	Name     string  `yaml:"name"`
	Credit   float64 `yaml:"credit"`
	Category string  `yaml:"category"`
	Teacher  string  `yaml:"teacher"`
}

func (s seedSubject) input() model.SubjectInput {
	return model.SubjectInput{
		Name:     model.LooseString(s.Name),
		Credit:   model.LooseNumber(s.Credit),
		Category: model.LooseString(s.Category),
		Teacher:  model.LooseString(s.Teacher),
	}
}

// defaultSeed is the demo catalog used when no --from file is given.
var defaultSeed = []seedSubject{
	{Name: "Lập trình ReactJS", Credit: 3, Category: string(model.CategoryMajor), Teacher: "Nguyễn Văn A"},
	{Name: "TypeScript", Credit: 2, Category: string(model.CategoryMajor), Teacher: "Trần Thị B"},
	{Name: "Cấu trúc dữ liệu", Credit: 4, Category: string(model.CategoryFoundation), Teacher: "Lê Văn C"},
	{Name: "Triết học Mác - Lênin", Credit: 3, Category: string(model.CategoryGeneral), Teacher: "Phạm Văn D"},
}

func newSeedCmd(a *app) *cobra.Command {
	var from string
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo or YAML-provided subjects",
		Long: `Inserts subjects through the same validation as the API.
Without --from the built-in demo catalog is used. A non-empty catalog
is left alone unless --force is given, in which case subjects are appended.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			subjects := defaultSeed
			if from != "" {
				loaded, err := loadSeedFile(from)
				if err != nil {
					return err
				}
				subjects = loaded
			}

			// Check every entry up front so a bad one leaves the catalog untouched.
			for i, s := range subjects {
				if reasons := validator.Subject(s.input()); len(reasons) > 0 {
					return fmt.Errorf("subject %d (%q): %w", i+1, s.Name, &service.ValidationError{Reasons: reasons})
				}
			}

			existing, err := a.subjects.List(ctx, query.SubjectQuery{Page: 1, Limit: 1})
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			if existing.Total > 0 && !force {
				return fmt.Errorf("catalog already holds %d subjects, use --force to append", existing.Total)
			}

			for i, s := range subjects {
				created, err := a.subjects.Create(ctx, s.input())
				if err != nil {
					return fmt.Errorf("subject %d (%q): %w", i+1, s.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created #%d %s\n", created.ID, created.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "YAML file with a top-level subjects list")
	cmd.Flags().BoolVar(&force, "force", false, "append even when the catalog is not empty")
	return cmd
}

func loadSeedFile(path string) ([]seedSubject, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Subjects) == 0 {
		return nil, errors.New("seed file has no subjects")
	}
	return f.Subjects, nil
}
