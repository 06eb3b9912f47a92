package main

import (
	"github.com/spf13/cobra"
	"github.com/stemsi/subject-catalog/internal/model"
	"github.com/stemsi/subject-catalog/internal/query"
)

type listOutput struct {
	Items      []model.Subject `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

func newListCmd(a *app) *cobra.Command {
	var search, teacher, page, limit string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of subjects as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := query.ParseSubjectQuery(search, teacher, page, limit)
			result, err := a.subjects.List(cmd.Context(), q)
			if err != nil {
				return err
			}

			q = q.Normalize()
			return writeJSON(cmd.OutOrStdout(), listOutput{
				Items:      result.Items,
				Total:      result.Total,
				Page:       q.Page,
				TotalPages: query.TotalPages(result.Total, q.Limit),
			})
		},
	}

	cmd.Flags().StringVar(&search, "q", "", "case-insensitive name search")
	cmd.Flags().StringVar(&teacher, "teacher", "", "exact teacher filter")
	cmd.Flags().StringVar(&page, "page", "1", "1-based page number")
	cmd.Flags().StringVar(&limit, "limit", "5", "page size")
	return cmd
}

func newTeachersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "teachers",
		Short: "Print the teacher filter options as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			teachers, err := a.subjects.Teachers(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), teachers)
		},
	}
}
