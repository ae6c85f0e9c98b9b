// Package list provides the list command, which shows stored questions.
package list

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
	"github.com/piratetools42/antragsbuch/internal/cmd/output"
	"github.com/piratetools42/antragsbuch/internal/cmd/table"
	"github.com/piratetools42/antragsbuch/internal/matcher"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/logging"
	"github.com/piratetools42/antragsbuch/pkg/store"
)

// Detail is a question together with its tags.
type Detail struct {
	store.Question `yaml:",inline"`
	Tags           []string `json:"tags" yaml:"tags"`
}

// NewCommand creates the list command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var patterns []string

	cmd := &cobra.Command{
		Use:     "list [id]",
		Aliases: []string{"ls"},
		Short:   "List stored questions",
		Long: `List shows the questions in the store ordered by motion id.
With an id it shows that question with its details and tags.
--match filters by id with globs (WP*) or regular expressions (^PA\d+).`,
		Example: `  antragsbuch list
  antragsbuch list -o wide --match 'WP*' --match 'GP*'
  antragsbuch list WP038 -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			filter, err := matcher.NewAny(patterns...)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
			if err != nil {
				return err
			}
			st, err := app.Store(ctx)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				q, err := st.Find(ctx, args[0])
				if err != nil {
					return errors.WrapStore("find", args[0], err)
				}
				tags, err := st.Tags(ctx, q.URL)
				if err != nil {
					return errors.WrapStore("tags", q.URL, err)
				}
				detail := Detail{Question: *q, Tags: tags}
				return output.Render(cmd.OutOrStdout(), format, detail, func(bool) table.Data {
					return detailToTableData(detail)
				})
			}

			all, err := st.List(ctx)
			if err != nil {
				return errors.WrapStore("list", "", err)
			}
			questions := make([]store.Question, 0, len(all))
			for _, q := range all {
				if filter.Match(q.URL) {
					questions = append(questions, q)
				}
			}
			return output.Render(cmd.OutOrStdout(), format, questions, func(wide bool) table.Data {
				return table.QuestionsToTableData(questions, wide)
			})
		},
	}

	cmd.Flags().StringArrayVar(&patterns, "match", nil, "only list ids matching this glob or regex (repeatable)")

	return cmd
}

func detailToTableData(d Detail) table.Data {
	return table.Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", d.URL},
			{"Title", d.Title},
			{"Added", d.DateAdded.Format("2006-01-02 15:04")},
			{"Score", strconv.Itoa(d.Score)},
			{"User", strconv.Itoa(d.UserID)},
			{"Tags", table.OrDash(strings.Join(d.Tags, ", "))},
			{"Details", d.Details},
		},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignLeft},
	}
}
