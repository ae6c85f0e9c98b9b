package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piratetools42/antragsbuch/pkg/constants"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/overview"
	"github.com/piratetools42/antragsbuch/pkg/prepare"
	"github.com/piratetools42/antragsbuch/pkg/reconciler"
	"github.com/piratetools42/antragsbuch/pkg/store"
)

const titleWidth = 60

// QuestionsToTableData converts stored questions to table format.
// The wide form adds owner, group and tags.
func QuestionsToTableData(questions []store.Question, wide bool) Data {
	headers := []string{"URL", "Title", "Added", "Score"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight}
	if wide {
		headers = append(headers, "User", "Group", "Tags")
		align = append(align, AlignRight, AlignRight, AlignLeft)
	}

	rows := make([][]string, 0, len(questions))
	for _, q := range questions {
		title := q.Title
		if !wide {
			title = Truncate(title, titleWidth)
		}
		row := []string{
			q.URL,
			title,
			q.DateAdded.Format("2006-01-02 15:04"),
			strconv.Itoa(q.Score),
		}
		if wide {
			tags, err := store.DecodeAdditionalData(q.AdditionalData)
			tagCell := strings.Join(tags, " ")
			if err != nil {
				tagCell = "?"
			}
			row = append(row, strconv.Itoa(q.UserID), strconv.Itoa(q.GroupID), OrDash(tagCell))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// ResultToTableData converts reconciliation outcomes to table format.
// The wide form adds agenda position, diff size and errors.
func ResultToTableData(result *reconciler.Result, wide bool) Data {
	headers := []string{"ID", "Status", "Group", "Title"}
	if wide {
		headers = append(headers, "Agenda", "Diff", "Error")
	}

	rows := make([][]string, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		title := o.DisplayTitle
		if title == "" {
			title = o.Title
		}
		row := []string{
			o.ID,
			string(o.Kind),
			OrDash(o.Group),
			OrDash(Truncate(title, titleWidth)),
		}
		if wide {
			agenda := "-"
			if o.Position > 0 {
				agenda = constants.AgendaTagPrefix + strconv.Itoa(o.Position)
			}
			diff := "-"
			if o.Diff != nil {
				added, removed := o.Diff.Counts()
				diff = fmt.Sprintf("+%d/-%d", added, removed)
			}
			errText := "-"
			if o.Err != nil {
				errText = errors.Kind(o.Err) + ": " + o.Err.Error()
			}
			row = append(row, agenda, diff, errText)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

// PrepareReportToTableData converts a prepare report to a key-value table.
func PrepareReportToTableData(report *prepare.Report) Data {
	failed := make([]string, 0, len(report.Failed))
	for id := range report.Failed {
		failed = append(failed, id)
	}

	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Total", strconv.Itoa(report.Total)},
			{"Kept", strconv.Itoa(report.Kept)},
			{"Removed", strconv.Itoa(report.Removed)},
			{"Removed IDs", OrDash(strings.Join(report.RemovedIDs, ", "))},
			{"Step failures", strconv.Itoa(len(failed))},
		},
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

// OverviewToTableData lists the overview entries group by group.
func OverviewToTableData(o *overview.Overview) Data {
	var rows [][]string
	for _, g := range o.Groups {
		for _, e := range g.Entries {
			rows = append(rows, []string{g.Name, e.ID, Truncate(e.Title, titleWidth), o.EntryURL(e)})
		}
	}
	return Data{Headers: []string{"Group", "ID", "Title", "URL"}, Rows: rows}
}
