package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bbernstein/onair-go/internal/database"
	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/database/repositories"
	"github.com/bbernstein/onair-go/internal/services/rundown"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <rundown-id>",
	Short: "Print the computed timeline of a rundown",
	Long: `Print each item of a rundown with its scheduled start and end time,
followed by the total duration, end time and time remaining.

Examples:
  onair timeline ckx1y2z3a0000abcd1234`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	loadConfig()

	db, err := openDatabase(nil)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	rd, err := repositories.NewRundownRepository(db).FindByID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load rundown: %w", err)
	}
	if rd == nil {
		return fmt.Errorf("rundown %s: %w", args[0], repositories.ErrNotFound)
	}

	return printTimeline(cmd.OutOrStdout(), rd, rundown.ComputeTimeline(rd))
}

// printTimeline renders tl as an aligned table.
func printTimeline(w io.Writer, rd *models.Rundown, tl *rundown.Timeline) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s (%s)\n\n", rd.Title, rd.Date)
	_, _ = fmt.Fprintln(tw, "#\tSTART\tEND\tDURATION\tTYPE\tSTATUS\tSLUG")
	for i, entry := range tl.Entries {
		item := rd.Items[i]
		marker := ""
		if tl.OnAirItemID != nil && *tl.OnAirItemID == entry.ItemID {
			marker = " *"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s%s\n",
			i+1, entry.StartTime, entry.EndTime, item.EstimatedDuration, item.Type, item.Status, item.Slug, marker)
	}
	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintf(tw, "Start:\t%s\n", tl.StartTime)
	_, _ = fmt.Fprintf(tw, "Total:\t%s\n", tl.TotalDuration)
	_, _ = fmt.Fprintf(tw, "End:\t%s\n", tl.EndTime)
	_, _ = fmt.Fprintf(tw, "Remaining:\t%s\n", tl.Remaining)
	return tw.Flush()
}
