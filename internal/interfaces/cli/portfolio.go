package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/client"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

func newPortfolioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio-wide views",
	}
	cmd.AddCommand(
		newPortfolioDashboardCmd(),
		newPortfolioHistoryCmd(),
		newPortfolioOverdueCmd(),
	)
	return cmd
}

func newPortfolioDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show portfolio statistics and the stage board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			d, err := c.Portfolio().Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return PrintResult(cmd, dashboardView{d})
		},
	}
}

func newPortfolioHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed stages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.InvalidParam("limit must not be negative")
			}
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			entries, err := c.Portfolio().History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return PrintResult(cmd, historyTable(entries))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries; 0 lists all")
	return cmd
}

func newPortfolioOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List open stages past their deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			stages, err := c.Portfolio().Overdue(cmd.Context())
			if err != nil {
				return err
			}
			return PrintResult(cmd, overdueTable(stages))
		},
	}
}

// dashboardView renders statistics followed by the board, one row per stage.
type dashboardView struct {
	*client.Dashboard
}

func (v dashboardView) TableHeaders() []string {
	return []string{"STAGE", "NAME", "PATENTS"}
}

func (v dashboardView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Board))
	for _, col := range v.Board {
		rows = append(rows, []string{col.StageID, col.StageName, strconv.Itoa(len(col.PatentIDs))})
	}
	return rows
}

func (v dashboardView) String() string {
	s := v.Stats
	var sb strings.Builder
	fmt.Fprintf(&sb, "Portfolio as of %s\n", v.AsOf)
	fmt.Fprintf(&sb, "  total:          %d\n", s.Total)
	fmt.Fprintf(&sb, "  active:         %d\n", s.Active)
	fmt.Fprintf(&sb, "  in progress:    %d\n", s.InProgress)
	fmt.Fprintf(&sb, "  objections:     %d\n", s.Objections)
	fmt.Fprintf(&sb, "  granted:        %d\n", s.Granted)
	fmt.Fprintf(&sb, "  overdue:        %d patents, %d stages\n", s.Overdue, s.OverdueStageCount)
	fmt.Fprintf(&sb, "  external delay: %.1f days avg\n", s.AverageExternalDelay)
	if len(s.ByCategory) > 0 {
		fmt.Fprintf(&sb, "  by category:    %s\n", formatCounts(s.ByCategory))
	}
	if len(s.ByStatus) > 0 {
		fmt.Fprintf(&sb, "  by status:      %s\n", formatCounts(s.ByStatus))
	}
	sb.WriteString("\n")
	sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	return sb.String()
}

// formatCounts prints "k=v" pairs in key order.
func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.Itoa(m[k]))
	}
	return strings.Join(parts, " ")
}

type historyTable []client.HistoryEntry

func (t historyTable) TableHeaders() []string {
	return []string{"COMPLETED", "REF", "TITLE", "STAGE", "BY"}
}

func (t historyTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, e := range t {
		rows = append(rows, []string{e.CompletedAt, e.RefID, e.Title, e.StageID + " " + e.StageName, e.UpdatedBy})
	}
	return rows
}

type overdueTable []client.OverdueStage

func (t overdueTable) TableHeaders() []string {
	return []string{"REF", "TITLE", "STAGE", "STATUS", "POC", "DEADLINE", "DAYS"}
}

func (t overdueTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, o := range t {
		rows = append(rows, []string{
			o.RefID, o.Title, o.StageID + " " + o.StageName, o.Status, o.POC,
			o.SLADeadline, strconv.Itoa(o.DaysOverdue),
		})
	}
	return rows
}

//Personal.AI order the ending
