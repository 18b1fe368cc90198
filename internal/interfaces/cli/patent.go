package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/client"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

func newPatentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patent",
		Aliases: []string{"patents"},
		Short:   "Create, inspect and advance patents",
	}
	cmd.AddCommand(
		newPatentCreateCmd(),
		newPatentListCmd(),
		newPatentGetCmd(),
		newPatentUpdateStageCmd(),
		newPatentDeleteCmd(),
	)
	return cmd
}

func newPatentCreateCmd() *cobra.Command {
	req := &client.CreatePatentRequest{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a patent with its selected stages",
		Example: `  keyip patent create --title "Graphene anode coating" --jurisdiction India,US --stage S1,S2,S5
  keyip patent create --title "Sensor housing" --jurisdiction PCT --mandatory-defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			p, err := c.Patents().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return PrintResult(cmd, patentDetail{p})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Title, "title", "", "patent title, at least 5 characters")
	f.StringVar(&req.Category, "category", "", "Core or Non-Core (default Core)")
	f.StringVar(&req.Type, "type", "", "patent type (default Provisional)")
	f.StringSliceVar(&req.Jurisdictions, "jurisdiction", nil, "jurisdictions: India, US, UK, PCT, Europe")
	f.StringSliceVar(&req.StageIDs, "stage", nil, "stage template ids to include")
	f.BoolVar(&req.UseMandatoryDefaults, "mandatory-defaults", false, "use the mandatory templates when no --stage is given")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newPatentListCmd() *cobra.Command {
	opts := &client.ListPatentsOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			list, err := c.Patents().List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return PrintResult(cmd, patentTable{list})
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Query, "query", "", "case-insensitive match on title or reference id")
	f.StringVar(&opts.Category, "category", "", "Core or Non-Core")
	f.IntVar(&opts.Limit, "limit", 0, "page size (server default when 0)")
	f.IntVar(&opts.Offset, "offset", 0, "number of patents to skip")
	return cmd
}

func newPatentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <patent-id>",
		Short: "Show one patent with its stages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			p, err := c.Patents().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, patentDetail{p})
		},
	}
}

func newPatentUpdateStageCmd() *cobra.Command {
	var (
		status, completedAt, remarks, poc, updatedBy string
		feePurpose, feeDate, slaDeadline, notes      string
		fees, expectedVersion                        int64
	)
	cmd := &cobra.Command{
		Use:   "update-stage <patent-id> <stage-id>",
		Short: "Edit one stage of a patent",
		Long: "Edit one stage of a patent.  Only the flags given are changed.  Completing\n" +
			"a stage advances the patent to the next stage in order.  With\n" +
			"--expected-version the edit fails if the patent changed in between.",
		Example: `  keyip patent update-stage 3f2c... S1 --status completed
  keyip patent update-stage 3f2c... S2 --remarks "awaiting search report" --expected-version 4`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u client.StageUpdate
			f := cmd.Flags()
			setString := func(name string, src *string, dst **string) {
				if f.Changed(name) {
					*dst = src
				}
			}
			if f.Changed("status") {
				s := normalizeEnum(status)
				u.Status = &s
			}
			if f.Changed("updated-by") {
				r := normalizeEnum(updatedBy)
				u.UpdatedBy = &r
			}
			setString("completed-at", &completedAt, &u.CompletedAt)
			setString("remarks", &remarks, &u.Remarks)
			setString("poc", &poc, &u.POC)
			setString("fee-purpose", &feePurpose, &u.FeePurpose)
			setString("fee-date", &feeDate, &u.FeeDate)
			setString("sla-deadline", &slaDeadline, &u.SLADeadline)
			setString("notes", &notes, &u.Notes)
			if f.Changed("fees") {
				u.OfficialFees = &fees
			}
			if u == (client.StageUpdate{}) {
				return errors.InvalidParam("no stage changes given")
			}
			if expectedVersion < 0 {
				return errors.InvalidParam("expected version must not be negative")
			}

			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			p, err := c.Patents().UpdateStage(cmd.Context(), args[0], args[1], u, expectedVersion)
			if err != nil {
				return err
			}
			return PrintResult(cmd, patentDetail{p})
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "NOT_STARTED, STARTED, WAITING_ARCTIC, WIP, COMPLETED, DELAYED or OBJECTION")
	f.StringVar(&completedAt, "completed-at", "", "completion date, YYYY-MM-DD")
	f.StringVar(&remarks, "remarks", "", "free-text remarks; marks the stage as updated internally")
	f.StringVar(&poc, "poc", "", "point of contact")
	f.StringVar(&updatedBy, "updated-by", "", "INTERNAL or EXTERNAL")
	f.Int64Var(&fees, "fees", 0, "official fees in whole currency units")
	f.StringVar(&feePurpose, "fee-purpose", "", "purpose of the fees")
	f.StringVar(&feeDate, "fee-date", "", "fee date, YYYY-MM-DD")
	f.StringVar(&slaDeadline, "sla-deadline", "", "stage deadline, YYYY-MM-DD")
	f.StringVar(&notes, "notes", "", "internal notes")
	f.Int64Var(&expectedVersion, "expected-version", 0, "fail unless the patent is at this version")
	return cmd
}

func newPatentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <patent-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a patent",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			if err := c.Patents().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			PrintSuccess(cmd, "deleted patent "+args[0])
			return nil
		},
	}
}

// normalizeEnum maps "waiting-arctic" and similar spellings to the API name.
func normalizeEnum(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

// patentDetail renders one patent as a header block followed by its stages.
type patentDetail struct {
	*client.Patent
}

func (d patentDetail) TableHeaders() []string {
	return []string{"STAGE", "NAME", "STATUS", "DEADLINE", "COMPLETED", "POC", "BY", "FEES"}
}

func (d patentDetail) TableRows() [][]string {
	overdue := make(map[string]bool, len(d.OverdueStageIDs))
	for _, id := range d.OverdueStageIDs {
		overdue[id] = true
	}
	rows := make([][]string, 0, len(d.Stages))
	for _, s := range d.Stages {
		id := s.ID
		if s.ID == d.CurrentStageID {
			id = "> " + id
		}
		deadline := s.SLADeadline
		if overdue[s.ID] {
			deadline += " !"
		}
		fees := ""
		if s.OfficialFees > 0 {
			fees = d.CurrencySymbol + strconv.FormatInt(s.OfficialFees, 10)
		}
		rows = append(rows, []string{id, s.Name, s.Status, deadline, s.CompletedAt, s.POC, s.UpdatedBy, fees})
	}
	return rows
}

func (d patentDetail) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", d.RefID, d.Title)
	fmt.Fprintf(&sb, "  id:            %s\n", d.ID)
	fmt.Fprintf(&sb, "  category:      %s / %s\n", d.Category, d.Type)
	fmt.Fprintf(&sb, "  jurisdictions: %s\n", strings.Join(d.Jurisdictions, ", "))
	fmt.Fprintf(&sb, "  current stage: %s\n", d.CurrentStageID)
	fmt.Fprintf(&sb, "  progress:      %d%%\n", d.Progress)
	fmt.Fprintf(&sb, "  version:       %d\n", d.Version)
	fmt.Fprintf(&sb, "  summary:       %s\n\n", d.AutoSummary)
	sb.WriteString(FormatTable(d.TableHeaders(), d.TableRows()))
	return sb.String()
}

type patentTable struct {
	*client.PatentList
}

func (t patentTable) TableHeaders() []string {
	return []string{"ID", "REF", "TITLE", "CATEGORY", "CURRENT", "PROGRESS", "OVERDUE"}
}

func (t patentTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Items))
	for _, p := range t.Items {
		rows = append(rows, []string{
			p.ID, p.RefID, p.Title, p.Category, p.CurrentStageID,
			strconv.Itoa(p.Progress) + "%", strconv.Itoa(len(p.OverdueStageIDs)),
		})
	}
	return rows
}

func (t patentTable) String() string {
	return FormatTable(t.TableHeaders(), t.TableRows()) +
		fmt.Sprintf("%d of %d patents\n", len(t.Items), t.Total)
}

//Personal.AI order the ending
