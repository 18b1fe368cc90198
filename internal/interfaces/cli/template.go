package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/client"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates", "tpl"},
		Short:   "Manage the stage template registry",
	}
	cmd.AddCommand(
		newTemplateListCmd(),
		newTemplateAddCmd(),
		newTemplateUpdateCmd(),
		newTemplateRemoveCmd(),
	)
	return cmd
}

func newTemplateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stage templates in canonical order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			list, err := c.Templates().List(cmd.Context())
			if err != nil {
				return err
			}
			return PrintResult(cmd, templateTable(list))
		},
	}
}

type templateAddOptions struct {
	tpl        client.Template
	useDefault bool
}

func newTemplateAddCmd() *cobra.Command {
	opts := &templateAddOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a stage template",
		Long: "Append a stage template after the existing ones.  With --default the\n" +
			"server picks the next free id and fills placeholder values.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			var added *client.Template
			if opts.useDefault {
				added, err = c.Templates().AddDefault(cmd.Context())
			} else {
				added, err = c.Templates().Add(cmd.Context(), opts.tpl)
			}
			if err != nil {
				return err
			}
			return PrintResult(cmd, templateTable{*added})
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.tpl.ID, "id", "", "stage id, e.g. S8")
	f.StringVar(&opts.tpl.Name, "name", "", "stage name")
	f.StringVar(&opts.tpl.DefaultPOC, "poc", "", "default point of contact")
	f.BoolVar(&opts.tpl.IsMandatory, "mandatory", false, "preselect the stage for new patents")
	f.IntVar(&opts.tpl.SLADays, "sla-days", 0, "days from creation to the stage deadline")
	f.StringVar(&opts.tpl.Description, "description", "", "stage description")
	f.BoolVar(&opts.useDefault, "default", false, "add a placeholder stage with the next free id")
	cmd.MarkFlagsMutuallyExclusive("default", "id")
	return cmd
}

func newTemplateUpdateCmd() *cobra.Command {
	var (
		name, poc, description string
		mandatory              bool
		slaDays                int
	)
	cmd := &cobra.Command{
		Use:   "update <stage-id>",
		Short: "Change fields of a stage template",
		Long:  "Change fields of a stage template.  Existing patents keep their stage copies.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u client.TemplateUpdate
			f := cmd.Flags()
			if f.Changed("name") {
				u.Name = &name
			}
			if f.Changed("poc") {
				u.DefaultPOC = &poc
			}
			if f.Changed("mandatory") {
				u.IsMandatory = &mandatory
			}
			if f.Changed("sla-days") {
				u.SLADays = &slaDays
			}
			if f.Changed("description") {
				u.Description = &description
			}
			if u == (client.TemplateUpdate{}) {
				return errors.InvalidParam("no template changes given")
			}

			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			updated, err := c.Templates().Update(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			return PrintResult(cmd, templateTable{*updated})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "stage name")
	f.StringVar(&poc, "poc", "", "default point of contact")
	f.BoolVar(&mandatory, "mandatory", false, "preselect the stage for new patents")
	f.IntVar(&slaDays, "sla-days", 0, "days from creation to the stage deadline")
	f.StringVar(&description, "description", "", "stage description")
	return cmd
}

func newTemplateRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <stage-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a stage template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			if err := c.Templates().Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			PrintSuccess(cmd, "removed template "+args[0])
			return nil
		},
	}
}

type templateTable []client.Template

func (t templateTable) TableHeaders() []string {
	return []string{"ID", "NAME", "POC", "MANDATORY", "SLA_DAYS"}
}

func (t templateTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, tpl := range t {
		rows = append(rows, []string{
			tpl.ID, tpl.Name, tpl.DefaultPOC,
			strconv.FormatBool(tpl.IsMandatory), strconv.Itoa(tpl.SLADays),
		})
	}
	return rows
}

//Personal.AI order the ending
