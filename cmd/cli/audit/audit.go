package audit

import (
	"net/http"

	"github.com/crucial707/listing-admin/cmd/cli/client"
	"github.com/crucial707/listing-admin/cmd/cli/output"
	"github.com/crucial707/listing-admin/internal/models"
	"github.com/spf13/cobra"
)

// InitAudit registers the audit commands on the root command.
func InitAudit(rootCmd *cobra.Command) {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Review the moderation audit trail",
	}
	auditCmd.AddCommand(listCmd())
	rootCmd.AddCommand(auditCmd)
}

func listCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent status changes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Logs []models.AuditEntry `json:"logs"`
			}
			if err := client.DoAuthed(http.MethodGet, "/audit", nil, &out); err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), out.Logs)
			}
			rows := make([][]interface{}, 0, len(out.Logs))
			for _, e := range out.Logs {
				rows = append(rows, []interface{}{
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Username, e.ListingID,
					e.Action, e.OldStatus, e.NewStatus,
				})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"Time", "Admin", "Listing", "Action", "From", "To"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
