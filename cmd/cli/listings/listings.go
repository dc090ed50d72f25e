package listings

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crucial707/listing-admin/cmd/cli/client"
	"github.com/crucial707/listing-admin/cmd/cli/output"
	"github.com/crucial707/listing-admin/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Listings
// ==========================
func InitListings(rootCmd *cobra.Command) {
	listingsCmd := &cobra.Command{
		Use:   "listings",
		Short: "Browse and moderate listings",
	}

	listingsCmd.AddCommand(
		listCmd(),
		showCmd(),
		statusCmd("approve", models.StatusApproved),
		statusCmd("reject", models.StatusRejected),
		statusCmd("pending", models.StatusPending),
		editCmd(),
	)

	rootCmd.AddCommand(listingsCmd)
}

func listingRows(ls []models.Listing) [][]interface{} {
	rows := make([][]interface{}, 0, len(ls))
	for _, l := range ls {
		rows = append(rows, []interface{}{
			l.ID, l.Title, l.Make + " " + l.Model, l.Year,
			fmt.Sprintf("%.2f", l.PricePerDay), l.Location, l.Status,
			l.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

var listingHeaders = []string{"ID", "Title", "Car", "Year", "Price/Day", "Location", "Status", "Updated"}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid listing id %q", arg)
	}
	return id, nil
}

func getListing(id int) (*models.Listing, error) {
	var l models.Listing
	if err := client.DoAuthed(http.MethodGet, "/listings/"+strconv.Itoa(id), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ==========================
// LIST
// ==========================
func listCmd() *cobra.Command {
	var (
		status string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/listings"
			if status != "" {
				if !models.ListingStatus(status).Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
				path += "?status=" + url.QueryEscape(status)
			}

			var out struct {
				Listings []models.Listing `json:"listings"`
			}
			if err := client.DoAuthed(http.MethodGet, path, nil, &out); err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), out.Listings)
			}
			output.RenderTable(cmd.OutOrStdout(), listingHeaders, listingRows(out.Listings))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, approved, rejected)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// SHOW
// ==========================
func showCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := getListing(id)
			if err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), l)
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"Field", "Value"}, [][]interface{}{
				{"ID", l.ID},
				{"Title", l.Title},
				{"Description", l.Description},
				{"Make", l.Make},
				{"Model", l.Model},
				{"Year", l.Year},
				{"Price/Day", fmt.Sprintf("%.2f", l.PricePerDay)},
				{"Location", l.Location},
				{"Image", l.ImageURL},
				{"Status", l.Status},
				{"Created", l.CreatedAt.Format("2006-01-02 15:04")},
				{"Updated", l.UpdatedAt.Format("2006-01-02 15:04")},
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// STATUS (approve / reject / pending)
// ==========================
func statusCmd(use string, status models.ListingStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: fmt.Sprintf("Set a listing's status to %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			path := "/listings/" + strconv.Itoa(id) + "/status"
			if err := client.DoAuthed(http.MethodPost, path, map[string]string{"status": string(status)}, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listing %d is now %s\n", id, status)
			return nil
		},
	}
}

// ==========================
// EDIT
// ==========================

// editCmd loads the listing, applies the flags that were given and sends
// the full field set back, since the API overwrites every field.
func editCmd() *cobra.Command {
	var f models.ListingFields

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a listing's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, err := getListing(id)
			if err != nil {
				return err
			}

			next := models.ListingFields{
				Title:       cur.Title,
				Description: cur.Description,
				Make:        cur.Make,
				Model:       cur.Model,
				Year:        cur.Year,
				PricePerDay: cur.PricePerDay,
				Location:    cur.Location,
				ImageURL:    cur.ImageURL,
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				next.Title = f.Title
			}
			if flags.Changed("description") {
				next.Description = f.Description
			}
			if flags.Changed("make") {
				next.Make = f.Make
			}
			if flags.Changed("model") {
				next.Model = f.Model
			}
			if flags.Changed("year") {
				next.Year = f.Year
			}
			if flags.Changed("price") {
				next.PricePerDay = f.PricePerDay
			}
			if flags.Changed("location") {
				next.Location = f.Location
			}
			if flags.Changed("image-url") {
				next.ImageURL = f.ImageURL
			}

			var updated models.Listing
			if err := client.DoAuthed(http.MethodPut, "/listings/"+strconv.Itoa(id), next, &updated); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listing %d updated: %s\n", updated.ID, updated.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Title, "title", "", "title")
	cmd.Flags().StringVar(&f.Description, "description", "", "description")
	cmd.Flags().StringVar(&f.Make, "make", "", "make")
	cmd.Flags().StringVar(&f.Model, "model", "", "model")
	cmd.Flags().IntVar(&f.Year, "year", 0, "year")
	cmd.Flags().Float64Var(&f.PricePerDay, "price", 0, "price per day")
	cmd.Flags().StringVar(&f.Location, "location", "", "location")
	cmd.Flags().StringVar(&f.ImageURL, "image-url", "", "image URL")
	return cmd
}
