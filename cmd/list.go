package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listFormat string

// componentListing is the JSON shape of one list entry.
type componentListing struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	LastError   string `json:"last_error,omitempty"`
	Description string `json:"description,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List components and their boundary states",
	Long: `List registered components with the state of each one's boundary. With
--probe, every component is rendered once first so states reflect actual
behavior instead of showing everything as healthy.

Examples:
  rendershield list
  rendershield list --probe
  rendershield list --format json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "text", "Output format (text, json)")
	listCmd.Flags().Bool("probe", false, "Render each component once before listing")
}

func runList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if probe, _ := cmd.Flags().GetBool("probe"); probe {
		probeComponents(cmd.Context(), rt)
	}

	entries := rt.registry.GetAll()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	listings := make([]componentListing, 0, len(names))
	for _, name := range names {
		listing := componentListing{
			Name:        name,
			State:       "healthy",
			Description: entries[name].Description,
		}
		if b, ok := rt.registry.Boundary(name); ok && b.Failed() {
			listing.State = "failed"
			listing.LastError = b.LastError().Error()
		}
		listings = append(listings, listing)
	}

	switch listFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listings)
	case "text":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTATE\tDESCRIPTION")
		for _, listing := range listings {
			fmt.Fprintf(w, "%s\t%s\t%s\n", listing.Name, listing.State, listing.Description)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", listFormat)
	}
}

// probeComponents renders each component once, discarding output, so failed
// boundaries show as failed.
func probeComponents(ctx context.Context, rt *runtime) {
	for name := range rt.registry.GetAll() {
		if b, ok := rt.registry.Boundary(name); ok {
			var sink strings.Builder
			_ = b.Render(ctx, &sink)
		}
	}
}
