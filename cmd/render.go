package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/rendershield/internal/renderer"
)

var (
	renderOut  string
	renderText bool
	renderPage bool
)

var renderCmd = &cobra.Command{
	Use:   "render <component>",
	Short: "Render one component through its boundary",
	Long: `Render a single component through its boundary and print the result. A
failing component produces its fallback output with exit code 0; the failure
is reported on stderr.

Examples:
  rendershield render Button
  rendershield render Card --page > card.html
  rendershield render Broken --text
  rendershield render Alert --out alert.html`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write output to file instead of stdout")
	renderCmd.Flags().BoolVar(&renderText, "text", false, "Print visible text only, markup stripped")
	renderCmd.Flags().BoolVar(&renderPage, "page", false, "Wrap output in the full preview page shell")
}

func runRender(cmd *cobra.Command, args []string) error {
	name := args[0]

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	svc := renderer.New(rt.registry, rt.logger)

	out, err := svc.RenderComponent(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}

	if b, ok := rt.registry.Boundary(name); ok && b.Failed() {
		fmt.Fprintf(os.Stderr, "warning: %s failed, output is the fallback (%v)\n", name, b.LastError())
	}

	if renderPage {
		out = svc.RenderPage(rt.cfg.Preview.Title, name, out, "")
	}

	if renderText {
		text, textErr := renderer.VisibleText(out)
		if textErr != nil {
			return fmt.Errorf("extracting text: %w", textErr)
		}
		out = text
	}

	if renderOut != "" {
		if err := os.WriteFile(renderOut, []byte(out), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", renderOut, err)
		}
		fmt.Printf("Wrote %s\n", renderOut)
		return nil
	}

	fmt.Println(out)
	return nil
}
