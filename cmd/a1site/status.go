package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/poku-e/a1scrap/internal/relay"
)

var statusPlain bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show each form sheet and its submission count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := relay.New(store).Status(ctx)
		if err != nil {
			return fmt.Errorf("error accessing spreadsheet: %w", err)
		}
		return printStatus(cmd.OutOrStdout(), st)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusPlain, "plain", false, "Print markdown without terminal styling")
}

func statusMarkdown(store string, st []relay.SheetStatus) string {
	var b strings.Builder
	b.WriteString("# Form Handler Status\n\n")
	fmt.Fprintf(&b, "**Store:** %s\n\n", store)

	existing := relay.Existing(st)
	if len(existing) == 0 {
		b.WriteString("No sheets created yet. They will be created automatically on first submission.\n")
		return b.String()
	}
	b.WriteString("| Sheet | Form | Submissions |\n|---|---|---:|\n")
	for _, s := range existing {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", s.Name, s.Type, s.Submissions)
	}
	return b.String()
}

func printStatus(w io.Writer, st []relay.SheetStatus) error {
	md := statusMarkdown(storeName(), st)
	if statusPlain {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
