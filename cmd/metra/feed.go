package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/san-kum/metra/internal/feed"
	"github.com/san-kum/metra/internal/search"
)

const deletePrompt = "Are you sure you want to delete this source?"

func feedCommands() []*cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "list events",
		Args:  cobra.NoArgs,
		RunE:  listEvents,
	}
	eventsCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	eventCmd := &cobra.Command{
		Use:   "event [id]",
		Short: "show an event and its scored sources",
		Args:  cobra.ExactArgs(1),
		RunE:  showEvent,
	}
	eventCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "manage tracked sources",
	}
	sourcesListCmd := &cobra.Command{
		Use:   "list",
		Short: "list sources",
		Args:  cobra.NoArgs,
		RunE:  listSources,
	}
	sourcesListCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	sourcesAddCmd := &cobra.Command{
		Use:   "add",
		Short: "add a source",
		Args:  cobra.NoArgs,
		RunE:  addSource,
	}
	sourcesAddCmd.Flags().StringVar(&srcName, "name", "", "source name")
	sourcesAddCmd.Flags().StringVar(&srcURL, "url", "", "source url")
	sourcesAddCmd.Flags().StringVar(&srcDesc, "description", "", "source description")

	sourcesDeleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "delete a source",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteSource,
	}
	sourcesDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation")
	sourcesCmd.AddCommand(sourcesListCmd, sourcesAddCmd, sourcesDeleteCmd)

	findCmd := &cobra.Command{
		Use:   "find-sources [event-id]",
		Short: "search for more sources",
		Args:  cobra.MaximumNArgs(1),
		RunE:  findSources,
	}
	findCmd.Flags().StringVar(&query, "query", "", "search query (defaults to the event title)")
	findCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	return []*cobra.Command{eventsCmd, eventCmd, sourcesCmd, findCmd}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func listEvents(cmd *cobra.Command, args []string) error {
	events, err := providerFor(cfg.Data.Mode).Events(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(events)
	}
	if len(events) == 0 {
		fmt.Println("no events found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tRELEVANCE\tTRENDING\tSOURCES\tTITLE")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%d\t%s\n",
			ev.ID,
			ev.Category,
			ev.RelevanceScore,
			ev.TrendingScore,
			ev.SourcesCount,
			ev.Title,
		)
	}
	return w.Flush()
}

func showEvent(cmd *cobra.Command, args []string) error {
	ev, err := providerFor(cfg.Data.Mode).Event(cmd.Context(), args[0])
	if errors.Is(err, feed.ErrNotFound) {
		return fmt.Errorf("event %s not found", args[0])
	}
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(ev)
	}

	fmt.Printf("%s\n", ev.Title)
	fmt.Printf("category:  %s\n", ev.Category)
	fmt.Printf("relevance: %.2f\n", ev.RelevanceScore)
	fmt.Printf("trending:  %.2f\n", ev.TrendingScore)
	if len(ev.Keywords) > 0 {
		fmt.Printf("keywords:  %s\n", strings.Join(ev.Keywords, ", "))
	}
	if ev.Description != "" {
		fmt.Printf("\n%s\n", ev.Description)
	}
	printGroups(ev.Sources)
	return nil
}

func printGroups(groups feed.SourceGroups) {
	for _, key := range groups.Keys() {
		fmt.Printf("\n%s\n", feed.GroupTitle(key))
		for _, s := range groups[key] {
			fmt.Printf("  %-24s %5.1f  %-5s %s\n", s.Name, s.Score, feed.DetailBand(s.Score), s.URL)
		}
	}
}

func listSources(cmd *cobra.Command, args []string) error {
	sources, err := providerFor(cfg.Data.Mode).Sources(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(sources)
	}
	printSources(sources)
	return nil
}

func printSources(sources []feed.Source) {
	if len(sources) == 0 {
		fmt.Println("no sources found")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tURL\tCREDIBILITY\tENGAGEMENT\tCATEGORY")
	for _, s := range sources {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f %s\t%.1f %s\t%s\n",
			s.ID,
			s.Name,
			s.URL,
			s.CredibilityScore, feed.SourceBand(s.CredibilityScore),
			s.EngagementScore, feed.SourceBand(s.EngagementScore),
			s.Category,
		)
	}
	w.Flush()
}

// addSource takes the form from flags, prompting for whatever is missing
// when attached to a terminal.
func addSource(cmd *cobra.Command, args []string) error {
	src := feed.NewSource{Name: srcName, URL: srcURL, Description: srcDesc}
	if src.Validate() != nil && interactive() {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Name").Value(&src.Name),
			huh.NewInput().Title("URL").Value(&src.URL),
			huh.NewText().Title("Description").Value(&src.Description),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}
	if err := src.Validate(); err != nil {
		return errors.New("please fill in at least the name and URL fields")
	}

	sources, err := providerFor(cfg.Data.Mode).AddSource(cmd.Context(), src)
	if err != nil {
		return err
	}
	printSources(sources)
	return nil
}

func deleteSource(cmd *cobra.Command, args []string) error {
	if !assumeYes {
		if !interactive() {
			return errors.New("refusing to delete without --yes outside a terminal")
		}
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(deletePrompt).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("cancelled")
			return nil
		}
	}

	err := providerFor(cfg.Data.Mode).DeleteSource(cmd.Context(), args[0])
	if errors.Is(err, feed.ErrNotFound) {
		return fmt.Errorf("source %s not found", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func findSources(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	req := search.Request{Query: query}
	if len(args) == 1 {
		req.EventID = args[0]
		if req.Query == "" {
			ev, err := providerFor(cfg.Data.Mode).Event(ctx, args[0])
			if err != nil {
				return err
			}
			req.Query = ev.Title
		}
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("finding sources for %q...\n", req.Query)
	}
	groups, err := search.NewGuard(newFinder()).Find(ctx, req)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(groups)
	}
	printGroups(groups)
	return nil
}
