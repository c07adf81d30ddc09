package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/milk9111/tiltmaze/levels"
	"github.com/milk9111/tiltmaze/storage"
)

var flagProgressPack string

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show recorded progress for a levelpack",
	Args:  cobra.NoArgs,
	RunE:  runProgress,
}

func init() {
	progressCmd.Flags().StringVar(&flagProgressPack, "pack", levels.DefaultPack, "Levelpack name or file")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	labelStyle  = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cellStyle   = lipgloss.NewStyle().Width(10)
	idStyle     = lipgloss.NewStyle().Width(38)
)

func runProgress(cmd *cobra.Command, args []string) error {
	pack, err := levels.Open(flagProgressPack)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Progress(pack.Digest)
	if err != nil {
		return err
	}
	runs, err := store.Runs(pack.Digest, 10)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderProgress(flagProgressPack, len(pack.Levels), p, runs))
	return nil
}

func renderProgress(name string, levelCount int, p storage.Progress, runs []storage.Run) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Progress - %s (%s)", name, p.Pack)))
	b.WriteString("\n\n")

	if p.Attempts == 0 {
		b.WriteString("No levels finished yet.")
		return b.String()
	}

	reached := "none"
	if p.HighestWon >= 0 {
		reached = fmt.Sprintf("%d/%d", p.HighestWon+1, levelCount)
	}
	rows := [][2]string{
		{"Best level", reached},
		{"Finished", fmt.Sprint(p.Attempts)},
		{"Won", fmt.Sprint(p.Wins)},
		{"Saved", fmt.Sprint(p.Saves)},
		{"Failed", fmt.Sprint(p.Fails)},
		{"Runs", fmt.Sprint(p.Runs)},
	}
	for _, r := range rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), r[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(headerStyle.Render("Run")),
		cellStyle.Render(headerStyle.Render("Levels")),
		cellStyle.Render(headerStyle.Render("Wins")),
		headerStyle.Render("Started"),
	))
	for _, r := range runs {
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(r.ID),
			cellStyle.Render(fmt.Sprint(r.Outcomes)),
			cellStyle.Render(fmt.Sprint(r.Wins)),
			r.StartedAt.Format("2006-01-02 15:04"),
		))
	}
	return b.String()
}
