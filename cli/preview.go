package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/seed"
)

func newPreviewCmd() *cobra.Command {
	var (
		sign    string
		date    string
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the quests, guidance and horoscope for a sign and date",
		Long:  "Preview renders the deterministic daily content without a database or a running server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := seed.Today(time.Now())
			if date != "" {
				parsed, err := seed.ParseDate(date)
				if err != nil {
					return err
				}
				d = parsed
			}
			renderPreview(cmd.OutOrStdout(), content.ParseSign(sign), d, minutes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&sign, "sign", "s", "", "zodiac sign (empty or unknown means not sure)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today, UTC)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", content.DefaultTimeAvailable, "minutes available for quests")
	return cmd
}

func renderPreview(w io.Writer, sign content.Sign, d seed.Date, minutes int) {
	fmt.Fprintln(w, title.Render(fmt.Sprintf("Stardust for %s on %s", sign, d)))
	fmt.Fprintln(w)

	var quests []string
	for _, q := range content.GenerateDailyQuests(minutes, d) {
		line := fmt.Sprintf("%s %s %s", key.Render(string(q.Type)), q.Title,
			muted.Render(fmt.Sprintf("(%d min, %s)", q.EstimatedMinutes, gold.Render(fmt.Sprintf("+%d XP", q.XP)))))
		if q.TinyVersion != "" {
			line += "\n  " + muted.Render("tiny: "+q.TinyVersion)
		}
		quests = append(quests, line)
	}
	fmt.Fprintln(w, h2.Render("Quests"))
	fmt.Fprintln(w, panel.Render(strings.Join(quests, "\n")))

	g := content.GenerateDailyGuidance(sign, d)
	guidance := []string{
		g.StarGuidance,
		labelValue("Theme", g.Theme),
		labelValue("Mode", g.Mode),
		labelValue("Best time", g.TimingHint),
		labelValue("Do", strings.Join(g.Do, ", ")),
		labelValue("Avoid", strings.Join(g.Avoid, ", ")),
	}
	fmt.Fprintln(w, h2.Render("Guidance"))
	fmt.Fprintln(w, panel.Render(strings.Join(guidance, "\n")))

	h := content.GenerateDailyHoroscope(sign, d)
	horoscope := []string{
		muted.Render(h.FormattedDate),
		h.Overall,
		labelValue("Love", h.Love),
		labelValue("Career", h.Career),
		labelValue("Wellness", h.Wellness),
		lipgloss.JoinHorizontal(lipgloss.Top,
			labelValue("Lucky", fmt.Sprintf("%d %s", h.LuckyNumber, h.LuckyColor)), "  ",
			labelValue("Mood", h.Mood), "  ",
			labelValue("Match", h.Compatibility)),
	}
	fmt.Fprintln(w, h2.Render("Horoscope ("+h.DisplaySign+")"))
	fmt.Fprintln(w, panel.Render(strings.Join(horoscope, "\n")))
}
