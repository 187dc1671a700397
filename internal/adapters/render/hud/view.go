package hud

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/edc/internal/application"
	"github.com/bnema/edc/internal/domain"
)

const defaultMaxBodies = 12

type RenderOptions struct {
	Now time.Time
	// MaxBodies caps the exploration list; zero means the default.
	MaxBodies int
	// HighValueOnly hides exploration bodies below the threshold.
	HighValueOnly bool
}

func (o RenderOptions) maxBodies() int {
	if o.MaxBodies <= 0 {
		return defaultMaxBodies
	}
	return o.MaxBodies
}

func renderView(view application.CurrentView, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Elite Dangerous Companion"),
		s.header.Render(sessionLine(view)),
	}

	if view.Stale {
		lines = append(lines, s.warning.Render(staleAdvisory(view.Gaps, opts.Now)))
	}

	if !view.Context.HasSystem() {
		lines = append(lines, s.empty.Render("No current system yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines,
		s.section.Render(renderSystem(view, s)),
		s.section.Render(renderExploration(view.Exploration, view.Thresholds, opts, s)),
		s.section.Render(renderExobiology(view.Exobiology, s)),
	)
	if len(view.Combat.Contacts) > 0 {
		lines = append(lines, s.section.Render(renderCombat(view, s)))
	}
	if pp := renderPowerPlay(view, s); pp != "" {
		lines = append(lines, s.section.Render(pp))
	}
	lines = append(lines, s.section.Render(renderSession(view, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func sessionLine(view application.CurrentView) string {
	cmdr := strings.TrimSpace(view.Context.Commander)
	if cmdr == "" {
		cmdr = "unknown"
	}
	parts := []string{"CMDR " + cmdr}
	if view.Context.Ship != "" {
		parts = append(parts, view.Context.Ship)
	}
	parts = append(parts, fmt.Sprintf("v%d", view.Version))
	if view.LastEvent != "" {
		parts = append(parts, "last: "+view.LastEvent)
	}
	return strings.Join(parts, " | ")
}

func staleAdvisory(gaps []domain.IngestionGap, now time.Time) string {
	if len(gaps) == 0 {
		return "[stale] journal stream interrupted"
	}
	last := gaps[len(gaps)-1]
	msg := "[stale] " + last.Reason
	if !now.IsZero() && !last.DetectedAt.IsZero() {
		msg += " " + formatAgo(last.DetectedAt, now)
	}
	if len(gaps) > 1 {
		msg += fmt.Sprintf(" (+%d earlier)", len(gaps)-1)
	}
	return msg
}

func renderSystem(view application.CurrentView, s styles) string {
	name := view.System.Name
	if name == "" {
		name = view.Context.SystemName
	}
	if name == "" {
		name = view.Context.CurrentSystem.String()
	}

	title := name
	if view.Context.InHyperspace {
		dest := "unknown"
		if view.Context.PendingJump != nil && view.Context.PendingJump.Destination != "" {
			dest = view.Context.PendingJump.Destination
		}
		title += " -> " + dest + " (in hyperspace)"
	}

	parts := []string{s.system.Render(title)}
	if body := view.Context.CurrentBodyName; body != "" {
		parts = append(parts, s.detail.Render("body: "+body))
	}

	var facts []string
	for _, f := range []struct{ label, value string }{
		{"star", view.System.StarClass},
		{"allegiance", view.System.Allegiance},
		{"economy", view.System.Economy},
		{"security", view.System.Security},
	} {
		if f.value != "" {
			facts = append(facts, f.label+": "+f.value)
		}
	}
	if view.System.Population > 0 {
		facts = append(facts, "pop: "+domain.CompactCredits(view.System.Population))
	}
	if len(facts) > 0 {
		parts = append(parts, s.meta.Render(strings.Join(facts, "  ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderExploration(view application.ExplorationView, t domain.Thresholds, opts RenderOptions, s styles) string {
	heading := "Exploration"
	if view.BodyCount > 0 {
		heading += fmt.Sprintf(" %d/%d bodies", len(view.Bodies), view.BodyCount)
	}
	if view.AllBodiesFound {
		heading += " (complete)"
	}
	heading += fmt.Sprintf("  high value >= %s: %d", domain.CompactCredits(t.ExplorationHighValue), view.HighValueCount)

	parts := []string{s.heading.Render(heading)}

	shown := 0
	for _, body := range view.Bodies {
		if opts.HighValueOnly && !body.HighValue {
			continue
		}
		if shown == opts.maxBodies() {
			parts = append(parts, s.empty.Render(fmt.Sprintf("... %d more", countRemaining(view.Bodies, shown, opts))))
			break
		}
		parts = append(parts, bodyLine(body, s))
		shown++
	}
	if shown == 0 {
		parts = append(parts, s.empty.Render("No scanned bodies."))
	}

	if len(view.Signals) > 0 {
		parts = append(parts, s.meta.Render("signals: "+signalSummary(view.Signals)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func countRemaining(bodies []application.BodyView, shown int, opts RenderOptions) int {
	total := 0
	for _, body := range bodies {
		if opts.HighValueOnly && !body.HighValue {
			continue
		}
		total++
	}
	return total - shown
}

func bodyLine(body application.BodyView, s styles) string {
	name := body.Name
	if name == "" {
		name = fmt.Sprintf("body %d", body.ID)
	}

	var tags []string
	if body.Terraformable {
		tags = append(tags, "TF")
	}
	if body.Landable {
		tags = append(tags, "land")
	}
	if body.DSSConfirmedValue != nil {
		tags = append(tags, "mapped")
	}
	if !body.WasDiscovered {
		tags = append(tags, "first")
	}
	if body.BioSignals > 0 {
		tags = append(tags, fmt.Sprintf("bio:%d", body.BioSignals))
	}
	if body.GeoSignals > 0 {
		tags = append(tags, fmt.Sprintf("geo:%d", body.GeoSignals))
	}

	valueStyle := s.value
	marker := " "
	if body.HighValue {
		valueStyle = s.highValue
		marker = "*"
	}

	line := fmt.Sprintf("%s %-28s %-26s", marker, truncate(name, 28), truncate(body.Class, 26))
	out := s.detail.Render(line) + " " + valueStyle.Render(fmt.Sprintf("%8s", body.BestValueCompact()))
	if len(tags) > 0 {
		out += " " + s.meta.Render(strings.Join(tags, " "))
	}
	return out
}

func signalSummary(signals []domain.SystemSignal) string {
	counts := map[domain.SignalCategory]int{}
	for _, sig := range signals {
		counts[sig.Category]++
	}
	cats := make([]string, 0, len(counts))
	for cat := range counts {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)

	parts := make([]string, 0, len(cats))
	for _, cat := range cats {
		parts = append(parts, fmt.Sprintf("%s %d", cat, counts[domain.SignalCategory(cat)]))
	}
	return strings.Join(parts, ", ")
}

func renderExobiology(view application.ExobiologyView, s styles) string {
	parts := []string{s.heading.Render("Exobiology")}
	if len(view.Bodies) == 0 {
		parts = append(parts, s.empty.Render("No biological signals."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	for _, body := range view.Bodies {
		title := body.Name
		if title == "" {
			title = fmt.Sprintf("body %d", body.ID)
		}
		if body.BioSignals > 0 {
			title += fmt.Sprintf(" (%d signals", body.BioSignals)
			if body.Unresolved > 0 {
				title += fmt.Sprintf(", %d unresolved", body.Unresolved)
			}
			title += ")"
		}
		parts = append(parts, s.detail.Render(title))
		for _, species := range body.Species {
			parts = append(parts, speciesLine(species, s))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func speciesLine(sp application.SpeciesView, s styles) string {
	name := sp.Key.String()
	if sp.Variant != "" {
		name = sp.Variant
	}

	required := sp.RequiredCount
	if required <= 0 {
		required = domain.RequiredSamples
	}
	bar := renderProgressBar(sp.ProgressCount, required, 3*required, s)

	value := "?"
	valueStyle := s.value
	if sp.Value != nil {
		value = domain.CompactCredits(*sp.Value)
	}
	if sp.HighValue {
		valueStyle = s.highValue
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.detail.Render(fmt.Sprintf("  %-34s", truncate(name, 34))),
		" ",
		bar,
		" ",
		s.meta.Render(fmt.Sprintf("%d/%d %-9s", sp.ProgressCount, required, sp.Stage)),
		" ",
		valueStyle.Render(value),
	)
}

func renderCombat(view application.CurrentView, s styles) string {
	parts := []string{s.heading.Render("Contacts")}
	for _, contact := range view.Combat.Contacts {
		marker := " "
		if contact.IsCurrentTarget {
			marker = ">"
		}
		line := fmt.Sprintf("%s %s (%s)", marker, contact.Pilot, contact.Ship)
		var tags []string
		if contact.Rank != "" {
			tags = append(tags, contact.Rank)
		}
		if contact.Power != "" {
			tags = append(tags, contact.Power)
		}
		if contact.LegalStatus != "" {
			tags = append(tags, contact.LegalStatus)
		}
		if contact.Bounty > 0 {
			tags = append(tags, "bounty "+domain.CompactCredits(contact.Bounty))
		}
		if contact.Destroyed {
			tags = append(tags, "destroyed")
		}

		style := s.detail
		if contact.Alert && !contact.Destroyed {
			style = s.alert
			line = "! " + line[2:]
		}
		out := style.Render(line)
		if len(tags) > 0 {
			out += " " + s.meta.Render(strings.Join(tags, ", "))
		}
		parts = append(parts, out)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderPowerPlay(view application.CurrentView, s styles) string {
	var parts []string
	if view.Pledge != nil {
		parts = append(parts, s.detail.Render(fmt.Sprintf("pledged: %s rank %d, %s merits",
			view.Pledge.Power, view.Pledge.Rank, domain.CompactCredits(view.Pledge.Merits))))
	}

	ctx := view.PowerPlay.Context
	if ctx.ControllingPower != "" || ctx.State != "" {
		line := "system: "
		if ctx.ControllingPower != "" {
			line += ctx.ControllingPower
		} else {
			line += "uncontrolled"
		}
		if ctx.State != "" {
			line += " (" + ctx.State + ")"
		}
		parts = append(parts, s.meta.Render(line))
	}

	var merits int64
	for _, action := range view.PowerPlay.Actions {
		merits += action.Merits
	}
	if n := len(view.PowerPlay.Actions); n > 0 {
		parts = append(parts, s.meta.Render(fmt.Sprintf("actions here: %d, %s merits", n, domain.CompactCredits(merits))))
	}

	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{s.heading.Render("Powerplay")}, parts...)...)
}

func renderSession(view application.CurrentView, s styles) string {
	l := view.Ledger
	parts := []string{
		s.heading.Render("Session"),
		s.detail.Render(fmt.Sprintf("earned: %s (exploration %s, organic %s)",
			domain.CompactCredits(l.Total()), domain.CompactCredits(l.ExplorationSold), domain.CompactCredits(l.OrganicSold))),
	}
	if l.BountiesEarned > 0 || l.BondsEarned > 0 {
		parts = append(parts, s.meta.Render(fmt.Sprintf("unredeemed: bounties %s, bonds %s",
			domain.CompactCredits(l.BountiesEarned), domain.CompactCredits(l.BondsEarned))))
	}
	if view.Cargo.Count > 0 || view.Cargo.Limpets > 0 {
		parts = append(parts, s.meta.Render(fmt.Sprintf("cargo: %d t, limpets %d", view.Cargo.Count, view.Cargo.Limpets)))
	}
	if n := view.Locker.Total(); n > 0 {
		parts = append(parts, s.meta.Render(fmt.Sprintf("ship locker: %d items", n)))
	}
	for _, g := range view.Goals {
		parts = append(parts, s.detail.Render(goalLine(g)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func goalLine(g domain.CommunityGoal) string {
	line := "CG " + truncate(g.Title, 40)
	if g.SystemName != "" {
		line += " @ " + g.SystemName
	}
	switch {
	case g.Reward > 0:
		line += " | reward " + domain.CompactCredits(g.Reward)
	case g.Complete:
		line += " | complete"
	case g.PercentileBand > 0:
		line += fmt.Sprintf(" | top %d%%", g.PercentileBand)
	}
	if g.TierReached != "" {
		line += " | " + g.TierReached
	}
	return line
}

func renderProgressBar(done, total, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * float64(done) / float64(total)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barEdge.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barEdge.Render("]"),
	)
}

func formatAgo(at, now time.Time) string {
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return "at " + at.Format("15:04 on 02 Jan")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "~"
}
