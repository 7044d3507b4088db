package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hongminglow/rentalctl/internal/library"
	"github.com/hongminglow/rentalctl/internal/models"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")) // Green

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")) // Yellow

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))
)

func field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label+":") + " " + value
}

func card(title string, lines ...string) string {
	body := append([]string{titleStyle.Render(title)}, lines...)
	return cardStyle.Render(strings.Join(body, "\n"))
}

func gameCard(g models.Game) string {
	return card(g.Name,
		field("ID", fmt.Sprint(g.ID)),
		field("Rating", fmt.Sprintf("%.0f", g.Rating)),
		field("Genres", strings.ReplaceAll(g.Genres, ",", ", ")),
	)
}

func detailsCard(g models.GameDetails) string {
	lines := []string{
		field("ID", fmt.Sprint(g.ID)),
		field("Released", g.ReleaseDate),
		field("Rating", fmt.Sprintf("%.0f (%d votes)", g.Rating, g.RatingCount)),
		field("Genres", strings.Join(g.GenreList(), ", ")),
	}
	platforms := g.AvailablePlatforms()
	if len(platforms) == 0 {
		lines = append(lines, field("Available on", warnStyle.Render("no copies available")))
	} else {
		lines = append(lines, field("Available on", strings.Join(platforms, ", ")))
	}
	for _, inv := range g.Inventory {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  inventory %d: %s x%d", inv.InventoryID, inv.PlatformName, inv.Quantity)))
	}
	if g.Description != "" {
		lines = append(lines, "", g.Description)
	}
	return card(g.Title, lines...)
}

func historyCard(item library.HistoryItem) string {
	return card(item.Title,
		field("ID", fmt.Sprint(item.ID)),
		field("Drawn", item.DrawnAt.Local().Format(time.DateTime)),
		field("Available on", strings.Join(item.AvailablePlatforms(), ", ")),
	)
}

func rentalCard(r models.Rental) string {
	status := warnStyle.Render("rented")
	if r.IsReturned {
		status = successStyle.Render("returned")
	}
	lines := []string{
		field("Rental", fmt.Sprint(r.ID)),
		field("Platform", r.PlatformName),
		field("Rented", r.RentedAt),
		field("Due", r.ReturnDate),
		field("Status", status),
	}
	if r.ActualReturnDate != nil {
		lines = append(lines, field("Returned", *r.ActualReturnDate))
	}
	return card(r.Title, lines...)
}

func userCard(u models.User, role string) string {
	return card(u.Email,
		field("ID", fmt.Sprint(u.ID)),
		field("Address", u.Address),
		field("Role", role),
	)
}
