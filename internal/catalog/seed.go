package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hongminglow/rentalctl/internal/models"
)

type seedGame struct {
	title     string
	genres    string
	rating    float64
	released  string
	platforms []string
}

var seedGames = []seedGame{
	{"Hollow Knight", "Platform,Adventure,Indie", 92, "2017-02-24", []string{"PC", "Nintendo Switch", "PlayStation 4"}},
	{"The Witcher 3: Wild Hunt", "Role-playing (RPG),Adventure", 94, "2015-05-19", []string{"PC", "PlayStation 4", "Xbox One"}},
	{"Celeste", "Platform,Indie", 88, "2018-01-25", []string{"PC", "Nintendo Switch"}},
	{"Forza Horizon 5", "Racing,Sport", 90, "2021-11-09", []string{"PC", "Xbox Series X|S", "Xbox One"}},
	{"Stardew Valley", "Simulator,Role-playing (RPG),Indie", 89, "2016-02-26", []string{"PC", "Mac", "Nintendo Switch"}},
	{"Age of Empires II: Definitive Edition", "Real Time Strategy (RTS),Strategy", 86, "2019-11-14", []string{"PC"}},
	{"Tekken 7", "Fighting,Arcade", 82, "2015-02-18", []string{"PC", "PlayStation 4", "Xbox One"}},
	{"Portal 2", "Puzzle,Shooter,Platform", 95, "2011-04-18", []string{"PC", "Mac", "PlayStation 3", "Xbox 360"}},
	{"XCOM 2", "Tactical,Turn-based strategy (TBS),Strategy", 85, "2016-02-05", []string{"PC", "PlayStation 4"}},
	{"Doom Eternal", "Shooter,Action", 88, "2020-03-20", []string{"PC", "PlayStation 5", "Xbox Series X|S", "Google Stadia"}},
	{"Super Mario Odyssey", "Platform,Adventure", 93, "2017-10-27", []string{"Nintendo Switch"}},
	{"Thimbleweed Park", "Point-and-click,Adventure,Indie", 80, "2017-03-30", []string{"PC", "Mac"}},
	{"Beat Saber", "Music,Arcade", 87, "2019-05-21", []string{"PC", "PlayStation 4"}},
	{"Slay the Spire", "Card & Board Game,Strategy,Indie", 89, "2019-01-23", []string{"PC", "Nintendo Switch", "PlayStation 4"}},
	{"Metroid Prime", "Shooter,Adventure", 96, "2002-11-17", []string{"GameCube", "Wii U"}},
}

// Seed fills s with a fixed set of games, each with copiesPerPlatform copies
// on every platform it ships on. Creation times are spread one hour apart so
// the newest-first listing has a stable order.
func Seed(s *Store, copiesPerPlatform int) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, g := range seedGames {
		s.AddGame(models.GameDetails{
			Title:       g.title,
			Description: fmt.Sprintf("%s is part of the demo catalog.", g.title),
			ReleaseDate: g.released,
			ArtworkURL:  fmt.Sprintf("https://images.example.com/games/%d/cover.jpg", i+1),
			Rating:      g.rating,
			TotalRating: g.rating,
			RatingCount: 100 + i*7,
			Screenshots: fmt.Sprintf("https://images.example.com/games/%d/1.jpg,https://images.example.com/games/%d/2.jpg", i+1, i+1),
			Genres:      g.genres,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
		}, copiesPerPlatform, g.platforms...)
	}
}

// SeedAdmin creates an administrator whose login password is password.
// An existing account with the same email is left untouched.
func SeedAdmin(ctx context.Context, s *Store, email, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = s.CreateAccount(ctx, Account{Email: email, IsAdmin: true, PasswordHash: hash})
	if err != nil && !errors.Is(err, ErrAlreadyExists) {
		return err
	}
	return nil
}
