package library

import "slices"

// Genres is the genre vocabulary the catalog filters on.
var Genres = []string{
	"Action",
	"Adventure",
	"Arcade",
	"Card & Board Game",
	"Fighting",
	"Hack and slash/Beat 'em up",
	"Indie",
	"Music",
	"Pinball",
	"Platform",
	"Point-and-click",
	"Puzzle",
	"Quiz/Trivia",
	"Racing",
	"Real Time Strategy (RTS)",
	"Role-playing (RPG)",
	"Shooter",
	"Simulator",
	"Sport",
	"Strategy",
	"Tactical",
	"Turn-based strategy (TBS)",
	"Visual Novel",
}

// Platforms is the platform vocabulary the catalog filters on.
var Platforms = []string{
	"3DS",
	"GameCube",
	"Google Stadia",
	"Mac",
	"Nintendo Switch",
	"PC",
	"PlayStation 2",
	"PlayStation 3",
	"PlayStation 4",
	"PlayStation 5",
	"SNES",
	"Wii U",
	"Xbox 360",
	"Xbox One",
	"Xbox Series X|S",
}

// KnownGenre reports whether name is in Genres.
func KnownGenre(name string) bool { return slices.Contains(Genres, name) }

// KnownPlatform reports whether name is in Platforms.
func KnownPlatform(name string) bool { return slices.Contains(Platforms, name) }
