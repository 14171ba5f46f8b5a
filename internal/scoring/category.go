package scoring

import (
	"strings"

	"github.com/polyintel-project/backend/internal/models"
)

type categoryRule struct {
	category models.Category
	keywords []string
}

// Order matters: the first rule with a matching keyword wins.
// Some keywords carry a trailing space ("ai ", "fed ") to avoid matching inside words.
var categoryRules = []categoryRule{
	{models.CategoryPolitics, []string{
		"president", "election", "democrat", "republican", "congress", "senate", "governor",
		"trump", "biden", "political", "legislation", "government", "geopolit", "war", "peace",
		"ukraine", "russia", "china", "nato", "immigration", "tariff", "executive order",
		"white house", "supreme court", "veto", "impeach", "parliament",
	}},
	{models.CategorySports, []string{
		"nba", "nfl", "mlb", "nhl", "soccer", "football", "basketball", "baseball", "tennis",
		"mma", "ufc", "boxing", "cricket", "f1", "formula", "golf", "hockey", "ncaa",
		"super bowl", "world cup", "olympics", "premier league", "champions league", "la liga",
		"serie a", "bundesliga", "atp", "wta", "pga", "nascar", "world series", "stanley cup",
		"grand prix", "match", "game", "playoff",
	}},
	{models.CategoryCrypto, []string{
		"bitcoin", "ethereum", "crypto", "btc", "eth", "solana", "defi", "nft", "web3",
		"blockchain", "altcoin", "memecoin", "token", "stablecoin", "binance", "coinbase",
		"halving", "airdrop", "dao",
	}},
	{models.CategoryEntertainment, []string{
		"oscar", "grammy", "emmy", "movie", "film", "tv show", "box office", "streaming",
		"celebrity", "album", "song", "artist", "netflix", "disney", "spotify", "concert",
		"award show", "reality tv", "golden globe", "bafta", "billboard",
	}},
	{models.CategoryScience, []string{
		"ai ", "artificial intelligence", "openai", "space", "spacex", "nasa", "climate", "fda",
		"health", "medicine", "vaccine", "research", "science", "technology", "google", "apple",
		"microsoft", "meta", "amazon", "robot", "quantum", "fusion", "mars", "moon",
	}},
	{models.CategoryEconomics, []string{
		"fed ", "federal reserve", "inflation", "recession", "interest rate", "gdp",
		"unemployment", "stock", "s&p", "dow", "nasdaq", "treasury", "cpi", "jobs report",
		"trade", "economic", "housing", "debt ceiling", "default",
	}},
}

var categoryIcons = map[models.Category]string{
	models.CategoryPolitics:      "🏛️",
	models.CategorySports:        "⚽",
	models.CategoryCrypto:        "₿",
	models.CategoryEntertainment: "🎬",
	models.CategoryScience:       "🔬",
	models.CategoryEconomics:     "📈",
	models.CategoryOther:         "📦",
}

// Categorize infers an event category from its title and tag labels
func Categorize(title string, tags []string) models.Category {
	text := strings.ToLower(title + " " + strings.Join(tags, " "))
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return models.CategoryOther
}

// CategoryIcon returns the display icon for a category
func CategoryIcon(c models.Category) string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[models.CategoryOther]
}
