package curator

// Shot describes one photo a category's listings should carry.
type Shot struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Elements    []string `json:"elements"`
	Lighting    string   `json:"lighting"`
	Composition string   `json:"composition"`
}

type Strategy struct {
	Images []Shot `json:"images"`
}

var fallbackStrategies = map[string]Strategy{
	"ocean": {Images: []Shot{
		{Type: "beachfront_camping", Description: "Tent setup on sandy beach with ocean view", Elements: []string{"camping tent", "ocean waves", "sandy beach", "sunset"}, Lighting: "golden hour sunset", Composition: "wide angle showing tent and ocean"},
		{Type: "coastal_campfire", Description: "Campfire scene with ocean in background", Elements: []string{"campfire", "people around fire", "ocean view", "evening sky"}, Lighting: "twilight blue hour", Composition: "medium shot focusing on fire with ocean backdrop"},
		{Type: "beach_activities", Description: "Camping gear and beach activities setup", Elements: []string{"camping chairs", "beach gear", "coastal scenery", "outdoor cooking"}, Lighting: "bright daylight", Composition: "lifestyle shot showing camp setup"},
	}},
	"mountain": {Images: []Shot{
		{Type: "alpine_campsite", Description: "Tent pitched with mountain peaks in background", Elements: []string{"mountain tent", "alpine peaks", "hiking gear", "pristine nature"}, Lighting: "morning light on peaks", Composition: "dramatic angle showcasing mountain scale"},
		{Type: "mountain_campfire", Description: "Evening campfire with mountain silhouettes", Elements: []string{"stone fire ring", "mountain silhouettes", "starry sky", "warm glow"}, Lighting: "evening twilight", Composition: "low angle showing fire against mountain backdrop"},
		{Type: "hiking_basecamp", Description: "Well-organized mountain camping setup", Elements: []string{"hiking backpacks", "mountain views", "camping table", "outdoor gear"}, Lighting: "clear mountain daylight", Composition: "organized camp layout with scenic backdrop"},
	}},
	"forest": {Images: []Shot{
		{Type: "woodland_campsite", Description: "Tent among tall trees with dappled sunlight", Elements: []string{"forest tent", "tall trees", "natural lighting", "forest floor"}, Lighting: "filtered forest sunlight", Composition: "intimate forest setting with natural framing"},
		{Type: "forest_campfire", Description: "Cozy campfire surrounded by woods", Elements: []string{"wood campfire", "forest setting", "camping chairs", "peaceful atmosphere"}, Lighting: "warm evening glow", Composition: "close-up of fire with forest backdrop"},
		{Type: "nature_exploration", Description: "Forest camping with nature activities", Elements: []string{"nature observation", "forest trails", "camping setup", "wildlife spotting"}, Lighting: "natural forest light", Composition: "adventure-focused camping scene"},
	}},
	"river": {Images: []Shot{
		{Type: "riverside_camping", Description: "Campsite beside flowing river", Elements: []string{"flowing water", "riverbank tent", "fishing gear", "natural sounds"}, Lighting: "early morning mist", Composition: "tent positioned near water with river flow visible"},
		{Type: "water_activities", Description: "Camping with water recreation focus", Elements: []string{"kayaks", "fishing equipment", "water access", "recreational setup"}, Lighting: "bright outdoor daylight", Composition: "active water recreation scene"},
		{Type: "peaceful_waterside", Description: "Tranquil camping by gentle waters", Elements: []string{"calm water", "reflection", "peaceful setting", "comfortable seating"}, Lighting: "soft natural light", Composition: "serene waterside relaxation"},
	}},
	"desert": {Images: []Shot{
		{Type: "desert_sunrise", Description: "Desert camping with dramatic sunrise", Elements: []string{"desert tent", "cacti", "rock formations", "vast sky"}, Lighting: "golden desert sunrise", Composition: "wide vista showing desert scale and beauty"},
		{Type: "stargazing_camp", Description: "Desert camping setup for astronomy", Elements: []string{"clear dark skies", "minimal light pollution", "telescope", "desert landscape"}, Lighting: "night sky with stars", Composition: "camp setup under spectacular starry sky"},
		{Type: "desert_exploration", Description: "Desert adventure camping base", Elements: []string{"hiking gear", "desert plants", "exploration equipment", "sun protection"}, Lighting: "clear desert daylight", Composition: "adventure-ready desert camp"},
	}},
	"lake": {Images: []Shot{
		{Type: "lakeside_serenity", Description: "Peaceful camping by calm lake waters", Elements: []string{"lake reflection", "still water", "waterfront tent", "morning calm"}, Lighting: "peaceful morning light", Composition: "tent with perfect lake reflection"},
		{Type: "lake_recreation", Description: "Active lake camping with water sports", Elements: []string{"swimming area", "boat access", "water activities", "family camping"}, Lighting: "bright summer daylight", Composition: "fun family lake camping scene"},
		{Type: "sunset_lake", Description: "Romantic lake camping at sunset", Elements: []string{"sunset colors", "calm lake", "intimate setting", "evening atmosphere"}, Lighting: "golden sunset over water", Composition: "romantic lakeside evening scene"},
	}},
}

// FallbackStrategy returns the built-in strategy for category. Unknown
// categories get the forest strategy.
func FallbackStrategy(category string) Strategy {
	if s, ok := fallbackStrategies[category]; ok {
		return s
	}
	return fallbackStrategies["forest"]
}
