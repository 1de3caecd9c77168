package nlp

import "github.com/jdsports555/WaifuChatBotv2/pkg/types"

// topicEntry binds a topic to its fixed keyword set and score weight.
// The slice order is the tie-break order: when two topics score equally,
// the one declared first wins. Keep that order stable.
type topicEntry struct {
	topic    types.Topic
	weight   float64
	keywords map[string]struct{}
}

// NSFW topics carry a score multiplier so explicit content is not
// under-classified as mild when both vocabularies match.
var topicTable = []topicEntry{
	{types.TopicAnime, 1.0, newSet(
		"anime", "manga", "otaku", "cosplay", "waifu", "japan", "japanese",
		"character", "episode", "watch", "series", "show", "weeb", "senpai",
		"kawaii", "moe",
	)},
	{types.TopicFood, 1.0, newSet(
		"food", "eat", "cooking", "cook", "delicious", "hungry", "meal", "dish",
		"taste", "recipe", "baking", "kitchen", "yummy", "flavor", "sweet",
		"sour", "spicy", "salty", "bitter", "umami", "restaurant", "cuisine",
		"snack", "dessert",
	)},
	{types.TopicGames, 1.0, newSet(
		"game", "gaming", "play", "gamer", "console", "playstation", "xbox",
		"nintendo", "character", "level", "rpg", "mmo", "fps", "moba",
		"strategy", "puzzle", "shooter", "adventure", "quest", "mission",
		"boss", "raid", "dungeon", "steam", "twitch", "stream",
	)},
	{types.TopicMusic, 1.0, newSet(
		"music", "song", "listen", "singer", "band", "concert", "melody",
		"rhythm", "dance", "lyrics", "tune", "artist", "album", "playlist",
		"rap", "rock", "pop", "classical", "jazz", "edm", "metal", "indie",
		"vocal", "instrument", "guitar", "piano", "drums", "bass", "violin",
		"symphony",
	)},
	{types.TopicWeather, 1.0, newSet(
		"weather", "sunny", "rainy", "cloudy", "hot", "cold", "warm", "snow",
		"temperature", "forecast", "season", "winter", "summer", "spring",
		"fall", "climate", "humid", "dry", "wind", "storm", "thunder",
		"lightning", "fog", "mist", "drought", "flood", "hurricane",
		"typhoon", "tornado",
	)},
	{types.TopicArt, 1.0, newSet(
		"art", "drawing", "paint", "sketch", "artist", "canvas", "gallery",
		"exhibition", "sculpture", "photography", "design", "digital",
		"illustration", "aesthetic", "creative", "masterpiece", "portrait",
		"landscape", "abstract", "surreal", "impressionism", "modern",
		"contemporary", "traditional",
	)},
	{types.TopicLiterature, 1.0, newSet(
		"book", "novel", "author", "read", "write", "writing", "story",
		"fiction", "fantasy", "mystery", "thriller", "horror", "romance",
		"poetry", "poem", "writer", "character", "plot", "chapter", "publish",
		"literature", "genre", "series", "trilogy", "saga", "lore",
		"narrative", "prose",
	)},
	{types.TopicTechnology, 1.0, newSet(
		"tech", "technology", "computer", "code", "program", "software",
		"hardware", "internet", "web", "app", "application", "device",
		"gadget", "smartphone", "laptop", "robot", "automation", "algorithm",
		"data", "digital", "innovation", "startup", "coding", "development",
	)},
	{types.TopicPhilosophy, 1.0, newSet(
		"philosophy", "meaning", "existence", "life", "death", "mind", "soul",
		"spirit", "consciousness", "reality", "truth", "ethics", "morality",
		"virtue", "justice", "freedom", "wisdom", "knowledge", "thought",
		"thinking", "purpose", "metaphysics", "ontology", "epistemology",
		"existential", "philosophical", "philosopher",
	)},
	{types.TopicRomance, 1.0, newSet(
		"love", "relationship", "dating", "date", "boyfriend", "girlfriend",
		"partner", "marriage", "wedding", "anniversary", "romantic",
		"romance", "crush", "intimate", "passion", "affection", "devotion",
		"commitment", "couple", "together", "heart", "soulmate", "flirt",
		"kiss", "hug", "cuddle", "attraction", "chemistry",
	)},
	{types.TopicOccult, 1.0, newSet(
		"occult", "tarot", "astrology", "zodiac", "witchcraft", "witch",
		"magic", "spell", "ritual", "seance", "ouija", "ghost", "spirit",
		"haunted", "paranormal", "supernatural", "divination", "rune",
		"pentagram", "mystic", "mysticism", "alchemy", "curse", "omen",
	)},
	{types.TopicNSFWMild, 1.2, newSet(
		"nsfw", "adult", "sexy", "intimate", "mature", "sensual", "flirt",
		"naughty", "tease", "teasing", "suggestive", "seductive", "seduce",
		"attractive", "hot", "desire", "passion", "tempt", "provocative",
		"alluring", "enticing", "arousing", "flirtatious", "playful",
		"mischievous", "cheeky", "adventurous", "lingerie", "underwear",
		"panties", "sheer", "revealing", "curves", "touching", "caress",
		"stroke", "embrace", "whisper", "lips", "tongue", "crave", "yearn",
		"thrill", "private", "kissing",
	)},
	{types.TopicNSFWExplicit, 1.5, newSet(
		"sex", "sexual", "nude", "naked", "lewd", "erotic", "porn",
		"pornography", "kinky", "fetish", "kink", "bdsm", "explicit", "xxx",
		"horny", "orgasm", "foreplay", "intercourse", "hardcore", "bondage",
		"dominant", "submissive", "dominance", "domination", "submission",
		"strip", "stripper", "slutty", "taboo", "fuck", "fucking", "cum",
		"cumming", "dick", "cock", "penis", "pussy", "vagina", "clit", "ass",
		"tits", "boobs", "breasts", "nipples", "anal", "oral", "blowjob",
		"handjob", "masturbate", "masturbation", "threesome", "foursome",
		"orgy", "gangbang", "spank", "spanking", "whip", "flog",
		"penetration", "penetrate", "dildo", "vibrator", "buttplug",
		"climax", "squirt", "squirting", "doggy", "missionary", "cowgirl",
	)},
}

var greetingPatterns = compilePatterns(
	`^hi\b`,
	`^hello\b`,
	`^hey\b`,
	`^greetings`,
	`^good (morning|afternoon|evening)`,
	`^how are you`,
	`^what'?s up\b`,
	`^sup\b`,
	`^yo\b`,
	`^howdy\b`,
)
