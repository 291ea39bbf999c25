package words

// DefaultCatalog groups candidate words by part of speech and category. Words
// are stored lowercase. The health category holds a single word;
// Selector.sampleCategory must skip it.
var DefaultCatalog = Catalog{
	Adjective: {
		"appearance":  {"attractive", "bald", "beautiful", "chubby", "clean", "elegant", "fancy", "glamorous", "handsome", "muscular", "plain", "scruffy"},
		"color":       {"amber", "crimson", "emerald", "golden", "indigo", "ivory", "magenta", "scarlet", "silver", "turquoise", "violet"},
		"condition":   {"broken", "careful", "clever", "crazy", "damaged", "famous", "gifted", "helpful", "important", "odd", "powerful", "rich", "shy", "tender", "vast"},
		"personality": {"brave", "calm", "eager", "faithful", "gentle", "grumpy", "jolly", "kind", "nervous", "obedient", "polite", "proud", "silly", "witty"},
		"quantity":    {"abundant", "empty", "few", "full", "heavy", "light", "many", "numerous", "sparse", "substantial"},
		"shapes":      {"circular", "curved", "flat", "hollow", "narrow", "pointed", "round", "square", "wide"},
		"size":        {"colossal", "gigantic", "huge", "immense", "little", "mammoth", "massive", "miniature", "petite", "puny", "scrawny", "teeny", "tiny"},
		"sounds":      {"cooing", "deafening", "faint", "hissing", "melodic", "noisy", "purring", "raspy", "screeching", "thundering", "whispering"},
		"taste":       {"bitter", "creamy", "delicious", "fresh", "juicy", "ripe", "rotten", "salty", "savory", "sour", "spicy", "stale", "sweet", "tangy"},
		"time":        {"ancient", "brief", "early", "late", "modern", "prehistoric", "rapid", "slow", "swift", "young"},
		"touch":       {"boiling", "breezy", "bumpy", "chilly", "cuddly", "damp", "fluffy", "freezing", "icy", "prickly", "silky", "slippery", "smooth", "sticky"},
	},
	Noun: {
		"animals":        {"badger", "cheetah", "dolphin", "eagle", "ferret", "giraffe", "hedgehog", "jaguar", "koala", "lemur", "meerkat", "narwhal", "octopus", "panda", "raccoon", "toucan", "walrus", "zebra"},
		"business":       {"agreement", "commerce", "contract", "industry", "inventory", "market", "merchant", "partnership", "profit", "salary"},
		"education":      {"classroom", "diploma", "homework", "lecture", "library", "professor", "scholarship", "semester", "textbook", "tutor"},
		"family":         {"aunt", "brother", "cousin", "daughter", "grandfather", "grandmother", "nephew", "niece", "sibling", "uncle"},
		"food":           {"avocado", "bagel", "burrito", "casserole", "dumpling", "lasagna", "noodle", "omelette", "pancake", "pretzel", "quiche", "risotto", "taco", "waffle"},
		"health":         {"medicine"},
		"media":          {"broadcast", "documentary", "headline", "journal", "magazine", "newspaper", "podcast", "tabloid"},
		"people":         {"architect", "citizen", "crowd", "neighbor", "pedestrian", "stranger", "tourist", "volunteer"},
		"place":          {"archipelago", "canyon", "harbor", "lagoon", "meadow", "oasis", "peninsula", "plateau", "prairie", "valley"},
		"profession":     {"blacksmith", "carpenter", "electrician", "firefighter", "journalist", "locksmith", "plumber", "surgeon", "tailor", "veterinarian"},
		"religion":       {"cathedral", "chapel", "monastery", "monk", "pilgrim", "prophet", "shrine", "temple"},
		"science":        {"atom", "electron", "galaxy", "hypothesis", "laboratory", "molecule", "neutron", "photon", "quasar", "theorem"},
		"sports":         {"archery", "badminton", "bowling", "cricket", "curling", "fencing", "lacrosse", "rowing", "snowboarding", "volleyball"},
		"technology":     {"algorithm", "circuit", "database", "firmware", "keyboard", "processor", "router", "satellite", "sensor", "transistor"},
		"thing":          {"anchor", "bucket", "candle", "doorknob", "envelope", "hammock", "ladder", "mirror", "padlock", "umbrella"},
		"time":           {"afternoon", "century", "decade", "dusk", "era", "fortnight", "midnight", "moment", "season", "twilight"},
		"transportation": {"bicycle", "canoe", "ferry", "gondola", "helicopter", "motorcycle", "rickshaw", "submarine", "tram", "zeppelin"},
	},
}
