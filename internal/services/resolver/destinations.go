package resolver

import "mountain-recommendation-engine/internal/models"

// Destination names returned by the resolver.
const (
	ShahdagMountainResort  = "Shahdag Mountain Resort"
	TufandagMountainResort = "Tufandag Mountain Resort"
	KhinalugVillage        = "Khinalug Village & Mountains"
	GabalaMountainRegion   = "Gabala Mountain Region"
	LahijMountainVillage   = "Lahij Mountain Village"
	QubaQusarMountains     = "Quba-Qusar Mountain Region"
	GoyazanMountain        = "Goyazan Mountain (Candy Cane Mountains)"
	GreaterCaucasusTrails  = "Greater Caucasus Trail Network"
	ShahdagNationalPark    = "Shahdag National Park"
)

var (
	shahdagResort = models.Recommendation{
		DestinationName: ShahdagMountainResort,
		Rationale:       "Perfect for large families seeking comfort! Shahdag offers modern facilities, cable cars, family-friendly trails, and excellent accommodation. With your higher budget, you can enjoy the full resort experience including restaurants, activities for all ages, and stunning Caucasus views.",
	}

	tufandagResort = models.Recommendation{
		DestinationName: TufandagMountainResort,
		Rationale:       "Ideal for adventure seekers! Tufandag features the longest cable car in Azerbaijan, thrilling hiking trails, and year-round activities. The active vacation style matches perfectly with the challenging terrain and exciting sports opportunities available here.",
	}

	khinalug = models.Recommendation{
		DestinationName: KhinalugVillage,
		Rationale:       "A cultural treasure! Khinalug is one of Europe's highest and oldest continuously inhabited villages. You'll experience authentic Azerbaijani mountain culture, ancient traditions, stunning landscapes, and meet the warm local community. Perfect for those seeking meaningful cultural connections.",
	}

	gabala = models.Recommendation{
		DestinationName: GabalaMountainRegion,
		Rationale:       "Excellent value for relaxation! Gabala offers beautiful mountain scenery, comfortable mid-range accommodations, peaceful nature, and easy access to waterfalls and forests. It's perfect for unwinding without breaking the bank, with plenty of scenic spots for the whole family.",
	}

	lahij = models.Recommendation{
		DestinationName: LahijMountainVillage,
		Rationale:       "Authentic and affordable! Lahij is famous for its copper craftsmen and cobblestone streets nestled in the mountains. You'll experience genuine Azerbaijani culture, stay with locals, enjoy traditional cuisine, and explore beautiful mountain trails—all on a modest budget.",
	}

	qubaQusar = models.Recommendation{
		DestinationName: QubaQusarMountains,
		Rationale:       "A nature lover's paradise! This region features diverse ecosystems, from lush forests to alpine meadows. You'll find excellent hiking, pristine nature, waterfalls, and opportunities to see local wildlife. The varied landscape offers something new around every corner.",
	}

	goyazan = models.Recommendation{
		DestinationName: GoyazanMountain,
		Rationale:       "Unbelievably photogenic! Goyazan's unique striped rock formations create a surreal landscape unlike anywhere else. The colorful geological layers and dramatic mountain backdrop provide endless photography opportunities. A must-visit for Instagram-worthy shots!",
	}

	caucasusTrails = models.Recommendation{
		DestinationName: GreaterCaucasusTrails,
		Rationale:       "For the frequent traveler! Since you take multiple trips per year, explore Azerbaijan's interconnected mountain trail network. Start with Shahdag, then Tufandag, and gradually discover hidden gems like Khinalug and Lahij. Each visit will reveal new perspectives of Azerbaijan's magnificent mountains.",
	}

	shahdagPark = models.Recommendation{
		DestinationName: ShahdagNationalPark,
		Rationale:       "The perfect introduction to Azerbaijan's mountains! Shahdag National Park offers diverse experiences for all travelers—beautiful landscapes, moderate hiking trails, rich biodiversity, and facilities for families. It's an excellent starting point to discover why Azerbaijan's mountains are so special.",
	}
)

// Destinations returns the closed catalogue of recommendations in rule order.
func Destinations() []models.Recommendation {
	out := make([]models.Recommendation, len(rules))
	for i, r := range rules {
		out[i] = r.Recommendation
	}
	return out
}

// Fallback returns the recommendation used when no specific rule matches.
func Fallback() models.Recommendation {
	return shahdagPark
}
