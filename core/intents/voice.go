package intents

import "github.com/koscakluka/ema-assist/core/locales"

// Voice-only rule names. Shared names such as [RuleGreeting] are reused.
const (
	RuleBakeryLocation  = "bakery_location"
	RuleDairyLocation   = "dairy_location"
	RuleProduceLocation = "produce_location"
	RuleCheckout        = "checkout"
)

var whereKeywords = []string{"where", "find", "location", "aisle", "कहां", "कहाँ", "किधर", "कहा"}

// VoiceCatalog returns the built-in voice catalog with English (primary) and
// Hindi (secondary) templates. Each call returns a fresh copy.
func VoiceCatalog() Catalog {
	return Catalog{
		Channel:       ChannelVoice,
		DefaultLocale: locales.Primary,
		Rules: []Rule{
			{
				Name:          RuleGreeting,
				KeywordGroups: [][]string{{"hello", "hey", "good morning", "good evening", "नमस्ते", "हेलो", "हैलो"}},
				Templates: both(
					"Hello! Welcome to FreshMart. What are you looking for today?",
					"नमस्ते! फ्रेशमार्ट में आपका स्वागत है। आज आप क्या ढूंढ रहे हैं?",
				),
			},
			{
				Name:          RuleStoreHours,
				KeywordGroups: [][]string{{"hour", "open", "closing", "timing", "समय", "खुल", "बंद"}},
				Templates: both(
					"We're open every day from 7 AM to 11 PM.",
					"हमारा स्टोर हर दिन सुबह 7 बजे से रात 11 बजे तक खुला रहता है।",
				),
			},
			{
				Name: RuleBakeryLocation,
				KeywordGroups: [][]string{
					{"bakery", "bread", "cake", "बेकरी", "ब्रेड", "केक"},
					whereKeywords,
				},
				Templates: both(
					"The bakery section is in aisle 1, right next to the entrance.",
					"बेकरी सेक्शन प्रवेश द्वार के पास गलियारा 1 में है।",
				),
			},
			{
				Name: RuleDairyLocation,
				KeywordGroups: [][]string{
					{"milk", "dairy", "cheese", "yogurt", "दूध", "डेयरी", "पनीर", "दही"},
					whereKeywords,
				},
				Templates: both(
					"Milk and dairy products are in aisle 5, in the chilled section along the back wall.",
					"दूध और डेयरी उत्पाद गलियारा 5 में, पीछे की दीवार के पास ठंडे सेक्शन में हैं।",
				),
			},
			{
				Name: RuleProduceLocation,
				KeywordGroups: [][]string{
					{"fruit", "vegetable", "produce", "फल", "सब्ज़ी", "सब्जी"},
					whereKeywords,
				},
				Templates: both(
					"Fresh fruits and vegetables are in aisles 2 and 3.",
					"ताज़े फल और सब्ज़ियां गलियारा 2 और 3 में हैं।",
				),
			},
			{
				Name:          RuleCheckout,
				KeywordGroups: [][]string{{"checkout", "billing", "counter", "cashier", "बिलिंग", "काउंटर"}},
				Templates: both(
					"The checkout counters are at the front of the store. Self checkout is next to counter 6.",
					"बिलिंग काउंटर स्टोर के आगे की तरफ़ हैं। सेल्फ़ चेकआउट काउंटर 6 के पास है।",
				),
			},
			{
				Name:          RuleDeals,
				KeywordGroups: [][]string{{"deal", "offer", "discount", "sale", "ऑफर", "छूट", "डील"}},
				Templates: both(
					"This week there is 20 percent off all bakery items and buy one get one free on seasonal fruit.",
					"इस हफ़्ते सभी बेकरी आइटम पर 20 प्रतिशत की छूट है और मौसमी फलों पर एक के साथ एक मुफ़्त है।",
				),
			},
			{
				Name:          RuleParking,
				KeywordGroups: [][]string{{"parking", "पार्किंग"}},
				Templates: both(
					"Free parking is available in the basement for up to three hours.",
					"बेसमेंट में तीन घंटे तक मुफ़्त पार्किंग उपलब्ध है।",
				),
			},
			{
				Name:          RulePharmacy,
				KeywordGroups: [][]string{{"pharmacy", "medicine", "दवा", "फार्मेसी"}},
				Templates: both(
					"The pharmacy counter is at the back of the store, next to aisle 8.",
					"फार्मेसी काउंटर स्टोर के पीछे, गलियारा 8 के पास है।",
				),
			},
			{
				Name:          RuleThanks,
				KeywordGroups: [][]string{{"thank", "धन्यवाद", "शुक्रिया"}},
				Templates: both(
					"You're welcome! Happy shopping.",
					"आपका स्वागत है! खुशी से खरीदारी करें।",
				),
			},
			{
				Name:          RuleGoodbye,
				KeywordGroups: [][]string{{"bye", "see you", "अलविदा", "फिर मिलेंगे"}},
				Templates: both(
					"Goodbye! See you again soon.",
					"अलविदा! फिर मिलेंगे।",
				),
			},
		},
		Fallback: both(
			"Sorry, I didn't catch that. You can ask me where to find a department, our store hours, or today's deals.",
			"माफ़ कीजिए, मैं समझ नहीं पाया। आप मुझसे किसी सेक्शन का पता, स्टोर का समय या आज के ऑफर पूछ सकते हैं।",
		),
	}
}

func both(primaryTemplate, secondaryTemplate string) map[locales.Locale]string {
	return map[locales.Locale]string{
		locales.Primary:   primaryTemplate,
		locales.Secondary: secondaryTemplate,
	}
}
