package intents

import "github.com/koscakluka/ema-assist/core/locales"

// Chat rule names.
const (
	RuleGreeting      = "greeting"
	RuleStoreHours    = "store_hours"
	RuleBakery        = "bakery"
	RuleDairy         = "dairy"
	RuleProduce       = "produce"
	RuleDeals         = "deals"
	RuleOrderTracking = "order_tracking"
	RuleReturns       = "returns"
	RulePayment       = "payment"
	RuleParking       = "parking"
	RulePharmacy      = "pharmacy"
	RuleStoreLocation = "store_location"
	RuleThanks        = "thanks"
	RuleGoodbye       = "goodbye"
	RuleHelp          = "help"
)

// ChatGreeting is the assistant turn every chat session starts with.
const ChatGreeting = "Hi! I'm the FreshMart assistant. Ask me about store hours, departments, deals or your orders."

// ChatNotUnderstood is returned when an utterance fails the chat gate.
const ChatNotUnderstood = "I'm sorry, I didn't quite get that. Could you rephrase, or pick one of the suggestions below?"

// ChatGenericResponses is the set a generic chat acknowledgement is drawn
// from.
var ChatGenericResponses = []string{
	"Good question! You can find most products using the search bar or the store map.",
	"I can help with that. Our staff at the help desk near the entrance can also assist you in person.",
	"Thanks for asking! Check the product page for the latest availability and prices.",
	"Let me point you in the right direction: the store map lists every aisle and department.",
}

// ChatCatalog returns the built-in chat catalog. Each call returns a fresh
// copy.
func ChatCatalog() Catalog {
	return Catalog{
		Channel:       ChannelChat,
		DefaultLocale: locales.Primary,
		Rules: []Rule{
			{
				Name:          RuleGreeting,
				KeywordGroups: [][]string{{"hello", "hey", "good morning", "good afternoon", "good evening", "namaste"}},
				Templates:     primary("Hello! Welcome to FreshMart. How can I help you today?"),
			},
			{
				Name:          RuleStoreHours,
				KeywordGroups: [][]string{{"hour", "open", "closing", "timing"}},
				Templates:     primary("We're open every day from 7:00 AM to 11:00 PM, and until 9:00 PM on public holidays."),
			},
			{
				Name:          RuleBakery,
				KeywordGroups: [][]string{{"bakery", "bread", "cake", "pastr", "croissant"}},
				Templates:     primary("Our bakery is in aisle 1, right next to the entrance. Fresh bread comes out of the oven every morning at 8:00 AM."),
			},
			{
				Name:          RuleDairy,
				KeywordGroups: [][]string{{"milk", "dairy", "cheese", "yogurt", "butter", "paneer"}},
				Templates:     primary("Milk, cheese and other dairy products are in aisle 5 along the back wall, in the chilled section."),
			},
			{
				Name:          RuleProduce,
				KeywordGroups: [][]string{{"fruit", "vegetable", "produce", "apple", "banana", "tomato"}},
				Templates:     primary("Fresh fruits and vegetables are in aisles 2 and 3. Today's harvest arrives by 9:00 AM."),
			},
			{
				Name:          RuleDeals,
				KeywordGroups: [][]string{{"deal", "offer", "discount", "sale", "coupon", "promo"}},
				Templates:     primary("This week: 20% off all bakery items, buy one get one free on seasonal fruit, and double reward points on dairy."),
			},
			{
				Name:          RuleOrderTracking,
				KeywordGroups: [][]string{{"order", "delivery", "package"}, {"track", "status", "where", "when"}},
				Templates:     primary("You can track your order under Account > Orders. Deliveries usually arrive within two hours of dispatch."),
			},
			{
				Name:          RuleReturns,
				KeywordGroups: [][]string{{"return", "refund", "exchange"}},
				Templates:     primary("Unopened items can be returned within 14 days with the receipt. Refunds go back to the original payment method."),
			},
			{
				Name:          RulePayment,
				KeywordGroups: [][]string{{"pay", "card", "cash", "upi", "wallet"}},
				Templates:     primary("We accept cash, all major credit and debit cards, UPI and mobile wallets."),
			},
			{
				Name:          RuleParking,
				KeywordGroups: [][]string{{"parking", "park my", "car park"}},
				Templates:     primary("Free parking is available in the basement for up to three hours with any purchase."),
			},
			{
				Name:          RulePharmacy,
				KeywordGroups: [][]string{{"pharmacy", "medicine", "prescription"}},
				Templates:     primary("The pharmacy counter is at the back of the store, next to aisle 8, and is open from 9:00 AM to 9:00 PM."),
			},
			{
				Name:          RuleStoreLocation,
				KeywordGroups: [][]string{{"where", "location", "address", "direction"}, {"store", "shop", "you", "freshmart"}},
				Templates:     primary("FreshMart is at 42 Market Street. Open the store map for turn-by-turn directions."),
			},
			{
				Name:          RuleThanks,
				KeywordGroups: [][]string{{"thank", "thx", "appreciate"}},
				Templates:     primary("You're welcome! Anything else I can help you find?"),
			},
			{
				Name:          RuleGoodbye,
				KeywordGroups: [][]string{{"bye", "see you", "goodnight"}},
				Templates:     primary("Goodbye! Happy shopping at FreshMart."),
			},
			{
				Name:          RuleHelp,
				KeywordGroups: [][]string{{"help", "assist", "support"}},
				Templates:     primary("I can tell you about store hours, where departments are, current deals, orders, returns, payment and parking."),
			},
		},
		MeaningfulKeywords: []string{
			"product", "price", "cost", "item", "buy", "shop", "store", "grocery",
			"stock", "aisle", "brand", "organic", "fresh", "cart", "checkout",
			"account", "member", "reward", "point", "snack", "drink", "juice",
			"meat", "fish", "chicken", "frozen", "rice", "flour", "spice", "oil",
			"tea", "coffee", "sugar", "egg", "available", "find", "need", "want",
		},
		MinInputLength:   DefaultMinInputLength,
		NotUnderstood:    primary(ChatNotUnderstood),
		GenericResponses: map[locales.Locale][]string{locales.Primary: append([]string(nil), ChatGenericResponses...)},
	}
}

func primary(template string) map[locales.Locale]string {
	return map[locales.Locale]string{locales.Primary: template}
}
