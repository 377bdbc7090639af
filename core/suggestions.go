package orchestration

// Suggestions are the canned chat shortcuts offered under the input box.
var Suggestions = []string{
	"Store hours",
	"Today's deals",
	"Track my order",
	"Where is the bakery?",
	"Return policy",
}
