package sentiment

// Keyword lexicons for financial news polarity. Terms are lowercase and
// matched by plain substring containment against normalized text.
// The lists are fixed configuration data; downstream consumers (keyword
// legends, API) read them through the accessors below.

var positiveKeywords = []string{
	"beat",
	"growth",
	"expansion",
	"profit",
	"surge",
	"record",
	"upgrade",
	"optimistic",
	"strong",
	"bullish",
	"outperform",
	"increase",
	"improve",
	"success",
	"gain",
	"rally",
	"soar",
	"boom",
	"breakthrough",
	"innovative",
	"win",
	"recovery",
	"accelerate",
	"exceed",
	"robust",
	"positive",
	"momentum",
	"high",
	"advance",
	"jump",
	"climb",
	"rise",
	"strength",
	"opportunity",
	"excellent",
	"stellar",
	"impressive",
	"milestone",
	"achievement",
	"revenue",
	"earnings",
}

var negativeKeywords = []string{
	"loss",
	"lawsuit",
	"decline",
	"drop",
	"downgrade",
	"weak",
	"bearish",
	"decrease",
	"fraud",
	"scandal",
	"risk",
	"miss",
	"slowdown",
	"concern",
	"fall",
	"plunge",
	"crash",
	"collapse",
	"failure",
	"cut",
	"layoff",
	"fire",
	"downturn",
	"slump",
	"struggle",
	"threat",
	"warning",
	"investigation",
	"penalty",
	"fine",
	"violation",
	"negative",
	"volatility",
	"uncertainty",
	"disappointing",
	"worse",
	"deficit",
	"debt",
	"bankrupt",
	"restructure",
	"delay",
}

// PositiveKeywords returns a copy of the positive lexicon.
func PositiveKeywords() []string {
	out := make([]string, len(positiveKeywords))
	copy(out, positiveKeywords)
	return out
}

// NegativeKeywords returns a copy of the negative lexicon.
func NegativeKeywords() []string {
	out := make([]string, len(negativeKeywords))
	copy(out, negativeKeywords)
	return out
}
