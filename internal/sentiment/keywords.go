package sentiment

var positiveKeywords = []string{
	// price action
	"surge", "surges", "surged", "surging",
	"soar", "soars", "soared", "soaring",
	"rally", "rallies", "rallied", "rallying",
	"jump", "jumps", "jumped",
	"climb", "climbs", "climbed",
	"gain", "gains", "gained",
	"rise", "rises", "rising", "rose",
	"rebound", "rebounds", "rebounded",
	"recover", "recovers", "recovery",
	"high", "highs", "record",
	// fundamentals
	"beat", "beats", "beating",
	"exceed", "exceeds", "exceeded",
	"profit", "profits", "profitable",
	"growth", "grow", "grows", "grew",
	"boost", "boosts", "boosted",
	"strong", "stronger", "strength",
	"upgrade", "upgrades", "upgraded",
	"outperform", "outperforms",
	"expand", "expands", "expansion",
	"bullish", "optimism", "optimistic", "confidence",
	"breakthrough", "win", "wins", "approval", "approved",
	"dividend", "buyback",
	"tops estimates", "raises guidance", "all-time high",
}

var negativeKeywords = []string{
	// price action
	"fall", "falls", "fell", "falling",
	"drop", "drops", "dropped",
	"plunge", "plunges", "plunged",
	"crash", "crashes", "crashed",
	"tumble", "tumbles", "tumbled",
	"slump", "slumps", "slumped",
	"slide", "slides", "slid",
	"sink", "sinks", "sank",
	"low", "lows", "selloff", "sell-off",
	// fundamentals
	"miss", "misses", "missed",
	"loss", "losses", "lose",
	"decline", "declines", "declined", "declining",
	"weak", "weaker", "weakness",
	"downgrade", "downgrades", "downgraded",
	"cut", "cuts", "layoffs", "layoff",
	"bearish", "fear", "fears", "panic", "worry", "worries", "concern", "concerns",
	"recession", "crisis", "default", "bankruptcy", "collapse",
	"lawsuit", "probe", "investigation", "fraud", "scandal",
	"warning", "warns", "risk", "risks", "volatility", "uncertainty",
	"inflation", "tariff", "tariffs", "sanctions", "war",
	"job cuts", "profit warning", "lowers guidance",
}
