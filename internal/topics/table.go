package topics

// Default is the built-in topic table, in display order.
func Default() []Topic {
	out := make([]Topic, len(defaultTable))
	copy(out, defaultTable)
	return out
}

var defaultTable = []Topic{
	{Name: "Rate Cuts", Icon: "↓%", Keywords: []string{"rate cut", "cuts rates", "cuts interest rate", "cut interest rate", "lower rates", "lowers rates", " easing", "dovish"}},
	{Name: "Rate Hikes", Icon: "↑%", Keywords: []string{"rate hike", "hikes rates", "raises rates", "raise rates", "raises interest rate", "tightening", "hawkish"}},
	{Name: "Inflation", Icon: "$↑", Keywords: []string{"inflation", "cpi", "consumer prices", "price index", "pce"}},
	{Name: "Recession", Icon: "▼", Keywords: []string{"recession", "downturn", "gdp decline", "contraction", "slowdown"}},
	{Name: "Earnings", Icon: "$", Keywords: []string{"earnings", "quarterly results", "revenue", "profit", "guidance"}},
	{Name: "Jobs", Icon: "⚒", Keywords: []string{"jobs report", "payrolls", "unemployment", "jobless", "layoffs", "hiring", "labor market"}},
	{Name: "AI", Icon: "◆", Keywords: []string{"artificial intelligence", " ai ", "ai chip", "generative ai", "chatbot", "openai"}},
	{Name: "Crypto", Icon: "₿", Keywords: []string{"bitcoin", "crypto", "ethereum", "stablecoin", "blockchain"}},
	{Name: "Oil & Energy", Icon: "⛽", Keywords: []string{" oil ", " oil,", "oil prices", "crude", "opec", "natural gas", "brent", "energy prices"}},
	{Name: "Tariffs & Trade", Icon: "⇄", Keywords: []string{"tariff", "trade war", "trade deal", "export controls", "import duties"}},
	{Name: "Housing", Icon: "⌂", Keywords: []string{"housing", "mortgage", "home sales", "home prices", "real estate"}},
	{Name: "Banking", Icon: "▣", Keywords: []string{" bank ", " banks", "banking", "bank's", "lender", "deposits", "credit"}},
	{Name: "Mergers & Acquisitions", Icon: "⊕", Keywords: []string{"merger", "acquisition", "acquire", "takeover", "buyout"}},
	{Name: "IPOs", Icon: "★", Keywords: []string{" ipo", "initial public offering", "goes public", "listing debut"}},
}
