package entity

// Aliases are lowercase and match on word boundaries. Names that are also
// common words are spelled out in full ("intel corp", "ford motor"), and
// demonyms shared by more than one country ("korean") are left out.
var defaultCompanies = []companyEntry{
	{Company{"Apple", "AAPL"}, []string{"apple", "iphone"}},
	{Company{"Microsoft", "MSFT"}, []string{"microsoft"}},
	{Company{"Alphabet", "GOOGL"}, []string{"alphabet", "google"}},
	{Company{"Amazon", "AMZN"}, []string{"amazon"}},
	{Company{"Meta Platforms", "META"}, []string{"meta platforms", "facebook", "instagram"}},
	{Company{"Nvidia", "NVDA"}, []string{"nvidia"}},
	{Company{"Tesla", "TSLA"}, []string{"tesla"}},
	{Company{"Netflix", "NFLX"}, []string{"netflix"}},
	{Company{"Advanced Micro Devices", "AMD"}, []string{"advanced micro devices", "amd"}},
	{Company{"Intel", "INTC"}, []string{"intel corp", "intel's", "intel shares", "intel stock"}},
	{Company{"Taiwan Semiconductor", "TSM"}, []string{"tsmc", "taiwan semiconductor"}},
	{Company{"Broadcom", "AVGO"}, []string{"broadcom"}},
	{Company{"Oracle", "ORCL"}, []string{"oracle"}},
	{Company{"Salesforce", "CRM"}, []string{"salesforce"}},
	{Company{"JPMorgan Chase", "JPM"}, []string{"jpmorgan", "jp morgan", "j.p. morgan"}},
	{Company{"Goldman Sachs", "GS"}, []string{"goldman sachs", "goldman"}},
	{Company{"Morgan Stanley", "MS"}, []string{"morgan stanley"}},
	{Company{"Bank of America", "BAC"}, []string{"bank of america", "bofa"}},
	{Company{"Wells Fargo", "WFC"}, []string{"wells fargo"}},
	{Company{"Citigroup", "C"}, []string{"citigroup", "citibank"}},
	{Company{"Berkshire Hathaway", "BRK.B"}, []string{"berkshire hathaway", "berkshire"}},
	{Company{"Visa", "V"}, []string{"visa inc"}},
	{Company{"Mastercard", "MA"}, []string{"mastercard"}},
	{Company{"PayPal", "PYPL"}, []string{"paypal"}},
	{Company{"Coinbase", "COIN"}, []string{"coinbase"}},
	{Company{"ExxonMobil", "XOM"}, []string{"exxon"}},
	{Company{"Chevron", "CVX"}, []string{"chevron"}},
	{Company{"Boeing", "BA"}, []string{"boeing"}},
	{Company{"Ford", "F"}, []string{"ford motor", "ford's"}},
	{Company{"General Motors", "GM"}, []string{"general motors"}},
	{Company{"Walmart", "WMT"}, []string{"walmart"}},
	{Company{"Costco", "COST"}, []string{"costco"}},
	{Company{"Disney", "DIS"}, []string{"disney"}},
	{Company{"Pfizer", "PFE"}, []string{"pfizer"}},
	{Company{"Eli Lilly", "LLY"}, []string{"eli lilly", "lilly"}},
	{Company{"Johnson & Johnson", "JNJ"}, []string{"johnson & johnson", "johnson and johnson"}},
	{Company{"UnitedHealth", "UNH"}, []string{"unitedhealth"}},
	{Company{"Nike", "NKE"}, []string{"nike"}},
	{Company{"Starbucks", "SBUX"}, []string{"starbucks"}},
	{Company{"Uber", "UBER"}, []string{"uber technologies", "uber's", "uber shares", "uber stock"}},
}

var defaultCountries = []countryEntry{
	{"United States", []string{"united states", "u.s.", "america", "wall street", "federal reserve"}},
	{"China", []string{"china", "chinese", "beijing"}},
	{"Japan", []string{"japan", "japanese", "tokyo", "bank of japan"}},
	{"Germany", []string{"germany", "german", "berlin", "frankfurt"}},
	{"United Kingdom", []string{"united kingdom", "britain", "british", "bank of england", "london"}},
	{"France", []string{"france", "french"}},
	{"Eurozone", []string{"eurozone", "euro zone", "ecb", "european central bank"}},
	{"India", []string{"india", "indian", "mumbai"}},
	{"Russia", []string{"russia", "russian", "moscow", "kremlin"}},
	{"Ukraine", []string{"ukraine", "ukrainian", "kyiv"}},
	{"Canada", []string{"canada", "canadian", "ottawa"}},
	{"Mexico", []string{"mexico", "mexican"}},
	{"Brazil", []string{"brazil", "brazilian"}},
	{"Saudi Arabia", []string{"saudi", "riyadh"}},
	{"Israel", []string{"israel", "israeli"}},
	{"Iran", []string{"iran", "iranian", "tehran"}},
	{"South Korea", []string{"south korea", "south korean", "seoul"}},
	{"Taiwan", []string{"taiwan", "taipei"}},
	{"Switzerland", []string{"switzerland", "swiss"}},
	{"Australia", []string{"australia", "australian"}},
}
