package tokenize

// stopwords is the closed set dropped from every tokenisation, shared by
// index-time and query-time calls to Tokenize. Common English function
// words plus a small set of domain noise tokens (markup/transport terms
// that recur in transcripts without carrying search signal).
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "this": {}, "that": {}, "with": {},
	"http": {}, "https": {}, "json": {}, "null": {},
	"a": {}, "an": {}, "are": {}, "was": {}, "were": {}, "been": {}, "being": {},
	"but": {}, "not": {}, "can": {}, "could": {}, "should": {}, "would": {},
	"will": {}, "shall": {}, "may": {}, "might": {}, "must": {},
	"you": {}, "your": {}, "yours": {}, "our": {}, "ours": {}, "they": {},
	"them": {}, "their": {}, "his": {}, "her": {}, "hers": {}, "its": {},
	"have": {}, "has": {}, "had": {}, "having": {}, "does": {}, "did": {},
	"from": {}, "into": {}, "onto": {}, "out": {}, "about": {}, "above": {},
	"below": {}, "between": {}, "through": {}, "during": {}, "before": {},
	"after": {}, "over": {}, "under": {}, "again": {}, "further": {},
	"then": {}, "once": {}, "here": {}, "there": {}, "when": {}, "where": {},
	"why": {}, "how": {}, "all": {}, "any": {}, "both": {}, "each": {},
	"few": {}, "more": {}, "most": {}, "other": {}, "some": {}, "such": {},
	"only": {}, "own": {}, "same": {}, "than": {}, "too": {}, "very": {},
	"just": {}, "also": {}, "because": {}, "while": {}, "these": {}, "those": {},
	"who": {}, "whom": {}, "which": {}, "what": {}, "she": {}, "him": {},
	"himself": {}, "herself": {}, "itself": {}, "themselves": {}, "myself": {},
	"yourself": {}, "ourselves": {}, "yourselves": {}, "off": {}, "down": {},
	"doing": {}, "don": {}, "now": {}, "get": {}, "got": {}, "like": {},
	"make": {}, "made": {}, "one": {}, "two": {}, "use": {}, "used": {},
	"using": {}, "per": {}, "via": {}, "etc": {}, "yet": {}, "until": {},
	"upon": {}, "within": {}, "without": {}, "across": {}, "around": {},
	"against": {}, "among": {}, "along": {}, "amongst": {}, "beside": {},
	"besides": {}, "despite": {}, "except": {}, "inside": {}, "outside": {},
	"toward": {}, "towards": {}, "underneath": {}, "unto": {}, "upward": {},
	"whereas": {}, "wherever": {}, "whenever": {}, "whichever": {}, "whoever": {},
	"api": {}, "http2": {},
}

// IsStopword reports whether token is in the closed stopword set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
