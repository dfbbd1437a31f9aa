package lexicon

// defaultStructural is the built-in structural vocabulary for common-law
// commercial contracts. Deliberately excludes words like "party",
// "agreement", or "confidential" that appear in nearly every clause and
// would let shallow overlap through the gate.
var defaultStructural = []string{
	"termination", "expiration", "renewal", "survival", "term",
	"remedies", "injunction", "damages", "indemnification", "liability",
	"warranty", "disclaimer", "breach", "default", "cure",
	"disclosure", "compelled", "subpoena", "regulator", "authority",
	"license", "ownership", "assignment", "transfer", "sublicense",
	"infringement", "patent", "copyright", "trademark", "trade",
	"jurisdiction", "venue", "arbitration", "mediation", "governing",
	"severability", "waiver", "amendment", "counterparts", "notices",
	"return", "destruction", "deletion", "retention", "archival",
	"marking", "legend", "designation", "derivative", "residuals",
	"solicitation", "competition", "exclusivity", "publicity", "announcement",
	"audit", "inspection", "compliance", "sanctions", "export",
	"privacy", "gdpr", "processing", "subprocessor", "controller",
	"payment", "fees", "invoice", "taxes", "interest",
	"insurance", "force", "majeure", "escrow", "security",
	"definition", "purpose", "scope", "exclusions", "obligations",
	"representatives", "affiliates", "successors", "ip",
}

// defaultSynonyms maps canonical structural tokens to morphological and
// semantic variants. Lookup is bidirectional after construction.
var defaultSynonyms = map[string][]string{
	"termination":     {"terminate", "terminated", "terminates", "terminating"},
	"expiration":      {"expire", "expires", "expired", "expiry"},
	"renewal":         {"renew", "renews", "renewed", "extension", "extend"},
	"survival":        {"survive", "survives", "surviving"},
	"remedies":        {"remedy", "relief", "injunctive", "equitable"},
	"injunction":      {"injunctive", "restraining", "enjoin"},
	"damages":         {"damage", "losses", "compensation"},
	"indemnification": {"indemnify", "indemnity", "indemnifies", "indemnified"},
	"liability":       {"liable", "liabilities"},
	"warranty":        {"warranties", "warrant", "warrants", "guarantee"},
	"breach":          {"breaches", "breached", "violation", "violate"},
	"disclosure":      {"disclose", "disclosed", "discloses", "disclosing", "divulge"},
	"compelled":       {"compel", "required", "mandated", "obligated"},
	"regulator":       {"regulatory", "governmental", "agency"},
	"authority":       {"authorities", "court", "tribunal"},
	"license":         {"licence", "licensed", "licensing", "licensee", "licensor"},
	"ownership":       {"own", "owns", "owned", "owner", "title", "proprietary"},
	"assignment":      {"assign", "assigns", "assigned", "assignable"},
	"infringement":    {"infringe", "infringes", "infringing", "misappropriation"},
	"jurisdiction":    {"jurisdictions", "forum", "courts"},
	"arbitration":     {"arbitrate", "arbitrator", "arbitral"},
	"governing":       {"governed", "governs", "construed"},
	"waiver":          {"waive", "waives", "waived"},
	"amendment":       {"amend", "amended", "amendments", "modification", "modified"},
	"notices":         {"notice", "notify", "notification", "notifying"},
	"return":          {"returned", "returning", "redeliver", "redelivery"},
	"destruction":     {"destroy", "destroyed", "destroys", "deletion", "delete", "deleted", "erase"},
	"marking":         {"marked", "mark", "legend", "legended", "stamped", "labeled", "labelled"},
	"solicitation":    {"solicit", "solicits", "soliciting", "hire"},
	"competition":     {"compete", "competing", "competitive"},
	"audit":           {"audits", "audited", "inspect", "inspection"},
	"privacy":         {"personal", "data"},
	"processing":      {"process", "processed", "processes", "processor"},
	"payment":         {"pay", "payable", "paid", "payments"},
	"definition":      {"defined", "definitions", "means", "meaning"},
	"purpose":         {"purposes", "solely", "use"},
	"obligations":     {"obligation", "duties", "duty"},
	"exclusions":      {"exclusion", "excluded", "excludes", "exceptions", "exception"},
	"ip":              {"intellectual", "property"},
	"force":           {"majeure"},
	"security":        {"safeguards", "safeguard", "encryption"},
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	return New(defaultStructural, defaultSynonyms)
}
