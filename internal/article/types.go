package article

// Article is one side of a round. Real and fake articles share this shape so
// that nothing but the content can tell them apart.
type Article struct {
	Title             string `json:"title"`
	Content           string `json:"content"`
	IsAI              bool   `json:"isAI"`
	IsCompleteFiction bool   `json:"isCompleteFiction,omitempty"`
	Source            string `json:"source,omitempty"`
	LastModified      string `json:"lastModified,omitempty"`
	URL               string `json:"url,omitempty"`
	HTML              string `json:"html,omitempty"`
}

// Round is a real-vs-fake pairing as shown to the player.
type Round struct {
	Articles         [2]Article `json:"articles"`
	RealArticleIndex int        `json:"realArticleIndex"`
	Timestamp        int64      `json:"timestamp"` // cache busting only
	Fallback         bool       `json:"fallback,omitempty"`
}

// Real returns the non-AI article of the round.
func (r Round) Real() Article { return r.Articles[r.RealArticleIndex] }

// Fake returns the AI article of the round.
func (r Round) Fake() Article { return r.Articles[1-r.RealArticleIndex] }

// DateLayout is how lastModified is rendered, e.g. "March 4, 2025".
const DateLayout = "January 2, 2006"
