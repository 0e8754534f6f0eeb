package types

// Record kinds, used for ids, metrics labels and sink collection names.
const (
	KindStub   = "stub"
	KindEvent  = "event"
	KindRank   = "rank"
	KindMode   = "mode"
	KindWeapon = "weapon"
)

// ForumPostStub is a lightweight entry from a forum category listing.
// Date is unparsed free text.
type ForumPostStub struct {
	URL          string `json:"url"          bson:"url"`
	Title        string `json:"title"        bson:"title"`
	Date         string `json:"date"         bson:"date"`
	DiscussionID string `json:"discussionId" bson:"discussionId"`
}

// ScrapedEvent is a single forum thread converted into an event record.
// Content is sanitized HTML whose links and images are absolute.
type ScrapedEvent struct {
	URL      string `json:"url"      bson:"url"`
	Title    string `json:"title"    bson:"title"`
	Date     string `json:"date"     bson:"date"`
	Image    string `json:"image"    bson:"image"`
	Content  string `json:"content"  bson:"content"`
	Category string `json:"category" bson:"category"`
}

// ScrapedRank is a rank catalog entry.
type ScrapedRank struct {
	ID           string `json:"id"                     bson:"id"`
	Name         string `json:"name"                   bson:"name"`
	Image        string `json:"image"                  bson:"image"`
	Description  string `json:"description,omitempty"  bson:"description,omitempty"`
	Requirements string `json:"requirements,omitempty" bson:"requirements,omitempty"`
}

// ScrapedMode is a game-mode catalog entry.
type ScrapedMode struct {
	ID          string `json:"id"                    bson:"id"`
	Name        string `json:"name"                  bson:"name"`
	Image       string `json:"image"                 bson:"image"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Type        string `json:"type,omitempty"        bson:"type,omitempty"`
}

// ScrapedWeapon is a weapon catalog entry. Stats maps a label such as
// "Damage" to its displayed value.
type ScrapedWeapon struct {
	ID          string            `json:"id"                    bson:"id"`
	Name        string            `json:"name"                  bson:"name"`
	Image       string            `json:"image"                 bson:"image"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Category    string            `json:"category,omitempty"    bson:"category,omitempty"`
	Stats       map[string]string `json:"stats,omitempty"       bson:"stats,omitempty"`
}
