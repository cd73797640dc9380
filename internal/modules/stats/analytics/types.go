package analytics

import "time"

// Series labels describing how the *ByDay arrays were produced.
const (
	SeriesSynthetic = "synthetic"
	SeriesMeasured  = "measured"
)

// Response is the unified payload every provider converges on.
// Numbers default to zero and arrays to empty; Normalize enforces it.
type Response struct {
	Provider    string    `json:"provider"`
	Range       string    `json:"range"`
	Days        int       `json:"days"`
	GeneratedAt time.Time `json:"generatedAt"`

	TotalPosts     int64 `json:"totalPosts"`
	PublishedPosts int64 `json:"publishedPosts"`
	DraftPosts     int64 `json:"draftPosts"`
	FeaturedPosts  int64 `json:"featuredPosts"`
	TotalViews     int64 `json:"totalViews"`
	TotalLikes     int64 `json:"totalLikes"`
	TotalComments  int64 `json:"totalComments"`
	TotalUsers     int64 `json:"totalUsers"`

	RecentPosts    int64 `json:"recentPosts"`
	RecentViews    int64 `json:"recentViews"`
	RecentLikes    int64 `json:"recentLikes"`
	RecentComments int64 `json:"recentComments"`

	TopPosts      []TopPost  `json:"topPosts"`
	TopCategories []TopGroup `json:"topCategories"`
	TopTags       []TopGroup `json:"topTags"`

	ViewsByDay    []DayPoint `json:"viewsByDay"`
	LikesByDay    []DayPoint `json:"likesByDay"`
	CommentsByDay []DayPoint `json:"commentsByDay"`

	Engagement Engagement `json:"engagement"`

	// Series tells whether viewsByDay was measured or generated.
	Series string `json:"series"`
	// EstimatedFields names every field whose value is derived by formula rather than counted.
	EstimatedFields []string `json:"estimatedFields"`

	GAData *GAData `json:"gaData,omitempty"`
}

// TopPost is one entry of the most viewed posts list.
type TopPost struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Status       string `json:"status"`
	ViewCount    int64  `json:"viewCount"`
	LikeCount    int64  `json:"likeCount"`
	CommentCount int64  `json:"commentCount"`
}

// TopGroup is a category or tag ranked by the views of its posts.
type TopGroup struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	PostCount  int64  `json:"postCount"`
	TotalViews int64  `json:"totalViews"`
}

// DayPoint is one bucket of a daily series.
type DayPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Value int64  `json:"value"`
}

type Engagement struct {
	AvgTimeOnSite     string  `json:"avgTimeOnSite"`
	AvgSessionSeconds float64 `json:"avgSessionSeconds"`
	BounceRate        float64 `json:"bounceRate"`
	ReturningVisitors float64 `json:"returningVisitors"`
	NewVisitors       float64 `json:"newVisitors"`
	EngagementRate    float64 `json:"engagementRate"`
}

// GAData carries Google Analytics details that have no internal equivalent.
type GAData struct {
	PropertyID         string          `json:"propertyId"`
	PageViews          int64           `json:"pageViews"`
	Sessions           int64           `json:"sessions"`
	ActiveUsers        int64           `json:"activeUsers"`
	NewUsers           int64           `json:"newUsers"`
	TotalUsers         int64           `json:"totalUsers"`
	EventCount         int64           `json:"eventCount"`
	AvgSessionDuration float64         `json:"avgSessionDuration"`
	BounceRate         float64         `json:"bounceRate"`
	DeviceBreakdown    []DeviceShare   `json:"deviceBreakdown"`
	TopLocations       []LocationShare `json:"topLocations"`
	TopPages           []PageViews     `json:"topPages"`
}

type DeviceShare struct {
	Device     string `json:"device"`
	Views      int64  `json:"views"`
	Percentage int    `json:"percentage"`
}

type LocationShare struct {
	Country    string `json:"country"`
	Views      int64  `json:"views"`
	Percentage int    `json:"percentage"`
}

type PageViews struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}
