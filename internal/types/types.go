package types

// Profile is a snapshot of an Instagram profile at fetch time.
// It is immutable after construction; a re-fetch produces a new Profile.
type Profile struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	Biography      string `json:"biography"`
	FollowerCount  int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
	IsPrivate      bool   `json:"is_private"`
	IsVerified     bool   `json:"is_verified"`
	AvatarURL      string `json:"profile_pic_url"`
	Posts          []Post `json:"posts"`
}

// Post is a single timeline item. Carousel posts carry their child media in
// Children; children only have the reduced field set (id, shortcode, display
// URL, video flag/url, media type) and inherit caption/timestamp context from
// the parent.
type Post struct {
	ID           string   `json:"id"`
	Shortcode    string   `json:"shortcode"`
	DisplayURL   string   `json:"display_url"`
	IsVideo      bool     `json:"is_video"`
	VideoURL     string   `json:"video_url,omitempty"`
	Caption      string   `json:"caption"`
	Timestamp    int64    `json:"timestamp"`
	LikeCount    int      `json:"like_count"`
	CommentCount int      `json:"comment_count"`
	Location     string   `json:"location,omitempty"`
	TaggedUsers  []string `json:"tagged_users,omitempty"`
	MediaType    string   `json:"media_type"`
	Children     []Post   `json:"children,omitempty"`
}
