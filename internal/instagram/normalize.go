package instagram

import "gramlens/internal/types"

// The raw API shape. Fields the upstream omits decode to zero values, which is
// exactly the defensive default the normalization pass wants: missing data
// becomes empty string / 0 / false, never an error.

type rawResponse struct {
	Data struct {
		User *rawUser `json:"user"`
	} `json:"data"`
}

type rawUser struct {
	ID                       string   `json:"id"`
	FullName                 string   `json:"full_name"`
	Biography                string   `json:"biography"`
	EdgeFollowedBy           rawCount `json:"edge_followed_by"`
	EdgeFollow               rawCount `json:"edge_follow"`
	IsPrivate                bool     `json:"is_private"`
	IsVerified               bool     `json:"is_verified"`
	ProfilePicURL            string   `json:"profile_pic_url"`
	ProfilePicURLHD          string   `json:"profile_pic_url_hd"`
	EdgeOwnerToTimelineMedia rawEdges `json:"edge_owner_to_timeline_media"`
}

type rawCount struct {
	Count int `json:"count"`
}

type rawEdges struct {
	Edges []rawEdge `json:"edges"`
}

type rawEdge struct {
	Node rawNode `json:"node"`
}

type rawNode struct {
	ID                    string         `json:"id"`
	Shortcode             string         `json:"shortcode"`
	DisplayURL            string         `json:"display_url"`
	IsVideo               bool           `json:"is_video"`
	VideoURL              string         `json:"video_url"`
	Typename              string         `json:"__typename"`
	TakenAtTimestamp      int64          `json:"taken_at_timestamp"`
	EdgeMediaToCaption    rawEdges       `json:"edge_media_to_caption"`
	EdgeLikedBy           rawCount       `json:"edge_liked_by"`
	EdgeMediaToComment    rawCount       `json:"edge_media_to_comment"`
	Location              *rawLocation   `json:"location"`
	EdgeMediaToTaggedUser rawTaggedEdges `json:"edge_media_to_tagged_user"`
	EdgeSidecarToChildren rawEdges       `json:"edge_sidecar_to_children"`
	Text                  string         `json:"text"` // set on caption nodes
}

type rawLocation struct {
	Name string `json:"name"`
}

type rawTaggedEdges struct {
	Edges []struct {
		Node struct {
			User struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"node"`
	} `json:"edges"`
}

// normalizeProfile converts the raw user object into the stable Profile shape.
func normalizeProfile(username string, user *rawUser) *types.Profile {
	avatar := user.ProfilePicURLHD
	if avatar == "" {
		avatar = user.ProfilePicURL
	}

	p := &types.Profile{
		Username:       username,
		FullName:       user.FullName,
		Biography:      user.Biography,
		FollowerCount:  user.EdgeFollowedBy.Count,
		FollowingCount: user.EdgeFollow.Count,
		IsPrivate:      user.IsPrivate,
		IsVerified:     user.IsVerified,
		AvatarURL:      avatar,
	}

	for _, edge := range user.EdgeOwnerToTimelineMedia.Edges {
		p.Posts = append(p.Posts, normalizePost(edge.Node))
	}

	return p
}

// normalizePost flattens one timeline edge: first caption edge, tagged-user
// edges as a plain username list, and sidecar children with their reduced
// field set.
func normalizePost(node rawNode) types.Post {
	post := types.Post{
		ID:           node.ID,
		Shortcode:    node.Shortcode,
		DisplayURL:   node.DisplayURL,
		IsVideo:      node.IsVideo,
		Caption:      firstCaption(node.EdgeMediaToCaption),
		Timestamp:    node.TakenAtTimestamp,
		LikeCount:    node.EdgeLikedBy.Count,
		CommentCount: node.EdgeMediaToComment.Count,
		MediaType:    node.Typename,
	}

	if node.IsVideo && node.VideoURL != "" {
		post.VideoURL = node.VideoURL
	}
	if node.Location != nil {
		post.Location = node.Location.Name
	}

	for _, tagged := range node.EdgeMediaToTaggedUser.Edges {
		post.TaggedUsers = append(post.TaggedUsers, tagged.Node.User.Username)
	}

	for _, child := range node.EdgeSidecarToChildren.Edges {
		post.Children = append(post.Children, normalizeChild(child.Node))
	}

	return post
}

// normalizeChild maps a carousel child. Children carry only id, shortcode,
// media URL, video flag/url, and media type; caption and timestamp context
// come from the parent.
func normalizeChild(node rawNode) types.Post {
	child := types.Post{
		ID:         node.ID,
		Shortcode:  node.Shortcode,
		DisplayURL: node.DisplayURL,
		IsVideo:    node.IsVideo,
		MediaType:  node.Typename,
	}
	if node.IsVideo && node.VideoURL != "" {
		child.VideoURL = node.VideoURL
	}
	return child
}

func firstCaption(edges rawEdges) string {
	if len(edges.Edges) == 0 {
		return ""
	}
	return edges.Edges[0].Node.Text
}
