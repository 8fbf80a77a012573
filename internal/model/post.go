package model

import "time"

// Category groups focused posts. Names are unique; deleting a category
// deletes every post in it.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FocusedPost is an authored post in a category. Only content and
// category are mutable, and only by the author.
type FocusedPost struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	Content    string    `json:"content"`
	MediaIDs   []string  `json:"mediaIds"`
	CategoryID string    `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Comment is authored content attached to a post or another comment.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	ParentID  string    `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tag marks a user on a post. At most one tag per (tagged, post) pair;
// only the tagger may remove it.
type Tag struct {
	ID        string    `json:"id"`
	TaggerID  string    `json:"taggerId"`
	TaggedID  string    `json:"taggedId"`
	PostID    string    `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Vote is a user's up/down vote on a post. At most one vote per
// (user, parent) pair; re-voting toggles or flips it.
type Vote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ParentID  string    `json:"parentId"`
	Upvote    bool      `json:"upvote"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Media is a URL-validating content reference, owned by a user and
// referenced (not owned) by posts, portfolios, and applications.
type Media struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
