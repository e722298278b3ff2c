package domain

import "time"

// User is the authenticated account profile returned by the API
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

// Equal reports whether two users carry the same profile. Nil users are
// equal only to each other.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return *u == *other
}

// DisplayName returns the best available label for the user
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Closet is a named, user-owned collection of items
type Closet struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OccasionIDs []int64   `json:"occasions,omitempty"`
	ItemCount   int       `json:"item_count,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// Item is a single clothing article
type Item struct {
	ID          int64   `json:"id"`
	ClosetID    int64   `json:"closet_id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	CategoryID  int64   `json:"category_id"`
	ColorIDs    []int64 `json:"colors,omitempty"`
	MaterialIDs []int64 `json:"materials,omitempty"`
	PatternIDs  []int64 `json:"patterns,omitempty"`
	ImageURL    string  `json:"image,omitempty"`
}

// Outfit is a curated composition of items with a composited preview image
type Outfit struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ItemIDs     []int64 `json:"items"`
	OccasionIDs []int64 `json:"occasions,omitempty"`
	ImageURL    string  `json:"image,omitempty"`
}

// RecommendationRequest describes what the recommendation service should
// assemble an outfit for
type RecommendationRequest struct {
	ClosetID   int64  `json:"closet_id"`
	OccasionID int64  `json:"occasion_id"`
	Weather    string `json:"weather,omitempty"`
	Prompt     string `json:"prompt,omitempty"`
}

// Recommendation is an outfit suggestion from the remote service
type Recommendation struct {
	ID          int64   `json:"id"`
	ItemIDs     []int64 `json:"items"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image,omitempty"`
}
