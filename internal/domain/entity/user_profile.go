package entity

// UserProfile is the aggregate root for the user directory and social graph.
// The ID is the opaque user id issued by the external identity provider.
// Username is derived from the email local-part at creation time and is
// immutable afterwards.
//
// Followers and Followings are redundant id sets: A appears in B.Followers
// iff B appears in A.Followings. Both sides are updated in one transaction.
type UserProfile struct {
	ID               string   `bson:"_id" json:"id"`
	Username         string   `bson:"username" json:"username"`
	Email            string   `bson:"email" json:"email"`
	Followers        []string `bson:"followers" json:"followers"`
	Followings       []string `bson:"followings" json:"followings"`
	ProfileImagePath string   `bson:"profile_image_path,omitempty" json:"profile_image_path,omitempty"`
}

// IsFollowing reports whether targetID is in the profile's followings set.
func (u *UserProfile) IsFollowing(targetID string) bool {
	for _, id := range u.Followings {
		if id == targetID {
			return true
		}
	}
	return false
}
