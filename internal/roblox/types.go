package roblox

// User is the id/name pair returned by the users and usernames endpoints.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// UserInfo is the full public profile returned by GET /v1/users/{id}.
// Description is the free-text "about" field the verification code is
// looked up in.
type UserInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// GroupRole is one group membership entry: the group and the caller's
// role within it.
type GroupRole struct {
	Group struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"group"`
	Role struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Rank int    `json:"rank"`
	} `json:"role"`
}

// Presence type values from the presence endpoint.
const (
	PresenceOffline  = 0
	PresenceOnline   = 1
	PresenceInGame   = 2
	PresenceInStudio = 3
)

// Presence is one user's live presence. PlaceID is nil when the user is
// not in a game or has joins hidden.
type Presence struct {
	UserID           int64  `json:"userId"`
	UserPresenceType int    `json:"userPresenceType"`
	PlaceID          *int64 `json:"placeId"`
	RootPlaceID      *int64 `json:"rootPlaceId"`
	LastLocation     string `json:"lastLocation"`
}

type usersByIDsRequest struct {
	UserIDs            []int64 `json:"userIds"`
	ExcludeBannedUsers bool    `json:"excludeBannedUsers"`
}

type usersByNameRequest struct {
	Usernames          []string `json:"usernames"`
	ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
}

type presenceRequest struct {
	UserIDs []int64 `json:"userIds"`
}

type dataEnvelope[T any] struct {
	Data *[]T `json:"data"`
}

type presenceEnvelope struct {
	UserPresences *[]Presence `json:"userPresences"`
}

type avatarEntry struct {
	TargetID int64  `json:"targetId"`
	State    string `json:"state"`
	ImageURL string `json:"imageUrl"`
}
