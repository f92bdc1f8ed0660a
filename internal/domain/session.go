package domain

// Session is the state a session container exposes to the coordinator.
type Session struct {
	// UserID is empty for anonymous sessions or when nobody is signed in.
	UserID string `json:"userId,omitempty"`

	// Token authorizes remote calls. Without one the session cannot sync.
	Token string `json:"-"`

	// IsPostingActions is true while a post batch is believed in progress.
	IsPostingActions bool `json:"isPostingActions"`

	// IsFetching is true between a fetch request and its outcome.
	IsFetching bool `json:"isFetching"`

	// User is the last authoritative user state accepted by the session.
	User *User `json:"user,omitempty"`
}

// CanSync reports whether the session holds credentials for remote calls.
func (s Session) CanSync() bool {
	return s.Token != ""
}
