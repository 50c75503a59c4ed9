package dto

// GoogleLoginResponse carries the consent URL the client redirects the user
// to, plus the state value echoed back on the callback.
type GoogleLoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// GoogleUserInfo is the subset of the Google userinfo payload needed to
// provision a local account.
type GoogleUserInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Verified bool   `json:"verified_email"`
}
