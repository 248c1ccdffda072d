package zendesk

// Endpoints are the URL templates the client fills from configuration values.
// Every configuration key is available as {{key}}; {{user_id}} is added once the user is resolved.
type Endpoints struct {
	Users   string
	Groups  string
	Tickets string
	// View is never fetched; it is the link opened from an alert.
	View string
}

// DefaultEndpoints returns the agent-oriented endpoints of the ticketing API.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Users:   "https://{{host}}/api/v2/users/search.json?query={{user}}",
		Groups:  "https://{{host}}/api/v2/users/{{user_id}}/group_memberships.json",
		Tickets: "https://{{host}}/api/v2/tickets/recent.json",
		View: "https://{{host}}/rules/search?filter=views" +
			"&search_name=Open+Tickets%2C+in+your+group%28s%29" +
			"&sets%5B1%5D%5Bconditions%5D%5B0%5D%5Boperator%5D=is" +
			"&sets%5B1%5D%5Bconditions%5D%5B0%5D%5Bsource%5D=group_id" +
			"&sets%5B1%5D%5Bconditions%5D%5B0%5D%5Bvalue%5D%5B0%5D=current_groups" +
			"&sets%5B1%5D%5Bconditions%5D%5B1%5D%5Boperator%5D=less_than" +
			"&sets%5B1%5D%5Bconditions%5D%5B1%5D%5Bsource%5D=status_id" +
			"&sets%5B1%5D%5Bconditions%5D%5B1%5D%5Bvalue%5D%5B0%5D=2" +
			"&sets%5B1%5D%5Bconditions%5D%5B2%5D%5Boperator%5D=is_not" +
			"&sets%5B1%5D%5Bconditions%5D%5B2%5D%5Bsource%5D=group_id" +
			"&sets%5B1%5D%5Bconditions%5D%5B2%5D%5Bvalue%5D%5B0%5D=",
	}
}
