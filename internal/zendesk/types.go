package zendesk

import "encoding/json"

// User is the subset of a user record the poller needs.
type User struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
}

// UserSearch is the response of the user search endpoint.
type UserSearch struct {
	Count int    `json:"count"`
	Users []User `json:"users"`
}

// GroupMembership links a user to one of their groups.
type GroupMembership struct {
	ID      json.Number `json:"id"`
	UserID  json.Number `json:"user_id"`
	GroupID json.Number `json:"group_id"`
}

type groupMembershipsResponse struct {
	GroupMemberships []GroupMembership `json:"group_memberships"`
}

// Ticket is the subset of a ticket record the poller needs.
type Ticket struct {
	ID      json.Number `json:"id"`
	Subject string      `json:"subject"`
	Status  string      `json:"status"`
}

// Key is the ticket identifier as stored in the seen set: the decimal id as text.
func (t Ticket) Key() string {
	return t.ID.String()
}

type ticketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}
