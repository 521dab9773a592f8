package model

import "time"

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleAstronaut Role = "astronaut"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type BakingStatus string

const (
	StatusDough        BakingStatus = "dough"
	StatusInTheOven    BakingStatus = "in_the_oven"
	StatusReadyForSale BakingStatus = "ready_for_sale"
)

// BakingStatuses lists the valid statuses in display order.
var BakingStatuses = []BakingStatus{StatusDough, StatusInTheOven, StatusReadyForSale}

func (s BakingStatus) Valid() bool {
	switch s {
	case StatusDough, StatusInTheOven, StatusReadyForSale:
		return true
	}
	return false
}

// Label renders the wire value for humans ("in_the_oven" => "in the oven").
func (s BakingStatus) Label() string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			out = append(out, ' ')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

type Thumbnail struct {
	URL string `json:"url"`
}

type Photo struct {
	Thumbnail Thumbnail `json:"thumbnail"`
}

type Cookie struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Price        float64      `json:"price"`
	Inventory    int          `json:"inventory"`
	BakingStatus BakingStatus `json:"bakingStatus"`

	// Photo is absent until uploaded and server-processed.
	Photo *Photo `json:"photo,omitempty"`

	// Owner is expanded on list responses; OwnerID is what we send on writes.
	Owner   *User  `json:"owner,omitempty"`
	OwnerID string `json:"ownerId,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// OwnerRef returns the owner id whether or not the owner was expanded.
func (c Cookie) OwnerRef() string {
	if c.Owner != nil && c.Owner.ID != "" {
		return c.Owner.ID
	}
	return c.OwnerID
}
