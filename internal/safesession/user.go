// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import "time"

// DefaultBio is stored for every new account until the user edits it.
const DefaultBio = "GENERIC DEFAULT BIO"

// # Profile

// Displayed holds the cosmetic equipped in each slot.
type Displayed struct {
	Front  int64 `json:"front"`
	Middle int64 `json:"middle"`
	Back   int64 `json:"back"`
}

// UserInfo is a user's public profile.
type UserInfo struct {
	ID                 string    `json:"id"`
	DisplayName        string    `json:"displayName"`
	Bio                string    `json:"bio"`
	Points             int       `json:"points"`
	LifetimePoints     int       `json:"lifetimePoints"`
	Streak             int       `json:"streak"`
	PredictionAccuracy float64   `json:"predictionAccuracy"`
	Role               string    `json:"role"`
	Displayed          Displayed `json:"displayed"`
	CreatedAt          time.Time `json:"createdAt"`
}

// AuthDetails is the stored credential for an email.
type AuthDetails struct {
	ID   string
	Hash string
}

// NewUser is the row inserted by [UnauthenticatedSession.CreateNewUser].
type NewUser struct {
	DisplayName  string
	Email        string
	PasswordHash string
	Bio          string
}

// # Cosmetics

// Slot is one of the three cosmetic layers of a profile.
type Slot string

const (
	SlotFront  Slot = "front"
	SlotMiddle Slot = "middle"
	SlotBack   Slot = "back"
)

// Slots lists every cosmetic slot in display order.
var Slots = []Slot{SlotFront, SlotMiddle, SlotBack}

// ParseSlot returns the slot named s.
func ParseSlot(s string) (Slot, bool) {
	for _, slot := range Slots {
		if string(slot) == s {
			return slot, true
		}
	}
	return "", false
}

// Cosmetic is a purchasable profile decoration.
type Cosmetic struct {
	ID        int64  `json:"id"`
	Slot      Slot   `json:"slot"`
	Cost      int    `json:"cost"`
	Src       string `json:"src"`
	Purchases int    `json:"purchases"`
}

// CosmeticSet groups cosmetics by slot.
type CosmeticSet struct {
	Front  []Cosmetic `json:"front"`
	Middle []Cosmetic `json:"middle"`
	Back   []Cosmetic `json:"back"`
}

// Add appends c to the list for its slot.
func (set *CosmeticSet) Add(c Cosmetic) {
	switch c.Slot {
	case SlotFront:
		set.Front = append(set.Front, c)
	case SlotMiddle:
		set.Middle = append(set.Middle, c)
	case SlotBack:
		set.Back = append(set.Back, c)
	}
}

// Cosmetics is the caller's store view.
type Cosmetics struct {
	Available CosmeticSet `json:"available"`
	Owned     CosmeticSet `json:"owned"`
}

// # Leaderboards

// Ranking is one leaderboard row.
type Ranking struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

// Leaderboards groups the three public rankings.
type Leaderboards struct {
	Streak         []Ranking `json:"streak"`
	LifetimePoints []Ranking `json:"lifetimePoints"`
	Collectors     []Ranking `json:"collectors"`
}
