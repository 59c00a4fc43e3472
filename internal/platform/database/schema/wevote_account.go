package schema

// AccountTable represents the 'wevote.account' table
//
// Registered users with their credentials, statistics and equipped cosmetics.
type AccountTable struct {
	Table              string
	ID                 string
	DisplayName        string
	Email              string
	Password           string
	Bio                string
	Points             string
	LifetimePoints     string
	Streak             string
	PredictionAccuracy string
	Role               string
	DisplayedFront     string
	DisplayedMiddle    string
	DisplayedBack      string
	CreatedAt          string
}

// Account is the schema definition for wevote.account
var Account = AccountTable{
	Table:              "wevote.account",
	ID:                 "id",
	DisplayName:        "displayname",
	Email:              "email",
	Password:           "passwordhash",
	Bio:                "bio",
	Points:             "points",
	LifetimePoints:     "lifetimepoints",
	Streak:             "streak",
	PredictionAccuracy: "predictionaccuracy",
	Role:               "role",
	DisplayedFront:     "displayedfront",
	DisplayedMiddle:    "displayedmiddle",
	DisplayedBack:      "displayedback",
	CreatedAt:          "createdat",
}

// Columns returns all standard column names
func (t AccountTable) Columns() []string {
	return []string{
		t.ID, t.DisplayName, t.Email, t.Password, t.Bio, t.Points, t.LifetimePoints,
		t.Streak, t.PredictionAccuracy, t.Role, t.DisplayedFront, t.DisplayedMiddle,
		t.DisplayedBack, t.CreatedAt,
	}
}
