package schema

// OwnedCosmeticTable represents the 'wevote.ownedcosmetic' table
type OwnedCosmeticTable struct {
	Table       string
	UserID      string
	CosmeticID  string
	PurchasedAt string
}

// OwnedCosmetic is the schema definition for wevote.ownedcosmetic
var OwnedCosmetic = OwnedCosmeticTable{
	Table:       "wevote.ownedcosmetic",
	UserID:      "userid",
	CosmeticID:  "cosmeticid",
	PurchasedAt: "purchasedat",
}

// Columns returns all standard column names
func (t OwnedCosmeticTable) Columns() []string {
	return []string{
		t.UserID, t.CosmeticID, t.PurchasedAt,
	}
}
