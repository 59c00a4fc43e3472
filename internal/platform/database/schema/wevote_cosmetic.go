package schema

// CosmeticTable represents the 'wevote.cosmetic' table
type CosmeticTable struct {
	Table string
	ID    string
	Slot  string
	Cost  string
	Src   string
}

// Cosmetic is the schema definition for wevote.cosmetic
var Cosmetic = CosmeticTable{
	Table: "wevote.cosmetic",
	ID:    "id",
	Slot:  "slot",
	Cost:  "cost",
	Src:   "src",
}

// Columns returns all standard column names
func (t CosmeticTable) Columns() []string {
	return []string{
		t.ID, t.Slot, t.Cost, t.Src,
	}
}
