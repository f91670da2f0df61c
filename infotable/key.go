package infotable

// Key identifies a variant across cohorts. Two cohorts describe the same
// variant only when all four fields match exactly.
type Key struct {
	SNP       string
	Ref       string // Can contain > 1 character
	Alt       string // Can contain > 1 character
	Genotyped string // E.g., "Genotyped" or "Imputed"
}

// Less orders keys field by field, which is the order an outer join on the
// key produces.
func (k Key) Less(other Key) bool {
	if k.SNP != other.SNP {
		return k.SNP < other.SNP
	}
	if k.Ref != other.Ref {
		return k.Ref < other.Ref
	}
	if k.Alt != other.Alt {
		return k.Alt < other.Alt
	}
	return k.Genotyped < other.Genotyped
}

func (k Key) String() string {
	return k.SNP + " " + k.Ref + ">" + k.Alt + " (" + k.Genotyped + ")"
}
