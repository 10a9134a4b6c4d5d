package query

// Kind identifies the statement a builder produces.
type Kind int

const (
	KindCreate Kind = iota
	KindSelect
	KindUpdate
	KindUpsert
	KindDelete
	KindRelate
	KindInsert
)

var kindKeywords = [...]string{
	KindCreate: "CREATE",
	KindSelect: "SELECT",
	KindUpdate: "UPDATE",
	KindUpsert: "UPSERT",
	KindDelete: "DELETE",
	KindRelate: "RELATE",
	KindInsert: "INSERT",
}

// String returns the statement keyword.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindKeywords) {
		return "UNKNOWN"
	}
	return kindKeywords[k]
}
