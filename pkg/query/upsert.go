package query

// UpsertQuery builds
// `UPSERT [ONLY] table CONTENT|MERGE {...} [WHERE ...] [TIMEOUT] [PARALLEL]`,
// creating the record when it does not exist. Content is required.
type UpsertQuery struct {
	c clauses

	withOnly[UpsertQuery]
	withContent[UpsertQuery]
	withMerge[UpsertQuery]
	withFilter[UpsertQuery]
	withTimeout[UpsertQuery]
	withParallel[UpsertQuery]
}

func Upsert(table string) *UpsertQuery {
	q := &UpsertQuery{c: clauses{table: table}}
	b := binding[UpsertQuery]{self: q, c: &q.c}
	q.withOnly = withOnly[UpsertQuery]{b}
	q.withContent = withContent[UpsertQuery]{b}
	q.withMerge = withMerge[UpsertQuery]{b}
	q.withFilter = withFilter[UpsertQuery]{b}
	q.withTimeout = withTimeout[UpsertQuery]{b}
	q.withParallel = withParallel[UpsertQuery]{b}
	return q
}

// Clone returns an independent copy of the builder. Builders must not be
// copied by value: the copy would keep updating the original.
func (q *UpsertQuery) Clone() *UpsertQuery {
	out := Upsert(q.c.table)
	out.c = q.c.clone()
	return out
}

func (q *UpsertQuery) Kind() Kind {
	return KindUpsert
}

func (q *UpsertQuery) Build() (string, error) {
	return buildModify(KindUpsert, &q.c)
}

func (q *UpsertQuery) String() string {
	return mustString(q)
}
