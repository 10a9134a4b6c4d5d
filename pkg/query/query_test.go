package query

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tosic/surrealdb-abstractions/pkg/models"
)

func TestBuild(t *testing.T) {
	tobie := models.NewRecordID("user", "tobie")
	article := models.NewRecordID("article", "surreal")

	tests := []struct {
		name  string
		query Query
		want  string
	}{
		// SELECT
		{
			name:  "select all",
			query: Select("user"),
			want:  "SELECT * FROM user",
		},
		{
			name: "select with alias filter and limit",
			query: Select("user").
				Where(NewFilter().
					AddCondition("username", "=", "admin").
					AddCondition("age", ">", 18)).
				Limit(1).
				Field("*").
				FieldAs("name", "username"),
			want: "SELECT *, name AS username FROM user WHERE age > 18 AND username = 'admin' LIMIT 1",
		},
		{
			name:  "select fields from map",
			query: Select("user").Fields(map[string]string{"name": "username", "*": ""}),
			want:  "SELECT *, name AS username FROM user",
		},
		{
			name:  "select with empty filter has no where",
			query: Select("user").Where(NewFilter()),
			want:  "SELECT * FROM user",
		},
		{
			name:  "select omit",
			query: Select("user").Omit("password", "email"),
			want:  "SELECT * OMIT password, email FROM user",
		},
		{
			name:  "select omit field by field",
			query: Select("user").OmitField("password").OmitField("email"),
			want:  "SELECT * OMIT password, email FROM user",
		},
		{
			name:  "select only",
			query: Select("user:tobie").Only(),
			want:  "SELECT * FROM ONLY user:tobie",
		},
		{
			name:  "select group by",
			query: Select("person").Field("country").Field("count()").GroupBy("country"),
			want:  "SELECT count(), country FROM person GROUP BY country",
		},
		{
			name:  "select group all wins over group by",
			query: Select("person").Field("count()").GroupBy("country").GroupAll(),
			want:  "SELECT count() FROM person GROUP ALL",
		},
		{
			name: "select pagination fetch and parallel",
			query: Select("post").
				OrderBy("created_at DESC").
				Limit(10).
				Start(20).
				Fetch("author").
				FetchField("comments").
				Parallel(),
			want: "SELECT * FROM post ORDER BY created_at DESC LIMIT 10 START 20 FETCH author, comments PARALLEL",
		},
		{
			name: "select clause order",
			query: Select("user").
				Parallel().
				Start(0).
				Limit(1).
				OrderBy("name").
				GroupAll().
				AddCondition("age", ">=", 18).
				Only().
				Omit("x").
				Field("name"),
			want: "SELECT name OMIT x FROM ONLY user WHERE age >= 18 GROUP ALL ORDER BY name LIMIT 1 START 0 PARALLEL",
		},

		// CREATE
		{
			name:  "create bare",
			query: Create("person"),
			want:  "CREATE person",
		},
		{
			name: "create content",
			query: Create("test_data").
				ContentField("name", "John Doe").
				ContentField("age", 18),
			want: "CREATE test_data CONTENT { age: 18,  name: 'John Doe'}",
		},
		{
			name: "create content from map",
			query: Create("test_data").Content(map[string]any{
				"type": "friendship",
				"name": "John Doe",
				"age":  18,
			}),
			want: "CREATE test_data CONTENT { age: 18,  name: 'John Doe',  type: 'friendship'}",
		},
		{
			name: "create only with timeout and parallel",
			query: Create("person").
				Only().
				ContentField("name", "Tobie").
				Timeout(5, "s").
				Parallel(),
			want: "CREATE ONLY person CONTENT { name: 'Tobie'} TIMEOUT 5s PARALLEL",
		},
		{
			name:  "create timeout from duration",
			query: Create("person").TimeoutDuration(1500 * time.Millisecond),
			want:  "CREATE person TIMEOUT 1s500ms",
		},

		// UPDATE
		{
			name: "update content with filter",
			query: Update("user").
				AddCondition("name", "=", "Tobie").
				ContentField("active", true),
			want: "UPDATE user CONTENT { active: true} WHERE name = 'Tobie'",
		},
		{
			name: "update merge",
			query: Update("user:tobie").
				Only().
				Merge().
				ContentField("age", 30).
				Timeout(2, "s").
				Parallel(),
			want: "UPDATE ONLY user:tobie MERGE { age: 30} TIMEOUT 2s PARALLEL",
		},
		{
			name:  "update with empty content",
			query: Update("user").Content(map[string]any{}),
			want:  "UPDATE user CONTENT {}",
		},

		// UPSERT
		{
			name: "upsert content",
			query: Upsert("user:tobie").
				ContentField("name", "Tobie").
				ContentField("email", "tobie@surrealdb.com"),
			want: "UPSERT user:tobie CONTENT { email: 'tobie@surrealdb.com',  name: 'Tobie'}",
		},
		{
			name: "upsert merge with filter",
			query: Upsert("counter").
				Merge().
				ContentField("hits", 1).
				Where(NewFilter().AddCondition("page", "", "/")).
				Timeout(100, "ms"),
			want: "UPSERT counter MERGE { hits: 1} WHERE page = '/' TIMEOUT 100ms",
		},

		// DELETE
		{
			name:  "delete table",
			query: Delete("user"),
			want:  "DELETE user",
		},
		{
			name:  "delete with filter and parallel",
			query: Delete("user").AddCondition("age", "<", 18).Parallel(),
			want:  "DELETE user WHERE age < 18 PARALLEL",
		},
		{
			name:  "delete only returns before",
			query: Delete("user:tobie").Only(),
			want:  "DELETE ONLY user:tobie RETURN $before",
		},

		// RELATE
		{
			name: "relate with content",
			query: Relate("wrote").
				Relation(tobie, article).
				ContentField("year", 2024),
			want: "RELATE user:tobie->wrote->article:surreal CONTENT { year: 2024}",
		},
		{
			name: "relate only with timeout and parallel",
			query: Relate("likes").
				Only().
				Relation(tobie, article).
				Timeout(1, "m").
				Parallel(),
			want: "RELATE ONLY user:tobie->likes->article:surreal TIMEOUT 1m PARALLEL",
		},

		// Raw
		{
			name:  "raw",
			query: Raw("INFO FOR DB"),
			want:  "INFO FOR DB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := tt.query.Build()
			require.NoError(t, err)
			assert.Equal(t, got, again, "rendering must be idempotent")
		})
	}
}

func TestBuild_errors(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr error
	}{
		{
			name:    "update without content",
			query:   Update("user").AddCondition("age", ">", 18),
			wantErr: ErrMissingContent,
		},
		{
			name:    "merge without content",
			query:   Update("user").Merge(),
			wantErr: ErrMissingContent,
		},
		{
			name:    "upsert without content",
			query:   Upsert("user"),
			wantErr: ErrMissingContent,
		},
		{
			name:    "relate without endpoints",
			query:   Relate("wrote").ContentField("year", 2024),
			wantErr: ErrMissingRelation,
		},
		{
			name:    "insert",
			query:   Insert("user"),
			wantErr: ErrUnsupportedStatement,
		},
		{
			name:    "unknown timeout unit",
			query:   Create("person").Timeout(5, "sec"),
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative timeout duration",
			query:   Create("person").TimeoutDuration(-time.Second),
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "minimum timeout duration",
			query:   Update("person").ContentField("a", 1).TimeoutDuration(time.Duration(math.MinInt64)),
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "unrenderable content",
			query:   Create("person").ContentField("ch", make(chan int)),
			wantErr: models.ErrUnsupportedValue,
		},
		{
			name:    "unrenderable filter",
			query:   Delete("person").AddCondition("ch", "=", make(chan int)),
			wantErr: models.ErrUnsupportedValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Build()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, got)
		})
	}
}

func TestBuild_errorMessages(t *testing.T) {
	_, err := Update("user").Build()
	assert.EqualError(t, err, "update user: missing required content")

	_, err = Relate("wrote").Build()
	assert.EqualError(t, err, "relate wrote: missing relation endpoints")

	_, err = Insert("user").Build()
	assert.EqualError(t, err, "insert into user: unsupported statement kind")

	_, err = Upsert("user").Build()
	assert.EqualError(t, err, "upsert user: missing required content")

	_, err = Create("person").TimeoutDuration(-time.Second).Build()
	assert.EqualError(t, err, "create person: invalid timeout: negative duration")

	assert.Equal(t, "", Upsert("user").String())
}

func TestContentIsCopied(t *testing.T) {
	fields := map[string]any{"name": "Tobie"}
	q := Create("person").Content(fields)
	fields["name"] = "Jaime"

	assert.Equal(t, "CREATE person CONTENT { name: 'Tobie'}", q.String())
}

// Setters a statement kind does not accept must not exist on its builder.
func TestSetterRestriction(t *testing.T) {
	_, ok := any(Delete("user")).(interface {
		ContentField(string, any) *DeleteQuery
	})
	assert.False(t, ok, "DELETE has no content")

	_, ok = any(Select("user")).(interface {
		Timeout(uint64, string) *SelectQuery
	})
	assert.False(t, ok, "SELECT has no timeout")

	_, ok = any(Create("user")).(interface{ Where(Filter) *CreateQuery })
	assert.False(t, ok, "CREATE has no filter")

	_, ok = any(Create("user")).(interface{ Merge() *CreateQuery })
	assert.False(t, ok, "CREATE has no merge")

	_, ok = any(Update("user")).(interface {
		Relation(models.RecordID, models.RecordID) *UpdateQuery
	})
	assert.False(t, ok, "UPDATE has no relation")

	_, ok = any(Update("user")).(interface{ Merge() *UpdateQuery })
	assert.True(t, ok, "UPDATE has merge")

	_, ok = any(Relate("wrote")).(interface {
		Relation(models.RecordID, models.RecordID) *RelateQuery
	})
	assert.True(t, ok, "RELATE has relation")
}

func TestKind(t *testing.T) {
	tests := []struct {
		stmt Statement
		want string
	}{
		{Create("a"), "CREATE"},
		{Select("a"), "SELECT"},
		{Update("a"), "UPDATE"},
		{Upsert("a"), "UPSERT"},
		{Delete("a"), "DELETE"},
		{Relate("a"), "RELATE"},
		{Insert("a"), "INSERT"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stmt.Kind().String())
		})
	}

	assert.Equal(t, "UNKNOWN", Kind(42).String())
}

func TestSetLogger(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, logger.Load().GetLevel())
	t.Cleanup(func() {
		SetLogger(zerolog.Nop())
	})

	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	_, err := Select("user").Build()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"statement":"SELECT * FROM user"`)
	assert.Contains(t, buf.String(), `"message":"constructed query"`)
}

func TestClone(t *testing.T) {
	base := Select("user").
		Field("name").
		Where(NewFilter().AddCondition("age", ">", 18)).
		OrderBy("name").
		Limit(10)

	clone := base.Clone().Only().Field("email").OrderBy("age DESC").Limit(1)

	assert.Equal(t, "SELECT name FROM user WHERE age > 18 ORDER BY name LIMIT 10", base.String())
	assert.Equal(t, "SELECT email, name FROM ONLY user WHERE age > 18 ORDER BY name, age DESC LIMIT 1", clone.String())

	update := Update("user:tobie").ContentField("name", "Tobie")
	merged := update.Clone().Merge().ContentField("active", true).TimeoutDuration(time.Second)

	assert.Equal(t, "UPDATE user:tobie CONTENT { name: 'Tobie'}", update.String())
	assert.Equal(t, "UPDATE user:tobie MERGE { active: true,  name: 'Tobie'} TIMEOUT 1s", merged.String())

	tobie := models.NewRecordID("user", "tobie")
	relate := Relate("wrote").Relation(tobie, models.NewRecordID("article", 1))
	other := relate.Clone().Relation(tobie, models.NewRecordID("article", 2))
	assert.Equal(t, "RELATE user:tobie->wrote->article:1", relate.String())
	assert.Equal(t, "RELATE user:tobie->wrote->article:2", other.String())
}
