package abstractions

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tosic/surrealdb-abstractions/pkg/config"
	"github.com/tosic/surrealdb-abstractions/pkg/query"
)

const integrationTable = "abstractions_it"

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// IntegrationTestSuite runs against the server named by SURREALDB_URL.
type IntegrationTestSuite struct {
	suite.Suite
	db *DB
}

func TestIntegrationTestSuite(t *testing.T) {
	if os.Getenv("SURREALDB_URL") == "" {
		t.Skip("SURREALDB_URL is not set")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	cfg, err := config.Load("")
	s.Require().NoError(err)
	if !cfg.HasCredentials() {
		cfg.Username, cfg.Password = "root", "root"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.db, err = Open(ctx, cfg)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close(context.Background())
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	_, err := Run[any](context.Background(), s.db, query.Delete(integrationTable), 0)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) Test_CreateUpsertSelect() {
	ctx := context.Background()

	created, err := Run[[]item](ctx, s.db, query.Create(integrationTable).
		ContentField("name", "first").
		ContentField("count", 1), 0)
	s.Require().NoError(err)
	s.Require().Len(created, 1)
	s.Equal("first", created[0].Name)

	_, err = Run[[]item](ctx, s.db, query.Upsert(integrationTable).
		Where(query.NewFilter().AddCondition("name", "=", "first")).
		Merge().
		ContentField("count", 2), 0)
	s.Require().NoError(err)

	found, err := Run[[]item](ctx, s.db, query.Select(integrationTable).
		Where(query.NewFilter().AddCondition("count", ">", 1)), 0)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(2, found[0].Count)
}

func (s *IntegrationTestSuite) Test_Errors() {
	ctx := context.Background()

	_, err := RunQuery[any](ctx, s.db, `THROW "integration"`, 0)
	s.ErrorIs(err, ErrTransaction)

	_, err = Run[item](ctx, s.db, query.Select(integrationTable), 0)
	s.ErrorIs(err, ErrResponse)
}
