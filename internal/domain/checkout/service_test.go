package checkout_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"

	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/testutil"
)

type handoffSuite struct {
	suite.Suite

	rdb       *goredis.Client
	container testcontainers.Container
	handoffs  *checkout.Service
}

// entry point to run the tests in the suite
func TestHandoffSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration suite")
	}
	suite.Run(t, new(handoffSuite))
}

// before all tests in the suite
func (suite *handoffSuite) SetupSuite() {
	rdb, container, err := testutil.StartRedis(suite.T().Context())
	suite.container = container
	suite.Require().NoError(err)
	suite.rdb = rdb

	suite.handoffs = checkout.NewService(rdb, testutil.Config(), testutil.Logger())
}

// after all tests in the suite
func (suite *handoffSuite) TearDownSuite() {
	if suite.rdb != nil {
		_ = suite.rdb.Close()
	}
	testutil.Terminate(suite.T().Context(), suite.container)
}

func lines() []ledger.OrderLine {
	return []ledger.OrderLine{
		{CartID: 4, ItemID: 1, OptionID: 10, Name: "A", Count: 2, Price: 1000, TotalPrice: 2000},
		{CartID: 5, ItemID: 2, OptionID: 20, Name: "B", Count: 3, Price: 500, TotalPrice: 1500},
	}
}

func (suite *handoffSuite) TestSave() {
	tests := []struct {
		name      string
		lines     []ledger.OrderLine
		wantTotal int64
		wantError error
	}{
		{name: "two lines: ok", lines: lines(), wantTotal: 3500},
		{name: "no lines: error", lines: nil, wantError: checkout.ErrEmptyHandoff},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			email := gofakeit.Email()

			h, err := suite.handoffs.Save(t.Context(), email, checkout.SourceCart, tt.lines)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, h.TotalPrice)
			assert.Equal(t, []uint{4, 5}, h.CartIDs())

			ttl, err := suite.rdb.TTL(t.Context(), "order:handoff:"+h.Token).Result()
			require.NoError(t, err)
			assert.Greater(t, ttl, time.Duration(0))
			assert.LessOrEqual(t, ttl, time.Minute)
		})
	}
}

func (suite *handoffSuite) TestConsume() {
	t := suite.T()
	ctx := t.Context()
	email := gofakeit.Email()

	h, err := suite.handoffs.Save(ctx, email, checkout.SourceItem, lines())
	require.NoError(t, err)

	_, err = suite.handoffs.Consume(ctx, h.Token, gofakeit.Email())
	require.ErrorIs(t, err, checkout.ErrNotOwner)

	got, err := suite.handoffs.Consume(ctx, h.Token, email)
	require.NoError(t, err)
	assert.Equal(t, h.Lines, got.Lines)
	assert.Equal(t, checkout.SourceItem, got.Source)

	_, err = suite.handoffs.Consume(ctx, h.Token, email)
	require.ErrorIs(t, err, checkout.ErrHandoffNotFound)

	require.NoError(t, suite.handoffs.Restore(ctx, got))
	_, err = suite.handoffs.Get(ctx, h.Token, email)
	require.NoError(t, err)
}

func (suite *handoffSuite) TestRestore_Expired() {
	t := suite.T()
	ctx := t.Context()

	h := &checkout.Handoff{
		Token:     gofakeit.UUID(),
		Email:     gofakeit.Email(),
		Lines:     lines(),
		ExpiresAt: time.Now().Add(-time.Second),
	}
	require.NoError(t, suite.handoffs.Restore(ctx, h))

	_, err := suite.handoffs.Get(ctx, h.Token, h.Email)
	require.ErrorIs(t, err, checkout.ErrHandoffNotFound)
}
