package item_test

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
	"github.com/your-org/storefront-backend/internal/domain/item"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/testutil"
)

type itemServiceSuite struct {
	suite.Suite

	db         *postgres.DB
	rdb        *goredis.Client
	containers []testcontainers.Container

	wishes *wishlist.Service
	items  *item.Service
}

// entry point to run the tests in the suite
func TestItemServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration suite")
	}
	suite.Run(t, new(itemServiceSuite))
}

// before all tests in the suite
func (suite *itemServiceSuite) SetupSuite() {
	ctx := suite.T().Context()
	cfg := testutil.Config()
	logger := testutil.Logger()

	db, pg, err := testutil.StartPostgres(ctx, cfg, logger)
	suite.containers = append(suite.containers, pg)
	suite.Require().NoError(err)
	suite.db = db

	rdb, rc, err := testutil.StartRedis(ctx)
	suite.containers = append(suite.containers, rc)
	suite.Require().NoError(err)
	suite.rdb = rdb

	suite.wishes = wishlist.NewService(db.GetDB(), logger)
	suite.items = item.NewService(db.GetDB(), suite.wishes, checkout.NewService(rdb, cfg, logger), cfg, logger)
}

// after all tests in the suite
func (suite *itemServiceSuite) TearDownSuite() {
	if suite.rdb != nil {
		_ = suite.rdb.Close()
	}
	if suite.db != nil {
		_ = suite.db.Close()
	}
	testutil.Terminate(suite.T().Context(), suite.containers...)
}

func (suite *itemServiceSuite) deleteAll() {
	suite.NoError(testutil.Truncate(suite.db.GetDB(), "wish_items", "item_options", "item_tags", "items"))
	suite.NoError(suite.rdb.FlushDB(suite.T().Context()).Err())
}

func (suite *itemServiceSuite) create(req *item.CreateItemRequest) *item.Item {
	it, err := suite.items.Create(suite.T().Context(), req)
	suite.Require().NoError(err)
	return it
}

func (suite *itemServiceSuite) TestDetailAndWishes() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	email := gofakeit.Email()

	it := suite.create(&item.CreateItemRequest{
		Name:     "Linen Shirt",
		Category: "tops",
		Price:    39000,
		Options:  []item.CreateOptionRequest{{Option: "S", Count: 3}, {Option: "M", Count: 0}},
		Tags:     []string{"summer"},
	})

	detail, err := suite.items.GetDetail(ctx, it.IID, email)
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt", detail.Item.Name)
	assert.Len(t, detail.Options, 2)
	assert.Len(t, detail.Tags, 1)
	assert.Equal(t, int64(39000), detail.UnitPrice)
	assert.False(t, detail.OnSale)
	assert.Equal(t, 0, detail.Wish)

	res, err := suite.wishes.Toggle(ctx, it.IID, email)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Value)
	assert.Equal(t, int64(1), res.Count)

	_, err = suite.wishes.Toggle(ctx, it.IID, gofakeit.Email())
	require.NoError(t, err)

	detail, err = suite.items.GetDetail(ctx, it.IID, email)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Wish)
	assert.Equal(t, int64(2), detail.WishCount)

	ids, err := suite.wishes.List(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, []uint{it.IID}, ids)

	res, err = suite.wishes.Toggle(ctx, it.IID, email)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Value)
	assert.Equal(t, int64(1), res.Count)

	// anonymous callers get no wish flag
	detail, err = suite.items.GetDetail(ctx, it.IID, "")
	require.NoError(t, err)
	assert.Equal(t, 0, detail.Wish)
}

func (suite *itemServiceSuite) TestSaleAndCache() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	it := suite.create(&item.CreateItemRequest{Name: "Mug", Category: "kitchen", Price: 12000})
	_, err := suite.items.Get(ctx, it.IID)
	require.NoError(t, err)

	_, err = suite.items.SetSale(ctx, it.IID, &item.SaleRequest{SalePrice: 9000, SaleDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	detail, err := suite.items.GetDetail(ctx, it.IID, "")
	require.NoError(t, err)
	assert.True(t, detail.OnSale)
	assert.Equal(t, int64(9000), detail.UnitPrice)

	name := "Big Mug"
	_, err = suite.items.Update(ctx, it.IID, &item.UpdateItemRequest{Name: &name})
	require.NoError(t, err)

	got, err := suite.items.Get(ctx, it.IID)
	require.NoError(t, err)
	assert.Equal(t, "Big Mug", got.Name)

	require.NoError(t, suite.items.Delete(ctx, it.IID))
	_, err = suite.items.Get(ctx, it.IID)
	require.ErrorIs(t, err, item.ErrItemNotFound)
}

func (suite *itemServiceSuite) TestSearch() {
	defer suite.deleteAll()

	shirt := suite.create(&item.CreateItemRequest{Name: "Linen Shirt", Category: "tops", Price: 1000, Tags: []string{"summer"}})
	mug := suite.create(&item.CreateItemRequest{Name: "Mug", Category: "kitchen", Price: 1000,
		Options: []item.CreateOptionRequest{{Option: "Ceramic White", Count: 1}}})
	tee := suite.create(&item.CreateItemRequest{Name: "100% Cotton Tee", Category: "tops", Price: 1000})

	tests := []struct {
		name  string
		query string
		want  []uint
	}{
		{name: "by name: ok", query: "linen", want: []uint{shirt.IID}},
		{name: "by tag: ok", query: "SUMMER", want: []uint{shirt.IID}},
		{name: "by option: ok", query: "ceramic", want: []uint{mug.IID}},
		{name: "percent is literal: ok", query: "0%", want: []uint{tee.IID}},
		{name: "no match: empty", query: "zzz", want: []uint{}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			items, err := suite.items.Search(t.Context(), tt.query)
			require.NoError(t, err)

			got := make([]uint, 0, len(items))
			for _, it := range items {
				got = append(got, it.IID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func (suite *itemServiceSuite) TestQuoteAndHandoff() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	email := gofakeit.Email()

	it := suite.create(&item.CreateItemRequest{
		Name:     "Socks",
		Category: "acc",
		Price:    3000,
		Options:  []item.CreateOptionRequest{{Option: "Black", Count: 2}, {Option: "Grey", Count: 10}},
	})
	black, grey := it.Options[0].IOID, it.Options[1].IOID

	quote, err := suite.items.Quote(ctx, it.IID, []item.PickRequest{{IOID: black, Count: 5}, {IOID: grey, Count: 3}})
	require.NoError(t, err)
	// black clamps to its stock of 2
	assert.Equal(t, int64(15000), quote.TotalPrice)
	assert.Equal(t, "15,000원", quote.TotalLabel)

	_, err = suite.items.Quote(ctx, it.IID, []item.PickRequest{{IOID: black}, {IOID: black}})
	require.ErrorIs(t, err, item.ErrOptionAlreadyPicked)

	h, err := suite.items.Handoff(ctx, email, it.IID, []item.PickRequest{{IOID: grey, Count: 4}})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), h.TotalPrice)
	require.Len(t, h.Lines, 1)
	assert.Equal(t, "Grey", h.Lines[0].Option)
	assert.Zero(t, h.Lines[0].CartID)
}
