package quoting

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalajet/backend/internal/domain/catalog"
	"github.com/lalajet/backend/internal/domain/quote"
	"github.com/lalajet/backend/internal/domain/shared"
	"github.com/lalajet/backend/internal/store"
)

func newQuoteFixture(t *testing.T) (*QuoteService, *CatalogService, *store.Store) {
	t.Helper()
	st := store.New()
	return NewQuoteService(st), NewCatalogService(st, nil), st
}

func seedItem(t *testing.T, st *store.Store, title string, price int64) *catalog.Item {
	t.Helper()
	it, err := catalog.New(catalog.KindService)
	require.NoError(t, err)
	it.Title[shared.LocaleEN] = title
	it.Price = decimal.NewFromInt(price)
	saved, err := st.PutItem(it)
	require.NoError(t, err)
	return saved
}

func TestQuoteService_ActiveLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuoteFixture(t)

	draft := svc.NewActive(ctx)
	assert.Equal(t, quote.StatusDraft, draft.Status)

	draft.ClientName = "Jean Dupont"
	_, err := svc.ReplaceActive(ctx, draft.Quote)
	require.NoError(t, err)

	saved, err := svc.SaveActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, draft.Key, saved.Key)

	listed := svc.List(ctx)
	require.Len(t, listed, 1)
	assert.Equal(t, saved.Key, listed[0].Key)
}

func TestQuoteService_ReplaceActiveValidates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuoteFixture(t)

	q := quote.NewEmpty()
	q.Currency = "GBP"
	_, err := svc.ReplaceActive(ctx, q)
	assert.Error(t, err)
}

func TestQuoteService_ImportItem(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newQuoteFixture(t)
	item := seedItem(t, st, "Catering", 150)

	svc.NewActive(ctx)
	resp, err := svc.ImportItem(ctx, ImportItemRequest{ItemKey: item.Key, Optional: true})
	require.NoError(t, err)

	require.Len(t, resp.LineItems, 1)
	assert.True(t, resp.LineItems[0].Optional)
	assert.True(t, resp.Totals.Subtotal.Equal(decimal.NewFromInt(150)))

	_, err = svc.ImportItem(ctx, ImportItemRequest{ItemKey: "ci-missing"})
	assert.Error(t, err)
}

func TestQuoteService_TotalsAreDerived(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newQuoteFixture(t)
	item := seedItem(t, st, "Flight", 1000)

	q := svc.NewActive(ctx)
	q.ClientName = "Jean Dupont"
	q.TaxRate = decimal.NewFromInt(10)
	_, err := svc.ReplaceActive(ctx, q.Quote)
	require.NoError(t, err)
	_, err = svc.ImportItem(ctx, ImportItemRequest{ItemKey: item.Key})
	require.NoError(t, err)

	saved, err := svc.SaveActive(ctx)
	require.NoError(t, err)
	assert.True(t, saved.Totals.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, saved.Totals.Tax.Equal(decimal.NewFromInt(100)))
	assert.True(t, saved.Totals.Total.Equal(decimal.NewFromInt(1100)))
}

func TestQuoteService_OpenAcceptArchive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuoteFixture(t)

	q := svc.NewActive(ctx)
	q.ClientName = "Jean Dupont"
	_, err := svc.ReplaceActive(ctx, q.Quote)
	require.NoError(t, err)
	saved, err := svc.SaveActive(ctx)
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, saved.Key)
	require.NoError(t, err)
	assert.Equal(t, quote.StatusAccepted, accepted.Status)

	archived, err := svc.Archive(ctx, saved.Key)
	require.NoError(t, err)
	assert.Equal(t, quote.StatusArchived, archived.Status)

	opened, err := svc.Open(ctx, saved.Key)
	require.NoError(t, err)
	assert.Equal(t, saved.Key, opened.Key)
	assert.Equal(t, saved.Key, svc.Active(ctx).Key)
}

func TestQuoteService_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuoteFixture(t)
	assert.Error(t, svc.Delete(ctx, "LJ-0000-0000"))
}

func TestCatalogService_CRUD(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newQuoteFixture(t)

	created, err := svc.Create(ctx, ItemRequest{
		Kind:     catalog.KindAircraft,
		Title:    catalog.LocalizedText{shared.LocaleEN: "Falcon 8X"},
		Price:    decimal.NewFromInt(25000),
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Key)
	assert.Len(t, created.Images, catalog.ImageSlots)

	updated, err := svc.Update(ctx, created.Key, ItemRequest{
		Kind:     catalog.KindAircraft,
		Title:    catalog.LocalizedText{shared.LocaleEN: "Falcon 7X"},
		Price:    decimal.NewFromInt(20000),
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, created.Key, updated.Key)
	assert.Equal(t, "Falcon 7X", updated.Title[shared.LocaleEN])

	require.NoError(t, svc.Delete(ctx, created.Key))
	_, err = svc.Get(ctx, created.Key)
	assert.Error(t, err)
}

func TestCatalogService_UploadImage(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	objects := newRecordingStorage()
	svc := NewCatalogService(st, objects)
	item := seedItem(t, st, "Cabin", 0)

	updated, err := svc.UploadImage(ctx, item.Key, 1, encodePNG(t, 1200, 900))
	require.NoError(t, err)
	assert.Contains(t, updated.Images[1], "catalog/"+item.Key+"/1-")
	assert.Contains(t, updated.Images[1], ".jpg")

	require.Len(t, objects.puts, 1)
	got := decodeJPEG(t, objects.puts[0].data)
	assert.Equal(t, 800, got.Bounds().Dx())

	t.Run("slot out of range", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, item.Key, catalog.ImageSlots, encodePNG(t, 10, 10))
		assert.Error(t, err)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, item.Key, 0, []byte("junk"))
		assert.Error(t, err)
	})

	t.Run("no storage configured", func(t *testing.T) {
		bare := NewCatalogService(st, nil)
		_, err := bare.UploadImage(ctx, item.Key, 0, encodePNG(t, 10, 10))
		assert.Error(t, err)
	})
}

func TestCatalogService_ClearImage(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	svc := NewCatalogService(st, newRecordingStorage())
	item := seedItem(t, st, "Cabin", 0)
	item.Images[2] = "https://cdn.example.com/old.jpg"
	_, err := st.PutItem(item)
	require.NoError(t, err)

	cleared, err := svc.ClearImage(ctx, item.Key, 2)
	require.NoError(t, err)
	assert.Equal(t, "", cleared.Images[2])
}

type putCall struct {
	key         string
	data        []byte
	contentType string
}

type recordingStorage struct {
	puts []putCall
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{}
}

func (r *recordingStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	r.puts = append(r.puts, putCall{key: key, data: data, contentType: contentType})
	return nil
}

func (r *recordingStorage) Delete(ctx context.Context, key string) error { return nil }

func (r *recordingStorage) URL(key string) string { return "https://cdn.example.com/" + key }
