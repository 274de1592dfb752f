package store

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalajet/backend/internal/domain/catalog"
	"github.com/lalajet/backend/internal/domain/client"
	"github.com/lalajet/backend/internal/domain/quote"
	"github.com/lalajet/backend/internal/domain/shared"
	"github.com/lalajet/backend/internal/sync"
)

func mustClient(t *testing.T, name, email string) *client.Client {
	t.Helper()
	c, err := client.New(name, email, "")
	require.NoError(t, err)
	return c
}

func mustItem(t *testing.T, title string, price int64) *catalog.Item {
	t.Helper()
	it, err := catalog.New(catalog.KindService)
	require.NoError(t, err)
	it.Title[shared.LocaleEN] = title
	it.Price = decimal.NewFromInt(price)
	return it
}

type changeLog struct {
	cols []sync.Collection
}

func (l *changeLog) record(col sync.Collection) { l.cols = append(l.cols, col) }

func (l *changeLog) count(col sync.Collection) int {
	n := 0
	for _, c := range l.cols {
		if c == col {
			n++
		}
	}
	return n
}

func TestStore_PutClientAssignsKeyAndNotifies(t *testing.T) {
	s := New()
	log := &changeLog{}
	s.SetOnChange(log.record)

	saved, err := s.PutClient(mustClient(t, "Jean Dupont", "jean@example.fr"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.Key)
	assert.Contains(t, saved.Key, "cl-")
	assert.Equal(t, 1, log.count(sync.CollectionClients))
}

func TestStore_PutClientKeepsExistingKey(t *testing.T) {
	s := New()
	c := mustClient(t, "Jean Dupont", "")
	c.Key = "cl-fixed"
	saved, err := s.PutClient(c)
	require.NoError(t, err)
	assert.Equal(t, "cl-fixed", saved.Key)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s := New()
	saved, err := s.PutClient(mustClient(t, "Jean Dupont", ""))
	require.NoError(t, err)

	got, err := s.Client(saved.Key)
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := s.Client(saved.Key)
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont", again.Name)
}

func TestStore_DeleteClient(t *testing.T) {
	s := New()
	log := &changeLog{}
	saved, err := s.PutClient(mustClient(t, "Jean Dupont", ""))
	require.NoError(t, err)
	s.SetOnChange(log.record)

	require.NoError(t, s.DeleteClient(saved.Key))
	_, err = s.Client(saved.Key)
	assert.Error(t, err)
	assert.Equal(t, 1, log.count(sync.CollectionClients))

	assert.Error(t, s.DeleteClient("cl-missing"))
}

func TestStore_FindClientByContact(t *testing.T) {
	s := New()
	_, err := s.PutClient(mustClient(t, "Jean Dupont", "jean@example.fr"))
	require.NoError(t, err)

	t.Run("matches by name case-insensitively", func(t *testing.T) {
		_, found := s.FindClientByContact("JEAN DUPONT", "")
		assert.True(t, found)
	})

	t.Run("matches by email", func(t *testing.T) {
		_, found := s.FindClientByContact("Someone Else", "Jean@Example.fr")
		assert.True(t, found)
	})

	t.Run("no match", func(t *testing.T) {
		_, found := s.FindClientByContact("Marie Curie", "marie@example.fr")
		assert.False(t, found)
	})
}

func TestStore_SaveActiveQuoteDerivesClient(t *testing.T) {
	s := New()
	q := s.NewActiveQuote()
	q.ClientName = "New Prospect"
	q.ClientEmail = "prospect@example.com"
	s.SetActiveQuote(q)

	saved, err := s.SaveActiveQuote()
	require.NoError(t, err)
	assert.NotEmpty(t, saved.Key)

	derived, found := s.FindClientByContact("New Prospect", "")
	require.True(t, found)
	assert.Equal(t, "prospect@example.com", derived.Email)
}

func TestStore_SaveActiveQuoteDoesNotDuplicateClients(t *testing.T) {
	s := New()
	existing, err := s.PutClient(mustClient(t, "Jean Dupont", "jean@example.fr"))
	require.NoError(t, err)

	q := s.NewActiveQuote()
	q.ClientName = "jean dupont"
	s.SetActiveQuote(q)
	_, err = s.SaveActiveQuote()
	require.NoError(t, err)

	clients := s.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, existing.Key, clients[0].Key)
}

func TestStore_SaveActiveQuoteRequiresClientName(t *testing.T) {
	s := New()
	s.NewActiveQuote()
	_, err := s.SaveActiveQuote()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client")
}

func TestStore_SaveActiveQuoteIsStable(t *testing.T) {
	s := New()
	q := s.NewActiveQuote()
	q.ClientName = "Jean Dupont"
	s.SetActiveQuote(q)

	first, err := s.SaveActiveQuote()
	require.NoError(t, err)
	second, err := s.SaveActiveQuote()
	require.NoError(t, err)

	assert.Equal(t, first.Key, second.Key)
	assert.Len(t, s.Quotes(), 1)
}

func TestStore_QuoteLineItemsAreSnapshots(t *testing.T) {
	s := New()
	item, err := s.PutItem(mustItem(t, "Catering", 100))
	require.NoError(t, err)

	q := s.NewActiveQuote()
	q.ClientName = "Jean Dupont"
	q.ImportItem(item, false)
	s.SetActiveQuote(q)
	saved, err := s.SaveActiveQuote()
	require.NoError(t, err)

	// Editing the catalog afterwards must not alter the issued quote
	item.Title[shared.LocaleEN] = "Premium Catering"
	item.Price = decimal.NewFromInt(999)
	_, err = s.PutItem(item)
	require.NoError(t, err)

	kept, err := s.Quote(saved.Key)
	require.NoError(t, err)
	require.Len(t, kept.LineItems, 1)
	assert.Equal(t, "Catering", kept.LineItems[0].Title[shared.LocaleEN])
	assert.True(t, kept.LineItems[0].Price.Equal(decimal.NewFromInt(100)))
}

func TestStore_ReplaceAllDoesNotNotify(t *testing.T) {
	s := New()
	log := &changeLog{}
	s.SetOnChange(log.record)

	records := []sync.Record{
		{Key: "cl-1", Payload: []byte(`{"id":"cl-1","name":"Jean","email":"","phone":""}`)},
	}
	require.NoError(t, s.ReplaceAll(sync.CollectionClients, records))
	assert.Empty(t, log.cols)
	assert.Len(t, s.Clients(), 1)
}

func TestStore_ApplyRemoteDoesNotNotify(t *testing.T) {
	s := New()
	log := &changeLog{}
	s.SetOnChange(log.record)

	err := s.ApplyRemote(sync.CollectionClients, sync.EventInsert, "cl-1",
		[]byte(`{"id":"cl-1","name":"Jean","email":"","phone":""}`))
	require.NoError(t, err)
	assert.Empty(t, log.cols)

	require.NoError(t, s.ApplyRemote(sync.CollectionClients, sync.EventDelete, "cl-1", nil))
	assert.Empty(t, log.cols)
	assert.Empty(t, s.Clients())
}

func TestStore_ApplyRemoteSettingsDeleteResetsDefaults(t *testing.T) {
	s := New()
	p := s.Settings()
	p.Name = "Changed"
	_, err := s.PutSettings(p)
	require.NoError(t, err)

	require.NoError(t, s.ApplyRemote(sync.CollectionSettings, sync.EventDelete, "global", nil))
	assert.Equal(t, "LalaJet", s.Settings().Name)
}

func TestStore_SnapshotIsSortedByKey(t *testing.T) {
	s := New()
	for _, name := range []string{"Zoe", "Anna", "Marc"} {
		_, err := s.PutClient(mustClient(t, name, ""))
		require.NoError(t, err)
	}

	records, err := s.Snapshot(sync.CollectionClients)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.LessOrEqual(t, records[0].Key, records[1].Key)
	assert.LessOrEqual(t, records[1].Key, records[2].Key)
}

func TestStore_SnapshotSettingsIsSingleton(t *testing.T) {
	s := New()
	records, err := s.Snapshot(sync.CollectionSettings)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "global", records[0].Key)

	var p map[string]any
	require.NoError(t, json.Unmarshal(records[0].Payload, &p))
	assert.Equal(t, "LalaJet", p["name"])
}

func TestStore_ReplaceAllEmptySettingsFallsBackToDefaults(t *testing.T) {
	s := New()
	p := s.Settings()
	p.Name = "Changed"
	_, err := s.PutSettings(p)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceAll(sync.CollectionSettings, nil))
	assert.Equal(t, "LalaJet", s.Settings().Name)
}

func TestStore_QuotesAreNewestFirst(t *testing.T) {
	s := New()
	for _, name := range []string{"First", "Second", "Third"} {
		q := s.NewActiveQuote()
		q.ClientName = name
		s.SetActiveQuote(q)
		_, err := s.SaveActiveQuote()
		require.NoError(t, err)
	}

	quotes := s.Quotes()
	require.Len(t, quotes, 3)
	assert.False(t, quotes[0].CreatedAt.Before(quotes[1].CreatedAt))
	assert.False(t, quotes[1].CreatedAt.Before(quotes[2].CreatedAt))
}

func TestStore_NewActiveQuoteHasDefaults(t *testing.T) {
	s := New()
	q := s.NewActiveQuote()
	assert.True(t, len(q.Key) > len(quote.KeyPrefix))
	assert.Equal(t, quote.StatusDraft, q.Status)
	assert.Equal(t, shared.LocaleFR, q.Locale)
	assert.Equal(t, shared.CurrencyEUR, q.Currency)
	assert.NotNil(t, q.Return)
}
