package relay

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/poku-e/a1scrap/internal/forms"
	"github.com/poku-e/a1scrap/internal/sheets"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var stamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(store sheets.Store) *Service {
	return New(store, WithClock(func() time.Time { return stamp }))
}

func minimal(t forms.Type) url.Values {
	v := url.Values{"sheetName": {string(t)}}
	switch t {
	case forms.Career:
		v.Set("full_name", "Meena")
	default:
		v.Set("name", "Meena")
	}
	v.Set("phone", "9000000000")
	return v
}

func TestSubmitEachFormTypeAppendsOneRow(t *testing.T) {
	ctx := context.Background()
	for _, typ := range forms.Types() {
		t.Run(string(typ), func(t *testing.T) {
			store := sheets.NewMemoryStore()
			svc := newService(store)

			r, err := svc.Submit(ctx, forms.NewSubmission(minimal(typ)))
			require.NoError(t, err)
			assert.True(t, r.Created)
			assert.Equal(t, typ, r.Type)
			assert.NotEmpty(t, r.ID)

			schema := forms.MustLookup(typ)
			rows, err := store.Read(ctx, schema.Sheet)
			require.NoError(t, err)
			require.Len(t, rows, 2, "header + one data row")
			assert.Equal(t, schema.Header(), rows[0])
			assert.Len(t, rows[1], schema.Width())
			assert.Equal(t, "2025-06-01T12:00:00Z", rows[1][0])
			assert.Equal(t, "Meena", rows[1][1])
		})
	}
}

func TestSubmitDefaultsToContactForm(t *testing.T) {
	store := sheets.NewMemoryStore()
	r, err := newService(store).Submit(context.Background(), forms.FromMap(map[string]string{"name": "X"}))
	require.NoError(t, err)
	assert.Equal(t, forms.Contact, r.Type)
	assert.Equal(t, "Contact Messages", r.Sheet)
}

func TestSubmitUsesFormIDWhenSheetNameMissing(t *testing.T) {
	store := sheets.NewMemoryStore()
	r, err := newService(store).Submit(context.Background(), forms.FromMap(map[string]string{"form_id": "franchiseForm"}))
	require.NoError(t, err)
	assert.Equal(t, forms.Franchise, r.Type)
}

func TestSubmitHoneypotAlwaysRejected(t *testing.T) {
	ctx := context.Background()
	for _, typ := range forms.Types() {
		store := sheets.NewMemoryStore()
		v := minimal(typ)
		v.Set("hp", " filled ")
		_, err := newService(store).Submit(ctx, forms.NewSubmission(v))
		require.ErrorIs(t, err, ErrSpam)
		assert.Equal(t, "Spam detected", Message(err))

		names, _ := store.Sheets(ctx)
		assert.Empty(t, names)
	}

	// Honeypot wins even over an invalid form type.
	_, err := newService(sheets.NewMemoryStore()).Submit(ctx, forms.FromMap(map[string]string{"hp": "x", "sheetName": "bogus"}))
	assert.ErrorIs(t, err, ErrSpam)
}

func TestSubmitInvalidTypeTouchesNothing(t *testing.T) {
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	svc := newService(store)
	_, err := svc.Submit(ctx, forms.NewSubmission(minimal(forms.Pickup)))
	require.NoError(t, err)

	_, err = svc.Submit(ctx, forms.FromMap(map[string]string{"sheetName": "newsletterForm", "name": "Z"}))
	require.ErrorIs(t, err, ErrInvalidFormType)
	assert.Equal(t, "Invalid form type: newsletterForm", Message(err))
	assert.False(t, IsStoreError(err))

	names, err := store.Sheets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pickup Requests"}, names)
	n, _, _ := store.RowCount(ctx, "Pickup Requests")
	assert.Equal(t, 1, n)
}

func TestConcurrentFirstSubmissionsShareOneSheet(t *testing.T) {
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	svc := newService(store)

	const n = 16
	var wg sync.WaitGroup
	created := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := svc.Submit(ctx, forms.NewSubmission(minimal(forms.Franchise)))
			assert.NoError(t, err)
			created <- r.Created
		}()
	}
	wg.Wait()
	close(created)

	creates := 0
	for c := range created {
		if c {
			creates++
		}
	}
	assert.Equal(t, 1, creates)

	rows, err := store.Read(ctx, "Franchise Applications")
	require.NoError(t, err)
	require.Len(t, rows, n+1)
	headers := 0
	for _, r := range rows {
		if r[0] == forms.TimestampHeader {
			headers++
		}
	}
	assert.Equal(t, 1, headers)
}

type brokenStore struct {
	sheets.Store
	err error
}

func (b brokenStore) Ensure(context.Context, string, []string) (bool, error) { return false, b.err }
func (b brokenStore) RowCount(context.Context, string) (int, bool, error) { return 0, false, b.err }

func TestStoreFailuresAreTyped(t *testing.T) {
	ctx := context.Background()
	down := errors.New("workbook locked")
	svc := newService(brokenStore{Store: sheets.NewMemoryStore(), err: down})

	_, err := svc.Submit(ctx, forms.NewSubmission(minimal(forms.Contact)))
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, down)
	assert.Contains(t, Message(err), "workbook locked")

	_, err = svc.Status(ctx)
	assert.True(t, IsStoreError(err))
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	svc := newService(store)

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st, len(forms.Types()))
	assert.Empty(t, Existing(st))

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(ctx, forms.NewSubmission(minimal(forms.Career)))
		require.NoError(t, err)
	}
	st, err = svc.Status(ctx)
	require.NoError(t, err)
	got := Existing(st)
	require.Len(t, got, 1)
	assert.Equal(t, "Career Applications", got[0].Name)
	assert.Equal(t, 3, got[0].Submissions)
}

func TestWithLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	store := sheets.NewMemoryStore()
	svc := New(store, WithClock(func() time.Time { return stamp }), WithLocation(ist))
	_, err := svc.Submit(context.Background(), forms.NewSubmission(minimal(forms.Pickup)))
	require.NoError(t, err)
	rows, _ := store.Read(context.Background(), "Pickup Requests")
	assert.Equal(t, "2025-06-01T17:30:00+05:30", rows[1][0])
}
