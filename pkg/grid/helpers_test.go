package grid

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type payment struct {
	ID     string
	Payee  string
	Amount any
	Paid   time.Time
	Status string
}

func paymentRegistry() *Registry[payment] {
	return MustRegistry("payments",
		Column[payment]{ID: "id", Label: "ID", DefaultVisible: true, Disabled: true, Value: func(p payment) any { return p.ID }},
		Column[payment]{ID: "payee", Label: "Payee", DefaultVisible: true, Value: func(p payment) any { return p.Payee }},
		Column[payment]{ID: "amount", Label: "Amount", DefaultVisible: true, Type: TypeNumber, ShowTotal: true, Value: func(p payment) any { return p.Amount }},
		Column[payment]{ID: "paid", Label: "Paid", DefaultVisible: false, Type: TypeDate, Value: func(p payment) any { return p.Paid }},
		Column[payment]{ID: "status", Label: "Status", DefaultVisible: true, Value: func(p payment) any { return p.Status }},
	)
}

func paymentIDs(rows []payment) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// memStore is a StateStore keeping encoded envelopes, so tests exercise the
// same serialization path as real stores.
type memStore struct {
	data    map[string][]byte
	saves   int
	failErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Load(_ context.Context, key StorageKey) (ViewState, bool, error) {
	if m.failErr != nil {
		return ViewState{}, false, m.failErr
	}
	b, ok := m.data[key.String()]
	if !ok {
		return ViewState{}, false, nil
	}
	return DecodeState(b)
}

func (m *memStore) Save(_ context.Context, key StorageKey, s ViewState) error {
	if m.failErr != nil {
		return m.failErr
	}
	b, err := EncodeState(s)
	if err != nil {
		return err
	}
	m.data[key.String()] = b
	m.saves++
	return nil
}

func (m *memStore) Delete(_ context.Context, key StorageKey) error {
	if m.failErr != nil {
		return m.failErr
	}
	delete(m.data, key.String())
	return nil
}

var errBoom = errors.New("boom")
