package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	response json.RawMessage
	err      error
	gotURI   string
}

func (s *stubExtractor) ExtractFromPhoto(_ context.Context, uri string) (json.RawMessage, error) {
	s.gotURI = uri
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func newTestAdapter(response string, err error) (*Adapter, *stubExtractor) {
	stub := &stubExtractor{response: json.RawMessage(response), err: err}
	a := NewAdapter(stub, nil)
	a.now = func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return a, stub
}

func TestProcessReceipt_AllFourShapes(t *testing.T) {
	item := `{"amount":10,"description":"Pizza","category":"comida","date":"2025-03-01"}`
	cases := []struct {
		name     string
		response string
		want     int
	}{
		{"bare list", `[` + item + `,` + item + `]`, 2},
		{"expenses field", `{"expenses":[` + item + `]}`, 1},
		{"data field", `{"data":[` + item + `]}`, 1},
		{"single object", item, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := newTestAdapter(tc.response, nil)
			drafts, err := a.ProcessReceipt(context.Background(), "nota.jpg", []byte("img"))
			require.NoError(t, err)
			require.Len(t, drafts, tc.want)
			assert.Equal(t, "Pizza", drafts[0].Description)
			assert.Equal(t, "Comida", drafts[0].Category)
			assert.Equal(t, 10.0, drafts[0].Amount)
			assert.Equal(t, "2025-03-01", drafts[0].Date)
			assert.NotEmpty(t, drafts[0].TempID)
		})
	}
}

func TestProcessReceipt_ShapePrecedence(t *testing.T) {
	// when both "expenses" and "data" are present, "expenses" wins
	a, _ := newTestAdapter(`{
		"expenses":[{"amount":1,"description":"from expenses"}],
		"data":[{"amount":2,"description":"from data"}]
	}`, nil)
	drafts, err := a.ProcessReceipt(context.Background(), "nota.jpg", []byte("img"))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "from expenses", drafts[0].Description)
}

func TestProcessReceipt_CoercesFields(t *testing.T) {
	a, _ := newTestAdapter(`{"data":[{"amount":"12.5","description":null,"category":"lazer","date":null}]}`, nil)

	drafts, err := a.ProcessReceipt(context.Background(), "nota.jpg", []byte("img"))
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, 12.5, d.Amount)
	assert.Equal(t, "Despesa extraída", d.Description)
	assert.Equal(t, "Lazer", d.Category)
	assert.Equal(t, "2025-03-15T12:00:00Z", d.Date, "missing date defaults to now")
}

func TestProcessReceipt_UnknownCategoryAndBadAmount(t *testing.T) {
	a, _ := newTestAdapter(`[{"amount":"muito","description":"Bike","category":"bicicleta","date":"2025-03-02"}]`, nil)

	drafts, err := a.ProcessReceipt(context.Background(), "nota.jpg", []byte("img"))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, 0.0, drafts[0].Amount)
	assert.Equal(t, "Outros", drafts[0].Category)
}

func TestProcessReceipt_UniqueTempIDs(t *testing.T) {
	a, _ := newTestAdapter(`[{"amount":1},{"amount":2},{"amount":3}]`, nil)
	drafts, err := a.ProcessReceipt(context.Background(), "nota.jpg", []byte("img"))
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, d := range drafts {
		assert.False(t, seen[d.TempID], "temp IDs must be unique")
		seen[d.TempID] = true
	}
}

func TestProcessReceipt_ErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("backend unreachable")
	a, _ := newTestAdapter("", boom)

	drafts, err := a.ProcessReceipt(context.Background(), "nota.jpg", []byte("img"))
	assert.Nil(t, drafts)
	assert.ErrorIs(t, err, boom)
}

func TestProcessReceipt_GarbageResponse(t *testing.T) {
	a, _ := newTestAdapter(`"just a string"`, nil)
	_, err := a.ProcessReceipt(context.Background(), "nota.jpg", []byte("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalize extraction response")
}

func TestEncodeDataURI(t *testing.T) {
	// a real PNG header so content sniffing kicks in
	png := []byte("\x89PNG\r\n\x1a\n0000000000")
	uri := EncodeDataURI("nota.png", png)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri)

	pdf := EncodeDataURI("nota.pdf", []byte("\x00\x01\x02\x03"))
	assert.True(t, strings.HasPrefix(pdf, "data:application/pdf;base64,"), pdf)
}

func TestProcessReceipt_SendsDataURI(t *testing.T) {
	a, stub := newTestAdapter(`[]`, nil)
	_, err := a.ProcessReceipt(context.Background(), "nota.jpg", []byte("img-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stub.gotURI, "data:"), "payload must be a data URI")
	assert.Contains(t, stub.gotURI, ";base64,")
}
