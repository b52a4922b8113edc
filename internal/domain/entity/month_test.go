package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    Month
		wantErr bool
	}{
		{in: "2023-01", want: NewMonth(2023, time.January)},
		{in: " 2023-02-15 ", want: NewMonth(2023, time.February)},
		{in: "2023-03-01 00:00:00", want: NewMonth(2023, time.March)},
		{in: "2023-04-30T12:00:00Z", want: NewMonth(2023, time.April)},
		{in: "2023/05", want: NewMonth(2023, time.May)},
		{in: "", wantErr: true},
		{in: "May 2023", wantErr: true},
		{in: "2023-13", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMonth(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonth_Ordering(t *testing.T) {
	dec := NewMonth(2022, time.December)
	jan := NewMonth(2023, time.January)

	assert.True(t, dec.Before(jan))
	assert.True(t, jan.After(dec))
	assert.False(t, jan.Before(jan))
	assert.Equal(t, "2022-12", dec.String())
}

func TestMonth_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		M Month `json:"m"`
	}{M: NewMonth(2023, time.July)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"m":"2023-07"}`, string(b))

	var back struct {
		M Month `json:"m"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, NewMonth(2023, time.July), back.M)
}

func TestWindow(t *testing.T) {
	w := Window{From: NewMonth(2023, time.March), To: NewMonth(2023, time.May)}

	assert.True(t, w.Contains(NewMonth(2023, time.March)))
	assert.True(t, w.Contains(NewMonth(2023, time.May)))
	assert.False(t, w.Contains(NewMonth(2023, time.June)))
	assert.False(t, w.IsEmpty())
	assert.True(t, Window{From: w.To, To: w.From}.IsEmpty())
	assert.Equal(t, "2023-03 to 2023-05", w.String())
}

func TestRunSummary_Merge(t *testing.T) {
	s := NewRunSummary()
	s.Merge(TableStats{Table: TableSMS, Read: 10, Invalid: 1, Kept: 9})
	s.Merge(TableStats{Table: TableSMS, MissingID: 2, OutOfWindow: 1, Kept: 6})
	s.Merge(TableStats{Table: TableClients, Read: 3, Kept: 3})

	sms := s.Tables[TableSMS]
	assert.Equal(t, 10, sms.Read)
	assert.Equal(t, 4, sms.Dropped())
	assert.Equal(t, 6, sms.Kept)

	ordered := s.SortedTables()
	require.Len(t, ordered, 2)
	assert.Equal(t, TableClients, ordered[0].Table)
}
