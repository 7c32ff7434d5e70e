package segment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

func at(h, m int) time.Time { return time.Date(2024, 1, 15, h, m, 0, 0, time.UTC) }

func TestLabelsDefaultWindows(t *testing.T) {
	ws := DefaultWindows()
	tests := []struct {
		t    time.Time
		want []model.Period
	}{
		{at(0, 0), []model.Period{model.PeriodNight, model.PeriodFull}},
		{at(5, 59), []model.Period{model.PeriodNight, model.PeriodFull}},
		{at(6, 0), []model.Period{model.PeriodFull}},
		{at(7, 59), []model.Period{model.PeriodFull}},
		{at(8, 0), []model.Period{model.PeriodDay, model.PeriodMorning, model.PeriodFull}},
		{at(10, 0), []model.Period{model.PeriodDay, model.PeriodFull}},
		{at(21, 59), []model.Period{model.PeriodDay, model.PeriodFull}},
		{at(22, 0), []model.Period{model.PeriodFull}},
		{at(23, 30), []model.Period{model.PeriodFull}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ws.Labels(tt.t), tt.t.Format("15:04"))
	}
}

func TestNightWindowCrossingMidnight(t *testing.T) {
	ws := Windows{Day: Window{8, 22}, Night: Window{22, 6}, Morning: Window{6, 8}}
	require.NoError(t, ws.Validate())
	assert.Equal(t, 8, ws.Night.Hours())
	assert.True(t, ws.Night.Contains(at(22, 0)))
	assert.True(t, ws.Night.Contains(at(23, 59)))
	assert.True(t, ws.Night.Contains(at(3, 0)))
	assert.False(t, ws.Night.Contains(at(6, 0)))
	assert.False(t, ws.Night.Contains(at(21, 59)))
}

func TestWindowsValidate(t *testing.T) {
	require.NoError(t, DefaultWindows().Validate())

	bad := []Windows{
		{Day: Window{-1, 22}, Night: Window{0, 6}, Morning: Window{8, 10}},
		{Day: Window{8, 25}, Night: Window{0, 6}, Morning: Window{8, 10}},
		{Day: Window{8, 8}, Night: Window{0, 6}, Morning: Window{8, 10}},
		{Day: Window{8, 22}, Night: Window{20, 6}, Morning: Window{8, 10}},
		{Day: Window{0, 24}, Night: Window{0, 6}, Morning: Window{8, 10}},
		{Day: Window{8, 22}, Night: Window{0, 6}, Morning: Window{9, 9}},
	}
	for _, ws := range bad {
		var ce *model.ConfigurationError
		assert.True(t, errors.As(ws.Validate(), &ce), "%+v", ws)
	}
}

func TestSplitKeepsChronologicalOrder(t *testing.T) {
	s := model.PatientSeries{PatientID: "P1", Readings: []model.Reading{
		{Timestamp: at(1, 0), Systolic: 110},
		{Timestamp: at(8, 30), Systolic: 150},
		{Timestamp: at(12, 0), Systolic: 140},
		{Timestamp: at(23, 0), Systolic: 120},
	}}
	parts := DefaultWindows().Split(s)
	assert.Len(t, parts[model.PeriodFull], 4)
	assert.Len(t, parts[model.PeriodDay], 2)
	assert.Equal(t, 150.0, parts[model.PeriodDay][0].Systolic)
	assert.Len(t, parts[model.PeriodNight], 1)
	assert.Len(t, parts[model.PeriodMorning], 1)
}
