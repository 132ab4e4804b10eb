package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCodecPlainStruct(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	reminder := "07:00"
	in := &PrayerRequest{
		ID:           "r1",
		Title:        "Exams",
		Type:         "prayer",
		CreatedAt:    timestamppb.New(created),
		ReminderTime: &reminder,
		PrayedToday:  []string{"u1"},
	}

	data, err := Codec{}.Marshal(in)
	require.NoError(t, err)

	var out PrayerRequest
	require.NoError(t, Codec{}.Unmarshal(data, &out))
	assert.Equal(t, "Exams", out.Title)
	assert.True(t, out.CreatedAt.AsTime().Equal(created))
	require.NotNil(t, out.ReminderTime)
	assert.Equal(t, "07:00", *out.ReminderTime)
	assert.Nil(t, out.EndDate)
}

func TestCodecProtoMessage(t *testing.T) {
	ts := timestamppb.New(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	data, err := Codec{}.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-02T03:04:05Z"`, string(data))

	var out timestamppb.Timestamp
	require.NoError(t, Codec{}.Unmarshal(data, &out))
	assert.True(t, out.AsTime().Equal(ts.AsTime()))
}

func TestCodecEmptyBody(t *testing.T) {
	var req DemoRequest
	assert.NoError(t, Codec{}.Unmarshal(nil, &req))
	assert.Equal(t, CodecName, Codec{}.Name())
}
