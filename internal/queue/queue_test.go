package queue

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ValidMessage(t *testing.T) {
	body := base64.StdEncoding.EncodeToString([]byte(`{
		"type": "exam_reminder",
		"userId": "u1",
		"title": "Exam Tomorrow",
		"message": "Study chapter 4",
		"priority": "high",
		"taskId": "t1",
		"metadata": {"course": "algebra"}
	}`))

	msg, err := Decode(body)
	require.NoError(t, err)

	assert.Equal(t, "exam_reminder", msg.Type)
	assert.Equal(t, "u1", msg.UserID)
	assert.Equal(t, "Exam Tomorrow", msg.Title)
	assert.Equal(t, "high", msg.Priority)
	assert.Equal(t, "t1", msg.TaskID)
	assert.Equal(t, "algebra", msg.Metadata["course"])
}

func TestDecode_MixedTypeMetadata(t *testing.T) {
	body := base64.StdEncoding.EncodeToString([]byte(`{
		"type": "deadline_reminder",
		"userId": "u1",
		"title": "Essay due",
		"message": "Due at midnight",
		"metadata": {"attempt": 2, "urgent": true, "source": "scheduler", "tags": ["late"]}
	}`))

	msg, err := Decode(body)
	require.NoError(t, err)

	assert.Equal(t, float64(2), msg.Metadata["attempt"])
	assert.Equal(t, true, msg.Metadata["urgent"])
	assert.Equal(t, "scheduler", msg.Metadata["source"])
}

func TestDecode_BadBase64(t *testing.T) {
	_, err := Decode("%%% not base64 %%%")
	assert.Error(t, err)
}

func TestDecode_BadJSON(t *testing.T) {
	body := base64.StdEncoding.EncodeToString([]byte(`{"type": `))
	_, err := Decode(body)
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	in := &InboundMessage{
		Type:    "task_created",
		UserID:  "u2",
		Title:   "New task",
		Message: "Read ahead",
	}

	body, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
