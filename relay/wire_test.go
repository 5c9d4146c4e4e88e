package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poseworks/go-posekit"
)

func fullFrame() posekit.Frame {

	lms := make([]posekit.Landmark, posekit.LandmarkCount)

	for i := range lms {
		lms[i] = posekit.Landmark{
			Index:      i,
			Position:   posekit.Point{X: 0.25, Y: 0.5, Z: -0.125},
			Confidence: 0.875,
		}
	}

	return posekit.Frame{
		Timestamp:   1700000000123,
		FrameCount:  7,
		PersonID:    2,
		Landmarks:   lms,
		VideoWidth:  1280,
		VideoHeight: 720,
	}
}

func TestMessageFromFrames(t *testing.T) {

	msg := MessageFromFrames(fullFrame())

	assert.Equal(t, float64(1700000000123), msg.Timestamp)
	assert.Equal(t, 7, msg.FrameCount)
	assert.Equal(t, VideoInfo{Width: 1280, Height: 720}, msg.VideoInfo)

	require.Len(t, msg.Poses, 1)
	assert.Equal(t, 2, msg.Poses[0].PersonID)
	require.Len(t, msg.Poses[0].Landmarks, posekit.LandmarkCount)
	assert.Empty(t, msg.Poses[0].WorldLandmarks)

	// names come from the fixed lookup table
	assert.Equal(t, "nose", msg.Poses[0].Landmarks[posekit.Nose].Name)
	assert.Equal(t, "left_shoulder", msg.Poses[0].Landmarks[posekit.LeftShoulder].Name)
}

func TestWireFormatFieldNames(t *testing.T) {

	data, err := json.Marshal(MessageFromFrames(fullFrame()))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{"timestamp", "frameCount", "poses", "videoInfo"} {
		assert.Contains(t, raw, key)
	}

	poses := raw["poses"].([]any)
	pose := poses[0].(map[string]any)

	assert.Contains(t, pose, "personId")
	assert.Contains(t, pose, "landmarks")

	lm := pose["landmarks"].([]any)[0].(map[string]any)

	for _, key := range []string{"id", "name", "x", "y", "z", "visibility"} {
		assert.Contains(t, lm, key)
	}
}

func TestWireRoundTrip(t *testing.T) {

	f := fullFrame()
	f.WorldLandmarks = fullFrame().Landmarks

	data, err := json.Marshal(MessageFromFrames(f))
	require.NoError(t, err)

	msg, err := Decode(data)
	require.NoError(t, err)

	frames := msg.Frames()
	require.Len(t, frames, 1)

	assert.Equal(t, f.Timestamp, frames[0].Timestamp)
	assert.Equal(t, f.PersonID, frames[0].PersonID)
	assert.Equal(t, f.VideoWidth, frames[0].VideoWidth)
	assert.Equal(t, f.Landmarks, frames[0].Landmarks)
	assert.Equal(t, f.WorldLandmarks, frames[0].WorldLandmarks)
}

func TestDecodeRejectsGarbage(t *testing.T) {

	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}
