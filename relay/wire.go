package relay

import (
	"encoding/json"
	"fmt"

	"github.com/poseworks/go-posekit"
)

// WireLandmark is one landmark in the JSON wire format
type WireLandmark struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// PersonPose is the landmark set for one detected person
type PersonPose struct {
	PersonID       int            `json:"personId"`
	Landmarks      []WireLandmark `json:"landmarks"`
	WorldLandmarks []WireLandmark `json:"worldLandmarks,omitempty"`
}

// VideoInfo carries the source video dimensions
type VideoInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PoseMessage is one relayed frame of poses in the JSON wire format
type PoseMessage struct {
	Timestamp  float64      `json:"timestamp"`
	FrameCount int          `json:"frameCount"`
	Poses      []PersonPose `json:"poses"`
	VideoInfo  VideoInfo    `json:"videoInfo"`
}

// wireLandmarks converts a landmark set into wire format, synthesizing
// names from the landmark index
func wireLandmarks(lms []posekit.Landmark) []WireLandmark {

	if len(lms) == 0 {
		return nil
	}

	out := make([]WireLandmark, len(lms))

	for i, lm := range lms {
		out[i] = WireLandmark{
			ID:         lm.Index,
			Name:       posekit.LandmarkName(lm.Index),
			X:          lm.Position.X,
			Y:          lm.Position.Y,
			Z:          lm.Position.Z,
			Visibility: lm.Confidence,
		}
	}

	return out
}

// frameLandmarks converts wire landmarks back into the library's landmark
// type
func frameLandmarks(wls []WireLandmark) []posekit.Landmark {

	if len(wls) == 0 {
		return nil
	}

	out := make([]posekit.Landmark, len(wls))

	for i, wl := range wls {
		out[i] = posekit.Landmark{
			Index:      wl.ID,
			Position:   posekit.Point{X: wl.X, Y: wl.Y, Z: wl.Z},
			Confidence: wl.Visibility,
		}
	}

	return out
}

// MessageFromFrames builds a wire message from one or more frames of the
// same video frame.  Timestamp, frame count and video dimensions are taken
// from the first frame.
func MessageFromFrames(frames ...posekit.Frame) PoseMessage {

	msg := PoseMessage{}

	if len(frames) == 0 {
		return msg
	}

	msg.Timestamp = frames[0].Timestamp
	msg.FrameCount = frames[0].FrameCount
	msg.VideoInfo = VideoInfo{
		Width:  frames[0].VideoWidth,
		Height: frames[0].VideoHeight,
	}

	for _, f := range frames {
		msg.Poses = append(msg.Poses, PersonPose{
			PersonID:       f.PersonID,
			Landmarks:      wireLandmarks(f.Landmarks),
			WorldLandmarks: wireLandmarks(f.WorldLandmarks),
		})
	}

	return msg
}

// Frames converts the message back into per person frames
func (m PoseMessage) Frames() []posekit.Frame {

	frames := make([]posekit.Frame, 0, len(m.Poses))

	for _, p := range m.Poses {
		frames = append(frames, posekit.Frame{
			Timestamp:      m.Timestamp,
			FrameCount:     m.FrameCount,
			PersonID:       p.PersonID,
			Landmarks:      frameLandmarks(p.Landmarks),
			WorldLandmarks: frameLandmarks(p.WorldLandmarks),
			VideoWidth:     m.VideoInfo.Width,
			VideoHeight:    m.VideoInfo.Height,
		})
	}

	return frames
}

// Decode parses one JSON wire message
func Decode(data []byte) (PoseMessage, error) {

	var msg PoseMessage

	if err := json.Unmarshal(data, &msg); err != nil {
		return PoseMessage{}, fmt.Errorf("error decoding pose message: %w", err)
	}

	return msg, nil
}
