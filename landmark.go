package posekit

import "fmt"

// LandmarkCount is the number of tracked points in a full body landmark frame
const LandmarkCount = 33

// Landmark indices of the fixed 33-point body model.  The semantic meaning
// of each index is defined by the upstream pose estimation engine and never
// changes between frames.
const (
	Nose = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

// landmarkNames maps landmark index to its wire format name
var landmarkNames = [LandmarkCount]string{
	"nose",
	"left_eye_inner",
	"left_eye",
	"left_eye_outer",
	"right_eye_inner",
	"right_eye",
	"right_eye_outer",
	"left_ear",
	"right_ear",
	"mouth_left",
	"mouth_right",
	"left_shoulder",
	"right_shoulder",
	"left_elbow",
	"right_elbow",
	"left_wrist",
	"right_wrist",
	"left_pinky",
	"right_pinky",
	"left_index",
	"right_index",
	"left_thumb",
	"right_thumb",
	"left_hip",
	"right_hip",
	"left_knee",
	"right_knee",
	"left_ankle",
	"right_ankle",
	"left_heel",
	"right_heel",
	"left_foot_index",
	"right_foot_index",
}

// LandmarkName returns the name for the given landmark index.  Indices
// outside the 33-point body model fall back to a synthesized
// "landmark_<id>" label.
func LandmarkName(id int) string {

	if id < 0 || id >= LandmarkCount {
		return fmt.Sprintf("landmark_%d", id)
	}

	return landmarkNames[id]
}
