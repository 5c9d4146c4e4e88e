// Package rig matches the bones of a pre-authored skeleton, loaded from an
// external model file, against the landmark pairs that can drive them.
// Matching is by name only since model authors spell bone names in many
// conventions.
package rig

import (
	"errors"

	"github.com/poseworks/go-posekit"
)

// ErrUnriggedModel is returned by Attach when none of the model's bone
// names match a retargetable role.  Callers are expected to fall back to a
// procedural rig rather than silently producing no motion.
var ErrUnriggedModel = errors.New("rig: no retargetable bones matched")

// Role is a retargetable bone role driven by a fixed landmark pair
type Role int

const (
	RoleHips Role = iota
	RoleSpine
	RoleHead
	RoleLeftUpperArm
	RoleLeftLowerArm
	RoleLeftHand
	RoleRightUpperArm
	RoleRightLowerArm
	RoleRightHand
	RoleLeftUpperLeg
	RoleLeftLowerLeg
	RoleLeftFoot
	RoleRightUpperLeg
	RoleRightLowerLeg
	RoleRightFoot

	roleCount
)

// roleNames maps a Role to its canonical name
var roleNames = [roleCount]string{
	"hips",
	"spine",
	"head",
	"left_upper_arm",
	"left_lower_arm",
	"left_hand",
	"right_upper_arm",
	"right_lower_arm",
	"right_hand",
	"left_upper_leg",
	"left_lower_leg",
	"left_foot",
	"right_upper_leg",
	"right_lower_leg",
	"right_foot",
}

// roleLandmarks maps a Role to the start and end landmark indices that
// drive it
var roleLandmarks = [roleCount][2]int{
	{posekit.LeftHip, posekit.RightHip},
	{posekit.LeftHip, posekit.LeftShoulder},
	{posekit.Nose, posekit.LeftEar},
	{posekit.LeftShoulder, posekit.LeftElbow},
	{posekit.LeftElbow, posekit.LeftWrist},
	{posekit.LeftWrist, posekit.LeftIndex},
	{posekit.RightShoulder, posekit.RightElbow},
	{posekit.RightElbow, posekit.RightWrist},
	{posekit.RightWrist, posekit.RightIndex},
	{posekit.LeftHip, posekit.LeftKnee},
	{posekit.LeftKnee, posekit.LeftAnkle},
	{posekit.LeftHeel, posekit.LeftFootIndex},
	{posekit.RightHip, posekit.RightKnee},
	{posekit.RightKnee, posekit.RightAnkle},
	{posekit.RightHeel, posekit.RightFootIndex},
}

// String returns the canonical role name
func (r Role) String() string {

	if r < 0 || r >= roleCount {
		return "unknown"
	}

	return roleNames[r]
}

// Landmarks returns the start and end landmark indices driving the role
func (r Role) Landmarks() (start, end int) {
	return roleLandmarks[r][0], roleLandmarks[r][1]
}

// Handle is an attached rig, mapping each matched role to the external bone
// name that claimed it
type Handle struct {
	bones map[Role]string
}

// Attach matches the given external bone names against the role alias table
// and returns a handle holding the full mapping.  Attach replaces any prior
// mapping wholesale, it never partially mutates an existing handle, so
// swapping models is a single call.  A role claimed by an earlier bone name
// is never overwritten by a later one.  When zero bones match, Attach
// returns ErrUnriggedModel.
func Attach(boneNames []string) (*Handle, error) {

	h := &Handle{
		bones: make(map[Role]string),
	}

	for _, name := range boneNames {
		role, ok := MatchBoneRole(name)

		if !ok {
			continue
		}

		if _, claimed := h.bones[role]; claimed {
			continue
		}

		h.bones[role] = name
	}

	if len(h.bones) == 0 {
		return nil, ErrUnriggedModel
	}

	return h, nil
}

// BoneName returns the external bone name claimed by the given role
func (h *Handle) BoneName(role Role) (string, bool) {
	name, ok := h.bones[role]
	return name, ok
}

// Len returns the number of matched roles
func (h *Handle) Len() int {
	return len(h.bones)
}

// Roles returns the matched roles in alias table order
func (h *Handle) Roles() []Role {

	roles := make([]Role, 0, len(h.bones))

	for _, entry := range aliasTable {
		if _, ok := h.bones[entry.role]; ok {
			roles = append(roles, entry.role)
		}
	}

	return roles
}
