package rig

import "strings"

// aliasEntry pairs a role with the external name spellings that can claim it
type aliasEntry struct {
	role    Role
	aliases []string
}

// aliasTable lists the acceptable external spellings per role.  Table order
// is a contract: MatchBoneRole scans entries top to bottom and within an
// entry left to right, and the first alias contained in the external name
// wins.  More specific spellings therefore sit above generic ones, e.g.
// "upperarm" must be tested before a bare "arm" would be.
var aliasTable = []aliasEntry{
	{RoleHips, []string{"hips", "pelvis", "root"}},
	{RoleSpine, []string{"spine", "chest", "torso", "upperbody"}},
	{RoleHead, []string{"head", "neck"}},
	{RoleLeftUpperArm, []string{"leftupperarm", "upperarm_l", "upperarm.l", "l_upperarm", "leftarm"}},
	{RoleLeftLowerArm, []string{"leftlowerarm", "lowerarm_l", "lowerarm.l", "leftforearm", "forearm_l", "forearm.l", "l_forearm"}},
	{RoleLeftHand, []string{"lefthand", "hand_l", "hand.l", "l_hand", "leftwrist", "wrist_l"}},
	{RoleRightUpperArm, []string{"rightupperarm", "upperarm_r", "upperarm.r", "r_upperarm", "rightarm"}},
	{RoleRightLowerArm, []string{"rightlowerarm", "lowerarm_r", "lowerarm.r", "rightforearm", "forearm_r", "forearm.r", "r_forearm"}},
	{RoleRightHand, []string{"righthand", "hand_r", "hand.r", "r_hand", "rightwrist", "wrist_r"}},
	{RoleLeftUpperLeg, []string{"leftupperleg", "upperleg_l", "upperleg.l", "leftupleg", "thigh_l", "thigh.l", "l_thigh"}},
	{RoleLeftLowerLeg, []string{"leftlowerleg", "lowerleg_l", "lowerleg.l", "leftleg", "calf_l", "calf.l", "shin_l", "l_calf"}},
	{RoleLeftFoot, []string{"leftfoot", "foot_l", "foot.l", "l_foot", "leftankle", "ankle_l"}},
	{RoleRightUpperLeg, []string{"rightupperleg", "upperleg_r", "upperleg.r", "rightupleg", "thigh_r", "thigh.r", "r_thigh"}},
	{RoleRightLowerLeg, []string{"rightlowerleg", "lowerleg_r", "lowerleg.r", "rightleg", "calf_r", "calf.r", "shin_r", "r_calf"}},
	{RoleRightFoot, []string{"rightfoot", "foot_r", "foot.r", "r_foot", "rightankle", "ankle_r"}},
}

// MatchBoneRole resolves one external bone name to a retargetable role by
// case-insensitive substring match against the alias table.  The scan is
// deterministic and order sensitive: the first alias, in table order, that
// is a substring of the external name wins.
func MatchBoneRole(externalName string) (Role, bool) {

	for _, entry := range aliasTable {
		if MatchAlias(entry.aliases, externalName) {
			return entry.role, true
		}
	}

	return 0, false
}

// MatchAlias reports whether the external name contains any of the
// candidate spellings, ignoring case.  Candidates are tested in the given
// order.
func MatchAlias(candidateNames []string, externalName string) bool {

	name := strings.ToLower(externalName)

	for _, candidate := range candidateNames {
		if strings.Contains(name, strings.ToLower(candidate)) {
			return true
		}
	}

	return false
}
