// Package recommend searches single bets and parlays that satisfy a
// threshold profile and ranks them by expected value.
package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProfile is returned for a profile name that is not registered
	ErrUnknownProfile = errors.New("unknown recommendation profile")
	// ErrTooManyCandidates is returned when a combination search would exceed the candidate ceiling
	ErrTooManyCandidates = errors.New("too many candidate legs for combination search")
)

// ProfileName identifies a threshold profile
type ProfileName string

const (
	ProfileSingle    ProfileName = "single_bets"
	ProfileTwoLeg    ProfileName = "two_leg_parlays"
	ProfileThreeLeg  ProfileName = "three_leg_parlays"
	ProfileFavorites ProfileName = "favorite_parlays"
)

// SearchKind selects how candidate leg sets are generated for a profile
type SearchKind int

const (
	// SearchSingle checks every leg on its own
	SearchSingle SearchKind = iota
	// SearchCombinations enumerates every MaxLegs-sized combination
	SearchCombinations
	// SearchFavorites builds one parlay from the strongest short-priced legs
	SearchFavorites
)

// Profile is a named set of recommendation thresholds.
// MinWinProbability is a percentage (0-100). MaxOddsPerLeg of zero means no cap.
type Profile struct {
	Name              ProfileName
	Kind              SearchKind
	MinDecimalOdds    float64
	MinWinProbability float64
	MaxLegs           int
	MaxResults        int
	MaxOddsPerLeg     float64
}

var builtinProfiles = []Profile{
	{
		Name:              ProfileSingle,
		Kind:              SearchSingle,
		MinDecimalOdds:    2.0,
		MinWinProbability: 80.0,
		MaxLegs:           1,
		MaxResults:        5,
	},
	{
		Name:              ProfileTwoLeg,
		Kind:              SearchCombinations,
		MinDecimalOdds:    4.0,
		MinWinProbability: 60.0,
		MaxLegs:           2,
		MaxResults:        3,
	},
	{
		Name:              ProfileThreeLeg,
		Kind:              SearchCombinations,
		MinDecimalOdds:    5.0,
		MinWinProbability: 40.0,
		MaxLegs:           3,
		MaxResults:        3,
	},
	{
		Name:              ProfileFavorites,
		Kind:              SearchFavorites,
		MinDecimalOdds:    3.0,
		MinWinProbability: 50.0,
		MaxLegs:           6,
		MaxResults:        2,
		MaxOddsPerLeg:     1.5,
	},
}

// Profiles returns the built-in profiles in evaluation order
func Profiles() []Profile {
	out := make([]Profile, len(builtinProfiles))
	copy(out, builtinProfiles)
	return out
}

// ProfileByName looks up a built-in profile
func ProfileByName(name string) (Profile, error) {
	for _, p := range builtinProfiles {
		if string(p.Name) == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Accepts reports whether combined odds and win probability (percent) meet the thresholds.
// Both comparisons are inclusive.
func (p Profile) Accepts(decimalOdds, winProbabilityPct float64) bool {
	return decimalOdds >= p.MinDecimalOdds && winProbabilityPct >= p.MinWinProbability
}

// AllowsLeg reports whether a single leg's price is within the per-leg cap
func (p Profile) AllowsLeg(decimalOdds float64) bool {
	return p.MaxOddsPerLeg <= 0 || decimalOdds <= p.MaxOddsPerLeg
}
