package planner

import "github.com/evolvefit/fatiguecore/internal/fatigue"

// VolumeLandmarks are weekly set counts per muscle: the minimum
// effective volume (MEV), the maximum adaptive volume (MAV) and the
// maximum recoverable volume (MRV). Sets above MRV dig a recovery hole
// instead of building anything.
type VolumeLandmarks struct {
	MEV int `json:"mev"`
	MAV int `json:"mav"`
	MRV int `json:"mrv"`
}

var defaultLandmarks = map[fatigue.Muscle]VolumeLandmarks{
	fatigue.MuscleChest:      {MEV: 10, MAV: 16, MRV: 22},
	fatigue.MuscleBack:       {MEV: 10, MAV: 18, MRV: 25},
	fatigue.MuscleShoulders:  {MEV: 8, MAV: 20, MRV: 26},
	fatigue.MuscleBiceps:     {MEV: 8, MAV: 17, MRV: 26},
	fatigue.MuscleTriceps:    {MEV: 6, MAV: 12, MRV: 18},
	fatigue.MuscleForearms:   {MEV: 4, MAV: 12, MRV: 20},
	fatigue.MuscleQuads:      {MEV: 8, MAV: 14, MRV: 18},
	fatigue.MuscleHamstrings: {MEV: 6, MAV: 12, MRV: 16},
	fatigue.MuscleGlutes:     {MEV: 4, MAV: 10, MRV: 16},
	fatigue.MuscleCalves:     {MEV: 8, MAV: 14, MRV: 20},
	fatigue.MuscleCore:       {MEV: 6, MAV: 16, MRV: 25},
	fatigue.MuscleLowerBack:  {MEV: 4, MAV: 8, MRV: 12},
	fatigue.MuscleTraps:      {MEV: 4, MAV: 12, MRV: 20},
}

// LandmarksFor returns the volume landmarks for the given muscle.
func LandmarksFor(m fatigue.Muscle) VolumeLandmarks {
	if lm, ok := defaultLandmarks[m]; ok {
		return lm
	}
	return VolumeLandmarks{MEV: 6, MAV: 12, MRV: 18}
}
