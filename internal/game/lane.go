package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Lane is one of the four fixed tracks a note travels in.
type Lane uint8

const (
	Lane1 Lane = iota
	Lane2
	Lane3
	Lane4
)

// NLanes is the number of playable lanes
const NLanes = 4

// Lanes in left to right order
var Lanes = [NLanes]Lane{Lane1, Lane2, Lane3, Lane4}

// Skin is the visual family a lane draws its notes and key with.
type Skin uint8

const (
	SkinA Skin = iota
	SkinB
)

// Lanes sit symmetrically around the centre line, one note width apart
var laneOffsets = [NLanes]float64{-1.5, -0.5, 0.5, 1.5}

// Offset is the horizontal position of the lane centre in note widths.
func (l Lane) Offset() float64 {
	return laneOffsets[l]
}

// Skin pairs the outer lanes and the inner lanes.
func (l Lane) Skin() Skin {
	switch l {
	case Lane1, Lane4:
		return SkinA
	default:
		return SkinB
	}
}

func (l Lane) Valid() bool {
	return l < NLanes
}

func (l Lane) String() string {
	return "Key" + strconv.Itoa(int(l)+1)
}

// ParseLane accepts the chart spellings of a lane: Key1..Key4 or 1..4.
func ParseLane(s string) (Lane, error) {
	t := strings.TrimPrefix(strings.TrimSpace(s), "Key")
	n, err := strconv.Atoi(t)
	if nil != err || n < 1 || n > NLanes {
		return 0, fmt.Errorf("unknown lane %q", s)
	}
	return Lane(n - 1), nil
}
