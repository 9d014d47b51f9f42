package game

import "testing"

var parseLaneTests = map[string]Lane{
	"Key1": Lane1,
	"Key2": Lane2,
	"Key3": Lane3,
	"Key4": Lane4,
	"1":    Lane1,
	" 4 ":  Lane4,
}

func TestParseLane(t *testing.T) {
	for in, expected := range parseLaneTests {
		out, err := ParseLane(in)
		if nil != err || out != expected {
			t.Log("in      ", in)
			t.Log("out     ", out, err)
			t.Log("expected", expected)
			t.Fail()
		}
	}
	for _, in := range []string{"", "Key0", "Key5", "5", "left", "KeyA"} {
		if _, err := ParseLane(in); nil == err {
			t.Errorf("accepted %q", in)
		}
	}
}

func TestLaneString(t *testing.T) {
	for _, lane := range Lanes {
		parsed, err := ParseLane(lane.String())
		if nil != err || parsed != lane {
			t.Errorf("%v did not survive its text form", lane)
		}
	}
}

func TestSkinPairs(t *testing.T) {
	if Lane1.Skin() != Lane4.Skin() || Lane2.Skin() != Lane3.Skin() || Lane1.Skin() == Lane2.Skin() {
		t.Errorf("skins %v %v %v %v", Lane1.Skin(), Lane2.Skin(), Lane3.Skin(), Lane4.Skin())
	}
}

func TestOffsetsSymmetric(t *testing.T) {
	for i := 0; i < NLanes/2; i++ {
		if Lanes[i].Offset() != -Lanes[NLanes-1-i].Offset() {
			t.Errorf("lane %v and %v are not mirrored", Lanes[i], Lanes[NLanes-1-i])
		}
	}
	if Lane2.Offset()-Lane1.Offset() != 1 {
		t.Errorf("lanes are not one note width apart")
	}
}
